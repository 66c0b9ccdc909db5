package services

import (
	"context"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"github.com/faturaflow/faturaflow-api/internal/repository"
)

// InvoiceFilter narrows an invoice listing
type InvoiceFilter struct {
	Statuses []models.InvoiceStatus
	From     *time.Time
	To       *time.Time
}

// InvoiceService is the role-filtered read path for invoices
type InvoiceService struct {
	repo repository.InvoiceRepository
}

func NewInvoiceService(repo repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{repo: repo}
}

// List returns the invoices viewer may see, newest first
func (s *InvoiceService) List(ctx context.Context, viewer *models.User, filter InvoiceFilter) ([]models.Invoice, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, errorf(ErrValidation, "unknown status %q", st)
		}
	}
	invoices, err := s.repo.List(ctx, &repository.InvoiceQuery{
		Scope:    policy.VisibilityFor(viewer),
		Statuses: filter.Statuses,
		From:     filter.From,
		To:       filter.To,
	})
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

// Get returns one invoice if viewer may see it
func (s *InvoiceService) Get(ctx context.Context, viewer *models.User, id uint) (*models.Invoice, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "invoice")
	}
	if !policy.VisibilityFor(viewer).Allows(invoice) {
		return nil, errorf(ErrNotFound, "invoice not found")
	}
	return invoice, nil
}

// Respond decorates invoices with the viewer's allowed actions
func Respond(viewer *models.User, invoices ...models.Invoice) []models.InvoiceResponse {
	out := make([]models.InvoiceResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		out[i] = models.InvoiceResponse{
			Invoice:        inv,
			Department:     inv.DepartmentName(),
			AllowedActions: AllowedActions(inv, viewer),
		}
	}
	return out
}
