package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/events"
	"github.com/faturaflow/faturaflow-api/internal/jobs"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/internal/statemachine"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// asyncRunner runs post-commit side effects
type asyncRunner interface {
	EnqueueAsync(job jobs.Job)
}

// AttachmentInput describes a file uploaded beforehand
type AttachmentInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// CreateRequest holds the fields of a new invoice
type CreateRequest struct {
	InvoiceNo          *string           `json:"invoice_no"`
	Amount             decimal.Decimal   `json:"amount"`
	Currency           string            `json:"currency"`
	Supplier           string            `json:"supplier"`
	InvoiceDate        *time.Time        `json:"invoice_date"`
	Tax                *decimal.Decimal  `json:"tax"`
	AmountExcludingTax *decimal.Decimal  `json:"amount_excluding_tax"`
	Scenario           *string           `json:"scenario"`
	InvoiceType        *string           `json:"invoice_type"`
	Description        *string           `json:"description"`
	ProjectID          *uint             `json:"project_id"`
	Attachments        []AttachmentInput `json:"attachments"`
}

// TransitionRequest is one of AssignRequest, ProcessRequest, ReturnRequest
// or ArchiveRequest
type TransitionRequest interface {
	Action() models.WorkflowAction
	transition()
}

// AssignRequest routes an invoice to a project
type AssignRequest struct {
	ProjectID   *uint
	Reason      *string
	Description *string
}

// ProcessRequest marks an assigned invoice as handled by operations
type ProcessRequest struct {
	Description *string
}

// ReturnRequest sends a processed invoice back to accounting
type ReturnRequest struct {
	Reason      *string
	Description *string
}

// ArchiveRequest closes a processed invoice
type ArchiveRequest struct{}

func (AssignRequest) Action() models.WorkflowAction  { return models.ActionAssign }
func (ProcessRequest) Action() models.WorkflowAction { return models.ActionProcess }
func (ReturnRequest) Action() models.WorkflowAction  { return models.ActionReturn }
func (ArchiveRequest) Action() models.WorkflowAction { return models.ActionArchive }

func (AssignRequest) transition()  {}
func (ProcessRequest) transition() {}
func (ReturnRequest) transition()  {}
func (ArchiveRequest) transition() {}

// TransitionBody is the wire shape of a transition call
type TransitionBody struct {
	Action      string  `json:"action"`
	ProjectID   *uint   `json:"project_id"`
	Reason      *string `json:"reason"`
	Description *string `json:"description"`
}

// ParseTransitionRequest builds the typed request for body.Action
func ParseTransitionRequest(body TransitionBody) (TransitionRequest, error) {
	switch models.WorkflowAction(strings.ToUpper(strings.TrimSpace(body.Action))) {
	case models.ActionAssign:
		return AssignRequest{ProjectID: body.ProjectID, Reason: body.Reason, Description: body.Description}, nil
	case models.ActionProcess:
		return ProcessRequest{Description: body.Description}, nil
	case models.ActionReturn:
		return ReturnRequest{Reason: body.Reason, Description: body.Description}, nil
	case models.ActionArchive:
		return ArchiveRequest{}, nil
	case "":
		return nil, errorf(ErrValidation, "action is required")
	}
	return nil, errorf(ErrValidation, "unknown action %q", body.Action)
}

// WorkflowOption configures a WorkflowService
type WorkflowOption func(*WorkflowService)

// WithClock overrides the time source for log timestamps
func WithClock(now func() time.Time) WorkflowOption {
	return func(s *WorkflowService) { s.now = now }
}

// WorkflowService owns every invoice status change
type WorkflowService struct {
	invoiceRepo repository.InvoiceRepository
	projectRepo repository.ProjectRepository
	notifier    *NotificationService
	publisher   events.Publisher
	runner      asyncRunner
	now         func() time.Time
}

func NewWorkflowService(invoiceRepo repository.InvoiceRepository, projectRepo repository.ProjectRepository, notifier *NotificationService, publisher events.Publisher, runner asyncRunner, opts ...WorkflowOption) *WorkflowService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	s := &WorkflowService{
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
		publisher:   publisher,
		runner:      runner,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req and persists a PENDING invoice with its CREATE log
func (s *WorkflowService) Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Invoice, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !policy.CanPerform(actor.Role, models.ActionCreate) {
		return nil, errorf(ErrForbidden, "role %s cannot create invoices", actor.Role)
	}

	invoice, err := s.buildInvoice(ctx, req)
	if err != nil {
		return nil, err
	}

	log := &models.WorkflowLog{
		Action:    models.ActionCreate,
		ActorID:   actor.ID,
		Note:      "Invoice Created",
		ToStatus:  models.InvoiceStatusPending,
		Timestamp: s.now().UTC(),
	}
	if err := s.invoiceRepo.Create(ctx, invoice, log); err != nil {
		return nil, err
	}

	logger.Info("invoice created",
		"invoice_id", invoice.ID,
		"actor_id", actor.ID,
		"amount", invoice.Amount.String(),
		"currency", invoice.Currency,
	)

	saved, err := s.invoiceRepo.FindByID(ctx, invoice.ID)
	if err != nil {
		return nil, translate(err, "invoice")
	}
	s.afterCommit(saved, log)
	return saved, nil
}

func (s *WorkflowService) buildInvoice(ctx context.Context, req CreateRequest) (*models.Invoice, error) {
	if !req.Amount.IsPositive() {
		return nil, errorf(ErrValidation, "amount must be greater than zero")
	}
	cur, ok := models.ParseCurrency(req.Currency)
	if !ok {
		return nil, errorf(ErrValidation, "unsupported currency %q", req.Currency)
	}
	supplier := strings.TrimSpace(req.Supplier)
	if supplier == "" {
		return nil, errorf(ErrValidation, "supplier is required")
	}
	if req.Tax != nil && req.Tax.IsNegative() {
		return nil, errorf(ErrValidation, "tax cannot be negative")
	}
	if req.AmountExcludingTax != nil && req.AmountExcludingTax.IsNegative() {
		return nil, errorf(ErrValidation, "amount excluding tax cannot be negative")
	}
	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *req.ProjectID); err != nil {
			if repository.IsNotFound(err) {
				return nil, errorf(ErrValidation, "project %d does not exist", *req.ProjectID)
			}
			return nil, err
		}
	}

	invoiceDate := s.now().UTC()
	if req.InvoiceDate != nil && !req.InvoiceDate.IsZero() {
		invoiceDate = *req.InvoiceDate
	}

	invoice := &models.Invoice{
		InvoiceNo:   trimmed(req.InvoiceNo),
		Amount:      req.Amount,
		Currency:    cur,
		Supplier:    supplier,
		InvoiceDate: invoiceDate,
		Scenario:    trimmed(req.Scenario),
		InvoiceType: trimmed(req.InvoiceType),
		Description: trimmed(req.Description),
		Status:      models.InvoiceStatusPending,
		ProjectID:   req.ProjectID,
	}
	if req.Tax != nil {
		invoice.Tax = decimal.NewNullDecimal(*req.Tax)
	}
	if req.AmountExcludingTax != nil {
		invoice.AmountExcludingTax = decimal.NewNullDecimal(*req.AmountExcludingTax)
	}

	for i, a := range req.Attachments {
		name, url := strings.TrimSpace(a.Name), strings.TrimSpace(a.URL)
		if name == "" || url == "" {
			return nil, errorf(ErrValidation, "attachment %d requires name and url", i+1)
		}
		mime := strings.TrimSpace(a.Type)
		if mime == "" {
			mime = models.DefaultAttachmentType
		}
		invoice.Attachments = append(invoice.Attachments, models.Attachment{Name: name, URL: url, Type: mime})
	}
	return invoice, nil
}

// Transition applies req to the invoice on behalf of actor and returns the
// updated invoice with its full log
func (s *WorkflowService) Transition(ctx context.Context, invoiceID uint, actor *models.User, req TransitionRequest) (*models.Invoice, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if req == nil {
		return nil, errorf(ErrValidation, "action is required")
	}
	action := req.Action()

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, translate(err, "invoice")
	}
	if !policy.CanPerform(actor.Role, action) {
		return nil, errorf(ErrForbidden, "role %s cannot %s invoices", actor.Role, strings.ToLower(string(action)))
	}
	if !policy.VisibilityFor(actor).Allows(invoice) {
		return nil, errorf(ErrNotFound, "invoice not found")
	}

	from := invoice.Status
	machine := statemachine.NewInvoiceFSM(invoice)
	if !machine.Can(action) {
		return nil, errorf(ErrInvalidTransition, "cannot %s an invoice in status %s", strings.ToLower(string(action)), from)
	}
	if err := machine.Fire(ctx, action); err != nil {
		return nil, err
	}

	change := &repository.StatusChange{
		InvoiceID: invoice.ID,
		From:      from,
		To:        machine.Current(),
		Log: &models.WorkflowLog{
			Action:     action,
			ActorID:    actor.ID,
			FromStatus: &from,
			ToStatus:   machine.Current(),
			Timestamp:  s.now().UTC(),
		},
	}

	switch r := req.(type) {
	case AssignRequest:
		if r.ProjectID == nil || *r.ProjectID == 0 {
			return nil, errorf(ErrMissingProject, "project_id is required to assign an invoice")
		}
		project, err := s.projectRepo.FindByID(ctx, *r.ProjectID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, errorf(ErrMissingProject, "project %d does not exist", *r.ProjectID)
			}
			return nil, err
		}
		change.ProjectID = &project.ID
		change.Description = trimmed(r.Description)
		change.Log.TargetProjectID = &project.ID
		change.Log.Reason = trimmed(r.Reason)
		change.Log.Note = fmt.Sprintf("Assigned to Project: %s by %s. Note: %s",
			project.Name, actor.DisplayName(), firstNonBlank("No note", r.Description))

	case ProcessRequest:
		change.AssignedToID = &actor.ID
		change.Log.Note = "Processed by Operation. Note: " + firstNonBlank("No note", r.Description)

	case ReturnRequest:
		change.Log.Reason = trimmed(r.Reason)
		change.Log.Note = "Returned to Accounting. Reason: " + firstNonBlank("No reason", r.Description, r.Reason)

	case ArchiveRequest:
		change.Log.Note = "Invoice Archived"
	}

	if err := s.invoiceRepo.ApplyTransition(ctx, change); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, errorf(ErrInvalidTransition, "invoice is no longer %s", from)
		}
		return nil, translate(err, "invoice")
	}

	logger.Info("invoice transitioned",
		"invoice_id", invoice.ID,
		"action", action,
		"from", from,
		"to", change.To,
		"actor_id", actor.ID,
	)

	updated, err := s.invoiceRepo.FindByID(ctx, invoice.ID)
	if err != nil {
		return nil, translate(err, "invoice")
	}
	s.afterCommit(updated, change.Log)
	return updated, nil
}

// AllowedActions lists the transitions user may apply to invoice right now
func (s *WorkflowService) AllowedActions(invoice *models.Invoice, user *models.User) []models.WorkflowAction {
	return AllowedActions(invoice, user)
}

// AllowedActions intersects the state machine with the access policy
func AllowedActions(invoice *models.Invoice, user *models.User) []models.WorkflowAction {
	out := []models.WorkflowAction{}
	if invoice == nil || user == nil {
		return out
	}
	for _, action := range statemachine.AvailableActions(invoice.Status) {
		if policy.CanPerform(user.Role, action) {
			out = append(out, action)
		}
	}
	return out
}

// afterCommit schedules notification fan-out and event publishing. Both run
// outside the request and never affect the transition result.
func (s *WorkflowService) afterCommit(invoice *models.Invoice, log *models.WorkflowLog) {
	if s.runner == nil {
		return
	}
	snapshot := *invoice
	entry := *log
	s.runner.EnqueueAsync(func(ctx context.Context) error {
		s.publisher.PublishWorkflow(ctx, events.NewWorkflowEvent(&snapshot, &entry))
		if s.notifier == nil {
			return nil
		}
		if _, err := s.notifier.Dispatch(ctx, &snapshot, entry.Action); err != nil {
			logger.Error("notification dispatch failed",
				"error", err,
				"invoice_id", snapshot.ID,
				"action", entry.Action,
			)
		}
		return nil
	})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func firstNonBlank(fallback string, values ...*string) string {
	for _, v := range values {
		if t := trimmed(v); t != nil {
			return *t
		}
	}
	return fallback
}
