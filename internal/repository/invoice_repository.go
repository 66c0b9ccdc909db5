package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice, log *models.WorkflowLog) error
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, error)
	ApplyTransition(ctx context.Context, change *StatusChange) error
	FindCreatorID(ctx context.Context, invoiceID uint) (uint, error)
}

// InvoiceQuery filters invoice listings
type InvoiceQuery struct {
	Scope         policy.Scope
	Statuses      []models.InvoiceStatus
	ExcludeStatus []models.InvoiceStatus
	From          *time.Time
	To            *time.Time
}

// StatusChange is one compare-and-set workflow step
type StatusChange struct {
	InvoiceID    uint
	From         models.InvoiceStatus
	To           models.InvoiceStatus
	ProjectID    *uint
	AssignedToID *uint
	Description  *string
	Log          *models.WorkflowLog
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

// Create inserts the invoice, its attachments and the CREATE log together
func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice, log *models.WorkflowLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Project", "AssignedTo", "Logs").Create(invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		log.InvoiceID = invoice.ID
		if err := tx.Omit("Actor").Create(log).Error; err != nil {
			return fmt.Errorf("failed to create invoice log: %w", err)
		}
		return nil
	})
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Project.Department").
		Preload("AssignedTo").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Logs", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		Preload("Logs.Actor")
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := withDetails(r.db.WithContext(ctx)).First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, query *InvoiceQuery) ([]models.Invoice, error) {
	if query == nil {
		query = &InvoiceQuery{}
	}

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.Scope.Restricted {
		if query.Scope.ProjectID != nil {
			db = db.Where("(assigned_to_id = ? OR project_id = ?)", query.Scope.UserID, *query.Scope.ProjectID)
		} else {
			db = db.Where("assigned_to_id = ?", query.Scope.UserID)
		}
	}
	if len(query.Statuses) > 0 {
		db = db.Where("status IN ?", query.Statuses)
	}
	if len(query.ExcludeStatus) > 0 {
		db = db.Where("status NOT IN ?", query.ExcludeStatus)
	}
	if query.From != nil {
		db = db.Where("invoice_date >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("invoice_date <= ?", *query.To)
	}

	var invoices []models.Invoice
	err := withDetails(db).Order("created_at DESC, id DESC").Find(&invoices).Error
	return invoices, err
}

// ApplyTransition moves the invoice from change.From to change.To and appends
// change.Log in one transaction. It returns ErrStatusChanged when the invoice
// is no longer in change.From.
func (r *invoiceRepository) ApplyTransition(ctx context.Context, change *StatusChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     change.To,
			"updated_at": time.Now().UTC(),
		}
		if change.ProjectID != nil {
			updates["project_id"] = *change.ProjectID
		}
		if change.AssignedToID != nil {
			updates["assigned_to_id"] = *change.AssignedToID
		}
		if change.Description != nil {
			updates["description"] = *change.Description
		}

		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status = ?", change.InvoiceID, change.From).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update invoice status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Invoice{}).Where("id = ?", change.InvoiceID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrStatusChanged
		}

		// Keep log timestamps non-decreasing per invoice
		var last models.WorkflowLog
		if err := tx.Where("invoice_id = ?", change.InvoiceID).
			Order("timestamp DESC, id DESC").
			Limit(1).
			Find(&last).Error; err != nil {
			return err
		}
		if last.ID != 0 && change.Log.Timestamp.Before(last.Timestamp) {
			change.Log.Timestamp = last.Timestamp
		}

		change.Log.InvoiceID = change.InvoiceID
		if err := tx.Omit("Actor").Create(change.Log).Error; err != nil {
			return fmt.Errorf("failed to append invoice log: %w", err)
		}
		return nil
	})
}

// FindCreatorID returns the actor of the invoice's first CREATE log
func (r *invoiceRepository) FindCreatorID(ctx context.Context, invoiceID uint) (uint, error) {
	var log models.WorkflowLog
	err := r.db.WithContext(ctx).
		Where("invoice_id = ? AND action = ?", invoiceID, models.ActionCreate).
		Order("timestamp ASC, id ASC").
		First(&log).Error
	if err != nil {
		return 0, err
	}
	return log.ActorID, nil
}
