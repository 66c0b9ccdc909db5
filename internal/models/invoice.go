package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the workflow state of an invoice
type InvoiceStatus string

// Invoice status constants
const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusAssigned  InvoiceStatus = "ASSIGNED"
	InvoiceStatusProcessed InvoiceStatus = "PROCESSED"
	InvoiceStatusReturned  InvoiceStatus = "RETURNED"
	InvoiceStatusArchived  InvoiceStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known statuses
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusAssigned, InvoiceStatusProcessed,
		InvoiceStatusReturned, InvoiceStatusArchived:
		return true
	}
	return false
}

// Currency is an ISO code accepted on invoices
type Currency string

// Supported currencies
const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// ParseCurrency normalizes a currency code. Empty input yields TRY.
func ParseCurrency(code string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if c == "" {
		return CurrencyTRY, true
	}
	switch c {
	case CurrencyTRY, CurrencyUSD, CurrencyEUR, CurrencyGBP:
		return c, true
	}
	return c, false
}

// Invoice is a supplier bill moving through the approval workflow
type Invoice struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	InvoiceNo          *string             `gorm:"size:100;index" json:"invoice_no"`
	Amount             decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"amount"`
	Currency           Currency            `gorm:"size:3;not null;default:TRY" json:"currency"`
	Supplier           string              `gorm:"not null;index" json:"supplier"`
	InvoiceDate        time.Time           `gorm:"not null;index" json:"invoice_date"`
	Tax                decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"tax"`
	AmountExcludingTax decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"amount_excluding_tax"`
	Scenario           *string             `json:"scenario"`
	InvoiceType        *string             `json:"invoice_type"`
	Description        *string             `gorm:"type:text" json:"description"`
	Status             InvoiceStatus       `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ProjectID          *uint               `gorm:"index" json:"project_id"`
	AssignedToID       *uint               `gorm:"index" json:"assigned_to_id"`
	CreatedAt          time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	// Associations
	Project     *Project      `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo  *User         `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Attachments []Attachment  `gorm:"foreignKey:InvoiceID" json:"attachments"`
	Logs        []WorkflowLog `gorm:"foreignKey:InvoiceID" json:"logs"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// IsPendingWork returns true while the invoice still waits on somebody
func (i *Invoice) IsPendingWork() bool {
	return i.Status == InvoiceStatusPending || i.Status == InvoiceStatusAssigned
}

// DepartmentName resolves the invoice's department through its project
func (i *Invoice) DepartmentName() string {
	if i.Project == nil || i.Project.Department == nil {
		return ""
	}
	return i.Project.Department.Name
}

// ProjectName returns the project name or an empty string
func (i *Invoice) ProjectName() string {
	if i.Project == nil {
		return ""
	}
	return i.Project.Name
}

// FirstLog returns the earliest log entry with the given action
func (i *Invoice) FirstLog(action WorkflowAction) *WorkflowLog {
	var first *WorkflowLog
	for idx := range i.Logs {
		l := &i.Logs[idx]
		if l.Action != action {
			continue
		}
		if first == nil || l.Timestamp.Before(first.Timestamp) ||
			(l.Timestamp.Equal(first.Timestamp) && l.ID < first.ID) {
			first = l
		}
	}
	return first
}

// Attachment is a file reference carried by an invoice
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	InvoiceID uint      `gorm:"not null;index" json:"invoice_id"`
	Name      string    `gorm:"not null" json:"name"`
	URL       string    `gorm:"not null" json:"url"`
	Type      string    `gorm:"not null;default:application/pdf" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}

// DefaultAttachmentType is used when the uploader gives no mime type
const DefaultAttachmentType = "application/pdf"

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	*Invoice
	Department     string           `json:"department,omitempty"`
	AllowedActions []WorkflowAction `json:"allowed_actions"`
}
