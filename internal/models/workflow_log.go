package models

import (
	"time"
)

// WorkflowAction names a step in the invoice workflow
type WorkflowAction string

// Workflow action constants
const (
	ActionCreate  WorkflowAction = "CREATE"
	ActionAssign  WorkflowAction = "ASSIGN"
	ActionProcess WorkflowAction = "PROCESS"
	ActionReturn  WorkflowAction = "RETURN"
	ActionArchive WorkflowAction = "ARCHIVE"
)

// WorkflowLog is an immutable record of one workflow action on an invoice.
// Rows are only ever inserted.
type WorkflowLog struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	InvoiceID       uint           `gorm:"not null;index:idx_workflow_logs_invoice_ts,priority:1" json:"invoice_id"`
	Action          WorkflowAction `gorm:"size:20;not null;index" json:"action"`
	ActorID         uint           `gorm:"not null;index" json:"actor_id"`
	Note            string         `gorm:"type:text" json:"note"`
	FromStatus      *InvoiceStatus `gorm:"size:20" json:"from_status"`
	ToStatus        InvoiceStatus  `gorm:"size:20;not null" json:"to_status"`
	TargetProjectID *uint          `json:"target_project_id,omitempty"`
	Reason          *string        `gorm:"type:text" json:"reason,omitempty"`
	Timestamp       time.Time      `gorm:"not null;index:idx_workflow_logs_invoice_ts,priority:2" json:"timestamp"`

	// Associations
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// TableName specifies the table name for WorkflowLog
func (WorkflowLog) TableName() string {
	return "workflow_logs"
}
