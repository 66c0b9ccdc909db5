// Package events publishes invoice workflow events to NATS for downstream consumers.
//
// Subject convention: invoices.workflow.<action>, e.g. invoices.workflow.assign.
// Publishing is best-effort: failures are logged and never reach the caller.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/nats-io/nats.go"
)

const subjectPrefix = "invoices.workflow"

// WorkflowEvent is the JSON payload published after a committed transition
type WorkflowEvent struct {
	EventType  string                `json:"event_type"`
	InvoiceID  uint                  `json:"invoice_id"`
	Action     models.WorkflowAction `json:"action"`
	FromStatus *models.InvoiceStatus `json:"from_status,omitempty"`
	ToStatus   models.InvoiceStatus  `json:"to_status"`
	ActorID    uint                  `json:"actor_id"`
	ProjectID  *uint                 `json:"project_id,omitempty"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// NewWorkflowEvent builds the event for a log entry on invoice
func NewWorkflowEvent(invoice *models.Invoice, log *models.WorkflowLog) *WorkflowEvent {
	return &WorkflowEvent{
		EventType:  "invoice_" + strings.ToLower(string(log.Action)),
		InvoiceID:  invoice.ID,
		Action:     log.Action,
		FromStatus: log.FromStatus,
		ToStatus:   log.ToStatus,
		ActorID:    log.ActorID,
		ProjectID:  invoice.ProjectID,
		OccurredAt: log.Timestamp,
	}
}

// Subject returns the NATS subject for action
func Subject(action models.WorkflowAction) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, strings.ToLower(string(action)))
}

// Publisher emits workflow events
type Publisher interface {
	PublishWorkflow(ctx context.Context, event *WorkflowEvent)
}

// Connect opens a NATS connection that keeps reconnecting in the background
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("faturaflow-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// NATSPublisher publishes events on a NATS connection
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher creates a publisher backed by conn
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

func (p *NATSPublisher) PublishWorkflow(ctx context.Context, event *WorkflowEvent) {
	if p == nil || p.conn == nil || event == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("events: failed to marshal workflow event", "error", err, "invoice_id", event.InvoiceID)
		return
	}

	subject := Subject(event.Action)
	if err := p.conn.Publish(subject, data); err != nil {
		logger.Warn("events: failed to publish workflow event (non-fatal)",
			"error", err,
			"subject", subject,
			"invoice_id", event.InvoiceID,
		)
		return
	}

	logger.Debug("events: workflow event published", "subject", subject, "invoice_id", event.InvoiceID)
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NopPublisher discards events
type NopPublisher struct{}

func (NopPublisher) PublishWorkflow(context.Context, *WorkflowEvent) {}
