package statemachine

import (
	"context"
	"errors"
	"fmt"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/looplab/fsm"
)

// ErrTransitionNotAllowed is returned when an action is not valid from the current status
var ErrTransitionNotAllowed = errors.New("transition not allowed")

func src(statuses ...models.InvoiceStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// invoiceEvents is the complete workflow transition table. CREATE is not an
// event: it produces the initial PENDING state.
var invoiceEvents = fsm.Events{
	// pending/returned → assigned
	{Name: string(models.ActionAssign), Src: src(models.InvoiceStatusPending, models.InvoiceStatusReturned), Dst: string(models.InvoiceStatusAssigned)},

	// assigned → processed
	{Name: string(models.ActionProcess), Src: src(models.InvoiceStatusAssigned), Dst: string(models.InvoiceStatusProcessed)},

	// processed → returned
	{Name: string(models.ActionReturn), Src: src(models.InvoiceStatusProcessed), Dst: string(models.InvoiceStatusReturned)},

	// processed → archived
	{Name: string(models.ActionArchive), Src: src(models.InvoiceStatusProcessed), Dst: string(models.InvoiceStatusArchived)},
}

// workflowActions lists the transition actions in display order
var workflowActions = []models.WorkflowAction{
	models.ActionAssign,
	models.ActionProcess,
	models.ActionReturn,
	models.ActionArchive,
}

// InvoiceFSM wraps an invoice with its state machine
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

// NewInvoiceFSM creates a new invoice state machine starting at the invoice's status
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	return &InvoiceFSM{
		invoice: invoice,
		fsm:     fsm.NewFSM(string(invoice.Status), invoiceEvents, fsm.Callbacks{}),
	}
}

// Fire applies action to the invoice, updating its status in memory
func (f *InvoiceFSM) Fire(ctx context.Context, action models.WorkflowAction) error {
	if !f.fsm.Can(string(action)) {
		return fmt.Errorf("%w: %s from %s", ErrTransitionNotAllowed, action, f.invoice.Status)
	}

	if err := f.fsm.Event(ctx, string(action)); err != nil {
		return fmt.Errorf("failed to %s invoice: %w", action, err)
	}

	f.invoice.Status = models.InvoiceStatus(f.fsm.Current())
	return nil
}

// Current returns the current state
func (f *InvoiceFSM) Current() models.InvoiceStatus {
	return models.InvoiceStatus(f.fsm.Current())
}

// Can checks if a transition is possible
func (f *InvoiceFSM) Can(action models.WorkflowAction) bool {
	return f.fsm.Can(string(action))
}

// Next returns the status reached by applying action to status
func Next(status models.InvoiceStatus, action models.WorkflowAction) (models.InvoiceStatus, bool) {
	for _, ev := range invoiceEvents {
		if ev.Name != string(action) {
			continue
		}
		for _, s := range ev.Src {
			if s == string(status) {
				return models.InvoiceStatus(ev.Dst), true
			}
		}
	}
	return "", false
}

// AvailableActions lists the actions valid from status
func AvailableActions(status models.InvoiceStatus) []models.WorkflowAction {
	var out []models.WorkflowAction
	for _, a := range workflowActions {
		if _, ok := Next(status, a); ok {
			out = append(out, a)
		}
	}
	return out
}
