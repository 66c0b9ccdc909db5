package statemachine

import (
	"context"
	"errors"
	"testing"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name   string
		from   models.InvoiceStatus
		action models.WorkflowAction
		want   models.InvoiceStatus
		ok     bool
	}{
		{"assign pending", models.InvoiceStatusPending, models.ActionAssign, models.InvoiceStatusAssigned, true},
		{"reassign returned", models.InvoiceStatusReturned, models.ActionAssign, models.InvoiceStatusAssigned, true},
		{"process assigned", models.InvoiceStatusAssigned, models.ActionProcess, models.InvoiceStatusProcessed, true},
		{"return processed", models.InvoiceStatusProcessed, models.ActionReturn, models.InvoiceStatusReturned, true},
		{"archive processed", models.InvoiceStatusProcessed, models.ActionArchive, models.InvoiceStatusArchived, true},
		{"process pending", models.InvoiceStatusPending, models.ActionProcess, "", false},
		{"assign assigned", models.InvoiceStatusAssigned, models.ActionAssign, "", false},
		{"return assigned", models.InvoiceStatusAssigned, models.ActionReturn, "", false},
		{"archive returned", models.InvoiceStatusReturned, models.ActionArchive, "", false},
		{"anything from archived", models.InvoiceStatusArchived, models.ActionAssign, "", false},
		{"create is not a transition", models.InvoiceStatusPending, models.ActionCreate, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Next(tt.from, tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableActions(t *testing.T) {
	assert.Equal(t, []models.WorkflowAction{models.ActionAssign}, AvailableActions(models.InvoiceStatusPending))
	assert.Equal(t, []models.WorkflowAction{models.ActionProcess}, AvailableActions(models.InvoiceStatusAssigned))
	assert.Equal(t, []models.WorkflowAction{models.ActionReturn, models.ActionArchive}, AvailableActions(models.InvoiceStatusProcessed))
	assert.Equal(t, []models.WorkflowAction{models.ActionAssign}, AvailableActions(models.InvoiceStatusReturned))
	assert.Empty(t, AvailableActions(models.InvoiceStatusArchived))
}

func TestInvoiceFSM_FullCycle(t *testing.T) {
	ctx := context.Background()
	inv := &models.Invoice{Status: models.InvoiceStatusPending}
	f := NewInvoiceFSM(inv)

	require.NoError(t, f.Fire(ctx, models.ActionAssign))
	assert.Equal(t, models.InvoiceStatusAssigned, inv.Status)
	require.NoError(t, f.Fire(ctx, models.ActionProcess))
	require.NoError(t, f.Fire(ctx, models.ActionReturn))
	assert.Equal(t, models.InvoiceStatusReturned, inv.Status)
	assert.True(t, f.Can(models.ActionAssign))
	require.NoError(t, f.Fire(ctx, models.ActionAssign))
	require.NoError(t, f.Fire(ctx, models.ActionProcess))
	require.NoError(t, f.Fire(ctx, models.ActionArchive))
	assert.Equal(t, models.InvoiceStatusArchived, f.Current())
	assert.Empty(t, AvailableActions(f.Current()))
}

func TestInvoiceFSM_RejectsInvalid(t *testing.T) {
	inv := &models.Invoice{Status: models.InvoiceStatusPending}
	f := NewInvoiceFSM(inv)

	assert.False(t, f.Can(models.ActionArchive))
	err := f.Fire(context.Background(), models.ActionArchive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)
	assert.False(t, f.Can(models.ActionProcess))
}
