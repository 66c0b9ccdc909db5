package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"github.com/faturaflow/faturaflow-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createInvoice(t *testing.T, repo InvoiceRepository, actor *models.User, inv *models.Invoice) *models.Invoice {
	t.Helper()
	log := &models.WorkflowLog{
		Action:    models.ActionCreate,
		ActorID:   actor.ID,
		Note:      "Invoice Created",
		ToStatus:  models.InvoiceStatusPending,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), inv, log))
	return inv
}

func assignChange(inv *models.Invoice, actor *models.User, projectID uint) *StatusChange {
	from := inv.Status
	return &StatusChange{
		InvoiceID: inv.ID,
		From:      from,
		To:        models.InvoiceStatusAssigned,
		ProjectID: &projectID,
		Log: &models.WorkflowLog{
			Action:          models.ActionAssign,
			ActorID:         actor.ID,
			FromStatus:      &from,
			ToStatus:        models.InvoiceStatusAssigned,
			TargetProjectID: &projectID,
			Timestamp:       time.Now().UTC(),
		},
	}
}

func TestInvoiceRepository_CreateWithAttachments(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewInvoiceRepository(db)

	inv := testutil.NewInvoice("ACME", 1000, models.CurrencyTRY)
	inv.Attachments = []models.Attachment{{Name: "inv.pdf", URL: "/uploads/inv.pdf", Type: "application/pdf"}}
	createInvoice(t, repo, f.Accountant, inv)

	got, err := repo.FindByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, got.Status)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, models.ActionCreate, got.Logs[0].Action)
	require.NotNil(t, got.Logs[0].Actor)
	assert.Equal(t, f.Accountant.Email, got.Logs[0].Actor.Email)
	require.Len(t, got.Attachments, 1)

	creator, err := repo.FindCreatorID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Accountant.ID, creator)
}

func TestInvoiceRepository_ApplyTransition(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := createInvoice(t, repo, f.Accountant, testutil.NewInvoice("ACME", 1000, models.CurrencyTRY))

	require.NoError(t, repo.ApplyTransition(ctx, assignChange(inv, f.Accountant, f.Project.ID)))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusAssigned, got.Status)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, f.Project.ID, *got.ProjectID)
	require.NotNil(t, got.Project)
	require.NotNil(t, got.Project.Department)
	assert.Equal(t, "Finance", got.DepartmentName())
	require.Len(t, got.Logs, 2)
	assert.False(t, got.Logs[1].Timestamp.Before(got.Logs[0].Timestamp))

	// Same expected status again loses the compare-and-set
	err = repo.ApplyTransition(ctx, assignChange(inv, f.Accountant, f.Project.ID))
	assert.ErrorIs(t, err, ErrStatusChanged)

	after, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, after.Logs, 2)
}

func TestInvoiceRepository_ApplyTransition_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewInvoiceRepository(db)

	err := repo.ApplyTransition(context.Background(), assignChange(&models.Invoice{ID: 999, Status: models.InvoiceStatusPending}, f.Accountant, f.Project.ID))
	assert.True(t, IsNotFound(err))
}

func TestInvoiceRepository_ApplyTransition_ClampsTimestamp(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := createInvoice(t, repo, f.Accountant, testutil.NewInvoice("ACME", 1000, models.CurrencyTRY))
	change := assignChange(inv, f.Accountant, f.Project.ID)
	change.Log.Timestamp = time.Now().Add(-24 * time.Hour).UTC()

	require.NoError(t, repo.ApplyTransition(ctx, change))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Logs, 2)
	assert.False(t, got.Logs[1].Timestamp.Before(got.Logs[0].Timestamp))
}

func TestInvoiceRepository_ConcurrentAssign(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	inv := createInvoice(t, repo, f.Accountant, testutil.NewInvoice("ACME", 1000, models.CurrencyTRY))

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.ApplyTransition(ctx, assignChange(inv, f.Accountant, f.Project.ID))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, ErrStatusChanged))
		}
	}
	assert.Equal(t, 1, succeeded)

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Logs, 2)
}

func TestInvoiceRepository_ListScope(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewInvoiceRepository(db)
	ctx := context.Background()

	mine := createInvoice(t, repo, f.Accountant, testutil.NewInvoice("ACME", 1000, models.CurrencyTRY))
	require.NoError(t, repo.ApplyTransition(ctx, assignChange(mine, f.Accountant, f.Project.ID)))
	other := createInvoice(t, repo, f.Accountant, testutil.NewInvoice("Globex", 500, models.CurrencyUSD))
	require.NoError(t, repo.ApplyTransition(ctx, assignChange(other, f.Accountant, f.Other.ID)))
	createInvoice(t, repo, f.Accountant, testutil.NewInvoice("Initech", 200, models.CurrencyEUR))

	all, err := repo.List(ctx, &InvoiceQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest first
	assert.Equal(t, "Initech", all[0].Supplier)

	scoped, err := repo.List(ctx, &InvoiceQuery{Scope: policy.VisibilityFor(f.Operator)})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, mine.ID, scoped[0].ID)

	pending, err := repo.List(ctx, &InvoiceQuery{Statuses: []models.InvoiceStatus{models.InvoiceStatusPending}})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
