package services

import (
	"context"
	"testing"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var analyticsRates = []models.ExchangeRate{
	currency.Identity(),
	{Currency: models.CurrencyUSD, Buying: 30, Selling: 30.2},
	{Currency: models.CurrencyEUR, Buying: 33, Selling: 33.3},
}

type staticRates struct{ rates []models.ExchangeRate }

func (s staticRates) Converter(context.Context) *currency.Converter {
	return currency.NewConverter(s.rates)
}

func invoiceAt(id uint, supplier string, amount int64, cur models.Currency, status models.InvoiceStatus, date time.Time) models.Invoice {
	return models.Invoice{
		ID:          id,
		Supplier:    supplier,
		Amount:      decimal.NewFromInt(amount),
		Currency:    cur,
		Status:      status,
		InvoiceDate: date,
	}
}

func TestBuildInvoiceAnalytics_Empty(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	a := BuildInvoiceAnalytics(nil, nil, now)

	assert.Equal(t, 0, a.Metrics.TotalInvoices)
	assert.Equal(t, 0, a.Metrics.CompletionRate)
	assert.Zero(t, a.Metrics.AvgProcessingTimeHours)
	assert.Empty(t, a.TopSuppliers)
	require.Len(t, a.MonthlyTrends, 6)
	assert.Equal(t, "Oct 25", a.MonthlyTrends[0].Label)
	assert.Equal(t, "Mar 26", a.MonthlyTrends[5].Label)
	for _, p := range a.MonthlyTrends {
		assert.Zero(t, p.Count)
	}
	assert.Equal(t, models.CurrencyUSD, a.ReferenceCurrency)
}

func TestBuildInvoiceAnalytics_Buckets(t *testing.T) {
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	conv := currency.NewConverter(analyticsRates)

	invoices := []models.Invoice{
		invoiceAt(1, "Acme", 300, models.CurrencyTRY, models.InvoiceStatusPending, now.AddDate(0, 0, -10)),
		invoiceAt(2, "Acme", 100, models.CurrencyEUR, models.InvoiceStatusAssigned, now.AddDate(0, 0, -5)),
		invoiceAt(3, "Globex", 50, models.CurrencyUSD, models.InvoiceStatusProcessed, now.AddDate(0, -1, 0)),
		invoiceAt(4, "Initech", 60, models.CurrencyUSD, models.InvoiceStatusReturned, now.AddDate(0, -2, 0)),
		invoiceAt(5, "Initech", 70, models.CurrencyUSD, models.InvoiceStatusArchived, now.AddDate(0, -9, 0)),
	}

	a := BuildInvoiceAnalytics(invoices, conv, now)

	assert.Equal(t, models.BucketStat{Count: 1, AmountUSD: 10}, a.Stats.Pending)
	assert.Equal(t, models.BucketStat{Count: 1, AmountUSD: 110}, a.Stats.Assigned)
	assert.Equal(t, models.BucketStat{Count: 2, AmountUSD: 110}, a.Stats.ActionRequired)
	assert.Equal(t, models.BucketStat{Count: 1, AmountUSD: 70}, a.Stats.TotalProcessed)

	total := a.Stats.Pending.Count + a.Stats.Assigned.Count + a.Stats.ActionRequired.Count + a.Stats.TotalProcessed.Count
	assert.Equal(t, len(invoices), total, "every invoice lands in exactly one bucket")
	assert.Equal(t, 20, a.Metrics.CompletionRate)

	require.Len(t, a.TopSuppliers, 3)
	assert.Equal(t, "Initech", a.TopSuppliers[0].Supplier)
	assert.Equal(t, 130.0, a.TopSuppliers[0].AmountUSD)
	assert.Equal(t, "Acme", a.TopSuppliers[1].Supplier)
	assert.Equal(t, 2, a.TopSuppliers[1].Count)

	require.Len(t, a.ProjectStats, 1)
	assert.Equal(t, "Unassigned", a.ProjectStats[0].Name)
	assert.Equal(t, 5, a.ProjectStats[0].Count)
	require.Len(t, a.DepartmentStats, 1)
	assert.Equal(t, "Unassigned", a.DepartmentStats[0].Name)

	require.Len(t, a.CurrencyBreakdown, 3)
	assert.Equal(t, models.CurrencyStat{Currency: models.CurrencyUSD, Count: 3, Amount: 180}, a.CurrencyBreakdown[0])
	assert.Equal(t, models.CurrencyStat{Currency: models.CurrencyEUR, Count: 1, Amount: 100}, a.CurrencyBreakdown[1])

	require.Len(t, a.OldestPending, 1)
	assert.Equal(t, uint(1), a.OldestPending[0].ID)
	assert.Equal(t, 10, a.OldestPending[0].AgeDays)

	require.Len(t, a.MonthlyTrends, 6)
	assert.Equal(t, "Jun 26", a.MonthlyTrends[5].Label)
	assert.Equal(t, 2, a.MonthlyTrends[5].Count)
	assert.Equal(t, 120.0, a.MonthlyTrends[5].AmountUSD)
	assert.Equal(t, 1, a.MonthlyTrends[4].Count)
	assert.Equal(t, 1, a.MonthlyTrends[3].Count)
	assert.Zero(t, a.MonthlyTrends[0].Count, "nine-month-old invoice is outside the window")
}

func TestBuildInvoiceAnalytics_GroupsByProjectAndDepartment(t *testing.T) {
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	finance := &models.Department{Name: "Finance"}
	bridge := &models.Project{ID: 1, Name: "Bridge", Department: finance}

	inv := invoiceAt(1, "Acme", 40, models.CurrencyUSD, models.InvoiceStatusAssigned, now)
	inv.ProjectID = &bridge.ID
	inv.Project = bridge
	loose := invoiceAt(2, "Acme", 10, models.CurrencyUSD, models.InvoiceStatusPending, now)

	a := BuildInvoiceAnalytics([]models.Invoice{inv, loose}, nil, now)
	assert.Equal(t, []models.GroupStat{
		{Name: "Bridge", Count: 1, AmountUSD: 40},
		{Name: "Unassigned", Count: 1, AmountUSD: 10},
	}, a.ProjectStats)
	assert.Equal(t, []models.GroupStat{
		{Name: "Finance", Count: 1, AmountUSD: 40},
		{Name: "Unassigned", Count: 1, AmountUSD: 10},
	}, a.DepartmentStats)
}

func TestBuildInvoiceAnalytics_Limits(t *testing.T) {
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	var invoices []models.Invoice
	suppliers := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, s := range suppliers {
		invoices = append(invoices, invoiceAt(uint(i+1), s, int64(10*(i+1)), models.CurrencyUSD,
			models.InvoiceStatusPending, now.AddDate(0, 0, -i)))
	}

	a := BuildInvoiceAnalytics(invoices, nil, now)
	require.Len(t, a.TopSuppliers, 5)
	assert.Equal(t, "G", a.TopSuppliers[0].Supplier)
	require.Len(t, a.OldestPending, 5)
	assert.Equal(t, "G", a.OldestPending[0].Supplier, "oldest invoice date first")
	assert.Equal(t, "C", a.OldestPending[4].Supplier)
}

func TestBuildInvoiceAnalytics_AverageProcessingTime(t *testing.T) {
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	start := now.Add(-48 * time.Hour)

	withLogs := func(id uint, hours float64) models.Invoice {
		inv := invoiceAt(id, "Acme", 1, models.CurrencyUSD, models.InvoiceStatusProcessed, now)
		inv.Logs = []models.WorkflowLog{
			{ID: id * 10, Action: models.ActionCreate, Timestamp: start.Add(-time.Hour)},
			{ID: id*10 + 1, Action: models.ActionAssign, Timestamp: start},
			{ID: id*10 + 2, Action: models.ActionProcess, Timestamp: start.Add(time.Duration(hours * float64(time.Hour)))},
		}
		return inv
	}
	onlyAssigned := invoiceAt(9, "Acme", 1, models.CurrencyUSD, models.InvoiceStatusAssigned, now)
	onlyAssigned.Logs = []models.WorkflowLog{{ID: 90, Action: models.ActionAssign, Timestamp: start}}

	a := BuildInvoiceAnalytics([]models.Invoice{withLogs(1, 2), withLogs(2, 3.5), onlyAssigned}, nil, now)
	assert.Equal(t, 2.8, a.Metrics.AvgProcessingTimeHours)
}

func TestBuildInvoiceAnalytics_SumsBeforeRounding(t *testing.T) {
	now := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	conv := currency.NewConverter([]models.ExchangeRate{
		currency.Identity(),
		{Currency: models.CurrencyUSD, Buying: 3, Selling: 3},
	})

	// 1 TRY is 0.333... USD; 300 of them must total exactly 100
	invoices := make([]models.Invoice, 0, 300)
	for i := 0; i < 300; i++ {
		invoices = append(invoices, invoiceAt(uint(i+1), "Acme", 1, models.CurrencyTRY,
			models.InvoiceStatusPending, now.AddDate(0, 0, -1)))
	}

	a := BuildInvoiceAnalytics(invoices, conv, now)
	assert.Equal(t, 300, a.Stats.Pending.Count)
	assert.Equal(t, 100.0, a.Stats.Pending.AmountUSD)
	require.Len(t, a.TopSuppliers, 1)
	assert.Equal(t, 100.0, a.TopSuppliers[0].AmountUSD)
	require.Len(t, a.ProjectStats, 1)
	assert.Equal(t, 100.0, a.ProjectStats[0].AmountUSD)
	assert.Equal(t, 100.0, a.MonthlyTrends[5].AmountUSD)
}

func TestAnalyticsService_ScopesAndSpend(t *testing.T) {
	env := newWorkflowEnv(t)
	ctx := context.Background()
	svc := NewAnalyticsService(env.repos.Invoice, staticRates{analyticsRates})

	assigned := env.create(t)
	_, err := env.workflow.Transition(ctx, assigned.ID, env.fx.Accountant, AssignRequest{ProjectID: &env.fx.Project.ID})
	require.NoError(t, err)
	env.create(t)

	restricted, err := svc.Analytics(ctx, env.fx.Operator, false)
	require.NoError(t, err)
	assert.Equal(t, 1, restricted.Metrics.TotalInvoices)
	assert.Equal(t, 1, restricted.Stats.Assigned.Count)

	_, err = svc.Analytics(ctx, env.fx.Operator, true)
	assert.ErrorIs(t, err, ErrForbidden)

	global, err := svc.Analytics(ctx, env.fx.Accountant, true)
	require.NoError(t, err)
	assert.Equal(t, 2, global.Metrics.TotalInvoices)
	// 1180 TRY at 30 TRY/USD
	assert.Equal(t, 39.33, global.Stats.Pending.AmountUSD)

	spend, err := svc.SpendSummary(ctx, env.fx.Admin, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 78.67, spend.TotalUSD)
	require.Len(t, spend.ByProject, 2)
	assert.ElementsMatch(t, []string{"Bridge", "Unassigned"}, []string{spend.ByProject[0].Name, spend.ByProject[1].Name})

	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	empty, err := svc.SpendSummary(ctx, env.fx.Admin, &from, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalUSD)

	to := from.AddDate(0, 0, -1)
	_, err = svc.SpendSummary(ctx, env.fx.Admin, &from, &to)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Analytics(ctx, nil, false)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
