package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeRenderer struct {
	html []byte
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, html []byte) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func newExportService(r PDFRenderer) *ExportService {
	svc := NewExportService(r)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func sampleAnalytics() *models.InvoiceAnalytics {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	inv := invoiceAt(1, "Acme", 300, models.CurrencyUSD, models.InvoiceStatusPending, now.AddDate(0, 0, -3))
	return BuildInvoiceAnalytics([]models.Invoice{inv}, nil, now)
}

func timelineInvoice() *models.Invoice {
	finance := &models.Department{Name: "Finance"}
	ayse := &models.User{ID: 1, Name: "Ayse"}
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return &models.Invoice{
		ID:          7,
		InvoiceNo:   testutil.Ptr("INV-7"),
		Supplier:    "Acme <Ltd>",
		Amount:      decimal.RequireFromString("1180"),
		Currency:    models.CurrencyTRY,
		Status:      models.InvoiceStatusAssigned,
		InvoiceDate: at,
		Project:     &models.Project{Name: "Bridge", Department: finance},
		Logs: []models.WorkflowLog{
			{ID: 1, Action: models.ActionCreate, Actor: ayse, Note: "Invoice Created", Timestamp: at},
			{ID: 2, Action: models.ActionAssign, Actor: ayse, Note: "Assigned to Project: Bridge by Ayse. Note: No note", Timestamp: at.Add(time.Hour)},
		},
	}
}

func TestExportService_AnalyticsCSV(t *testing.T) {
	svc := newExportService(&fakeRenderer{})
	data, name, err := svc.AnalyticsCSV(sampleAnalytics())
	require.NoError(t, err)
	assert.Equal(t, "invoice_analytics_2026-09-01.csv", name)

	out := string(data)
	assert.Contains(t, out, "Pending,1,300.00")
	assert.Contains(t, out, "Total Invoices,1")
	assert.Contains(t, out, "Acme,1,300.00")
	assert.Contains(t, out, "Aug 26,1,300.00")
}

func TestExportService_AnalyticsXLSX(t *testing.T) {
	svc := newExportService(&fakeRenderer{})
	data, name, err := svc.AnalyticsXLSX(sampleAnalytics())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Analytics", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Invoice Analytics", title)
	stage, err := f.GetCellValue("Analytics", "A4")
	require.NoError(t, err)
	assert.Equal(t, "Pending", stage)
}

func TestExportService_AnalyticsPDF(t *testing.T) {
	svc := newExportService(&fakeRenderer{})
	data, name, err := svc.AnalyticsPDF(sampleAnalytics())
	require.NoError(t, err)
	assert.Equal(t, "invoice_analytics_2026-09-01.pdf", name)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportService_ImportTemplateRoundTrips(t *testing.T) {
	svc := newExportService(&fakeRenderer{})
	data, name, err := svc.ImportTemplate()
	require.NoError(t, err)
	assert.Equal(t, "invoice_import_template.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(templateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, templateHeaders, rows[0])

	// the template's sample row is importable as is
	env := newWorkflowEnv(t)
	result, err := NewImportService(env.workflow).Import(context.Background(), env.fx.Accountant, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created, result.Errors)
}

func TestExportService_InvoicesXLSX(t *testing.T) {
	svc := newExportService(&fakeRenderer{})
	data, _, err := svc.InvoicesXLSX([]models.Invoice{*timelineInvoice()})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Faturalar")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-7", rows[1][0])
	assert.Equal(t, "ASSIGNED", rows[1][10])
	assert.Equal(t, "Bridge", rows[1][11])
	assert.Equal(t, "Finance", rows[1][12])
}

func TestExportService_Timeline(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newExportService(renderer)
	inv := timelineInvoice()

	html, err := svc.TimelineHTML(inv)
	require.NoError(t, err)
	page := string(html)
	assert.Contains(t, page, "INV-7")
	assert.Contains(t, page, "Acme &lt;Ltd&gt;")
	assert.Contains(t, page, "Bridge")
	assert.Contains(t, page, "Assigned to Project: Bridge by Ayse. Note: No note")

	pdf, name, err := svc.TimelinePDF(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, "invoice_7_timeline.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4 fake"), pdf)
	assert.Equal(t, html, renderer.html)

	renderer.err = errors.New("wkhtmltopdf not installed")
	_, _, err = svc.TimelinePDF(context.Background(), inv)
	assert.Error(t, err)
}
