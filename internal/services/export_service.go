package services

import (
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

//go:embed templates/reports/*.html
var reportTemplates embed.FS

// templateHeaders are the columns of the invoice spreadsheet, in order
var templateHeaders = []string{
	"Fatura No",
	"Fatura Tarihi",
	"Gönderici",
	"Ödenecek Tutar",
	"Toplam KDV",
	"Vergiler Hariç Toplam Tutar",
	"Para Birimi",
	"Senaryo Tipi",
	"Fatura Tipi",
	"Oluşturulma Tarihi",
	"Fatura Durumu",
}

const templateSheet = "Fatura Sablonu"

// PDFRenderer turns an HTML document into a PDF
type PDFRenderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// WkhtmltopdfRenderer renders through the wkhtmltopdf binary
type WkhtmltopdfRenderer struct{}

func (WkhtmltopdfRenderer) Render(_ context.Context, html []byte) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	pdfg.AddPage(wkhtmltopdf.NewPageReader(bytes.NewReader(html)))

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Buffer().Bytes(), nil
}

type ExportService struct {
	renderer PDFRenderer
	now      func() time.Time
}

func NewExportService(renderer PDFRenderer) *ExportService {
	if renderer == nil {
		renderer = WkhtmltopdfRenderer{}
	}
	return &ExportService{renderer: renderer, now: time.Now}
}

func (s *ExportService) stamp() string {
	return s.now().Format("2006-01-02")
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// AnalyticsCSV writes the aggregate as a sectioned CSV report
func (s *ExportService) AnalyticsCSV(a *models.InvoiceAnalytics) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	rows := [][]string{
		{"Invoice Analytics", a.GeneratedAt.Format("2006-01-02 15:04"), "Reference: " + string(a.ReferenceCurrency)},
		{},
		{"Stage", "Count", "Amount"},
		{"Pending", strconv.Itoa(a.Stats.Pending.Count), money(a.Stats.Pending.AmountUSD)},
		{"Assigned", strconv.Itoa(a.Stats.Assigned.Count), money(a.Stats.Assigned.AmountUSD)},
		{"Action Required", strconv.Itoa(a.Stats.ActionRequired.Count), money(a.Stats.ActionRequired.AmountUSD)},
		{"Total Processed", strconv.Itoa(a.Stats.TotalProcessed.Count), money(a.Stats.TotalProcessed.AmountUSD)},
		{},
		{"Metric", "Value"},
		{"Total Invoices", strconv.Itoa(a.Metrics.TotalInvoices)},
		{"Completion Rate (%)", strconv.Itoa(a.Metrics.CompletionRate)},
		{"Avg Processing Time (h)", strconv.FormatFloat(a.Metrics.AvgProcessingTimeHours, 'f', 1, 64)},
		{},
		{"Top Suppliers", "Count", "Amount"},
	}
	for _, sup := range a.TopSuppliers {
		rows = append(rows, []string{sup.Supplier, strconv.Itoa(sup.Count), money(sup.AmountUSD)})
	}
	rows = append(rows, []string{}, []string{"Department", "Count", "Amount"})
	for _, d := range a.DepartmentStats {
		rows = append(rows, []string{d.Name, strconv.Itoa(d.Count), money(d.AmountUSD)})
	}
	rows = append(rows, []string{}, []string{"Project", "Count", "Amount"})
	for _, p := range a.ProjectStats {
		rows = append(rows, []string{p.Name, strconv.Itoa(p.Count), money(p.AmountUSD)})
	}
	rows = append(rows, []string{}, []string{"Currency", "Count", "Raw Amount"})
	for _, c := range a.CurrencyBreakdown {
		rows = append(rows, []string{string(c.Currency), strconv.Itoa(c.Count), money(c.Amount)})
	}
	rows = append(rows, []string{}, []string{"Month", "Count", "Amount"})
	for _, m := range a.MonthlyTrends {
		rows = append(rows, []string{m.Label, strconv.Itoa(m.Count), money(m.AmountUSD)})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("invoice_analytics_%s.csv", s.stamp()), nil
}

// AnalyticsXLSX writes the aggregate as a one-sheet workbook
func (s *ExportService) AnalyticsXLSX(a *models.InvoiceAnalytics) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Analytics"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	row := 1
	put := func(values ...interface{}) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetSheetRow(sheet, cell, &values)
		row++
	}
	section := func(values ...interface{}) {
		row++
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(values), row)
		put(values...)
		_ = f.SetCellStyle(sheet, start, end, headerStyle)
	}

	put("Invoice Analytics", a.GeneratedAt.Format("2006-01-02 15:04"), "Reference: "+string(a.ReferenceCurrency))

	section("Stage", "Count", "Amount")
	put("Pending", a.Stats.Pending.Count, a.Stats.Pending.AmountUSD)
	put("Assigned", a.Stats.Assigned.Count, a.Stats.Assigned.AmountUSD)
	put("Action Required", a.Stats.ActionRequired.Count, a.Stats.ActionRequired.AmountUSD)
	put("Total Processed", a.Stats.TotalProcessed.Count, a.Stats.TotalProcessed.AmountUSD)

	section("Metric", "Value")
	put("Total Invoices", a.Metrics.TotalInvoices)
	put("Completion Rate (%)", a.Metrics.CompletionRate)
	put("Avg Processing Time (h)", a.Metrics.AvgProcessingTimeHours)

	section("Top Suppliers", "Count", "Amount")
	for _, sup := range a.TopSuppliers {
		put(sup.Supplier, sup.Count, sup.AmountUSD)
	}
	section("Department", "Count", "Amount")
	for _, d := range a.DepartmentStats {
		put(d.Name, d.Count, d.AmountUSD)
	}
	section("Project", "Count", "Amount")
	for _, p := range a.ProjectStats {
		put(p.Name, p.Count, p.AmountUSD)
	}
	section("Currency", "Count", "Raw Amount")
	for _, c := range a.CurrencyBreakdown {
		put(string(c.Currency), c.Count, c.Amount)
	}
	section("Month", "Count", "Amount")
	for _, m := range a.MonthlyTrends {
		put(m.Label, m.Count, m.AmountUSD)
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "C", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("invoice_analytics_%s.xlsx", s.stamp()), nil
}

// AnalyticsPDF writes a one-page summary of the aggregate
func (s *ExportService) AnalyticsPDF(a *models.InvoiceAnalytics) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Invoice Analytics")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 8, fmt.Sprintf("Generated %s, amounts in %s", a.GeneratedAt.Format("2006-01-02 15:04"), a.ReferenceCurrency))
	pdf.Ln(10)

	table := func(title string, header [3]string, rows [][3]string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, title)
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(90, 7, header[0], "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 7, header[1], "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, header[2], "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, r := range rows {
			pdf.CellFormat(90, 6, r[0], "1", 0, "", false, 0, "")
			pdf.CellFormat(30, 6, r[1], "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, r[2], "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	table("Workflow", [3]string{"Stage", "Count", "Amount"}, [][3]string{
		{"Pending", strconv.Itoa(a.Stats.Pending.Count), money(a.Stats.Pending.AmountUSD)},
		{"Assigned", strconv.Itoa(a.Stats.Assigned.Count), money(a.Stats.Assigned.AmountUSD)},
		{"Action Required", strconv.Itoa(a.Stats.ActionRequired.Count), money(a.Stats.ActionRequired.AmountUSD)},
		{"Total Processed", strconv.Itoa(a.Stats.TotalProcessed.Count), money(a.Stats.TotalProcessed.AmountUSD)},
	})

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, "Total invoices:")
	pdf.Cell(40, 6, strconv.Itoa(a.Metrics.TotalInvoices))
	pdf.Ln(6)
	pdf.Cell(60, 6, "Completion rate:")
	pdf.Cell(40, 6, fmt.Sprintf("%d%%", a.Metrics.CompletionRate))
	pdf.Ln(6)
	pdf.Cell(60, 6, "Avg processing time:")
	pdf.Cell(40, 6, fmt.Sprintf("%.1f h", a.Metrics.AvgProcessingTimeHours))
	pdf.Ln(10)

	var suppliers [][3]string
	for _, sup := range a.TopSuppliers {
		suppliers = append(suppliers, [3]string{sup.Supplier, strconv.Itoa(sup.Count), money(sup.AmountUSD)})
	}
	table("Top Suppliers", [3]string{"Supplier", "Count", "Amount"}, suppliers)

	var months [][3]string
	for _, m := range a.MonthlyTrends {
		months = append(months, [3]string{m.Label, strconv.Itoa(m.Count), money(m.AmountUSD)})
	}
	table("Monthly Trend", [3]string{"Month", "Count", "Amount"}, months)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("invoice_analytics_%s.pdf", s.stamp()), nil
}

// InvoicesXLSX writes invoices in the import template layout
func (s *ExportService) InvoicesXLSX(invoices []models.Invoice) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Faturalar"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}
	header := append(append([]string{}, templateHeaders...), "Proje", "Departman")
	if err := writeHeader(f, sheet, header); err != nil {
		return nil, "", err
	}

	for i := range invoices {
		inv := &invoices[i]
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			deref(inv.InvoiceNo),
			inv.InvoiceDate.Format("2006-01-02"),
			inv.Supplier,
			inv.Amount.InexactFloat64(),
			nullFloat(inv.Tax),
			nullFloat(inv.AmountExcludingTax),
			string(inv.Currency),
			deref(inv.Scenario),
			deref(inv.InvoiceType),
			inv.CreatedAt.Format("2006-01-02"),
			string(inv.Status),
			inv.ProjectName(),
			inv.DepartmentName(),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("invoices_%s.xlsx", s.stamp()), nil
}

// ImportTemplate returns a workbook with the import headers and one sample row
func (s *ExportService) ImportTemplate() ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, "", err
	}
	if err := writeHeader(f, templateSheet, templateHeaders); err != nil {
		return nil, "", err
	}
	sample := []interface{}{
		"INV-2023-001", "2023-12-01", "Sample Supplier Ltd.", 1180, 180, 1000,
		"TRY", "TICARIFATURA", "SATIS", s.now().Format("2006-01-02"), "PENDING",
	}
	if err := f.SetSheetRow(templateSheet, "A2", &sample); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "invoice_import_template.xlsx", nil
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &values); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", end, style)
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

type timelineEntry struct {
	At     string
	Action models.WorkflowAction
	Actor  string
	Note   string
}

type timelineData struct {
	Invoice     *models.Invoice
	Number      string
	Amount      string
	InvoiceDate string
	Project     string
	Department  string
	GeneratedAt string
	Entries     []timelineEntry
}

// TimelineHTML renders the invoice and its audit trail as HTML
func (s *ExportService) TimelineHTML(invoice *models.Invoice) ([]byte, error) {
	tmpl, err := template.ParseFS(reportTemplates, "templates/reports/invoice_timeline.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse timeline template: %w", err)
	}

	data := timelineData{
		Invoice:     invoice,
		Number:      deref(invoice.InvoiceNo),
		Amount:      invoice.Amount.StringFixed(2),
		InvoiceDate: invoice.InvoiceDate.Format("2006-01-02"),
		Project:     labelOr(invoice.ProjectName()),
		Department:  labelOr(invoice.DepartmentName()),
		GeneratedAt: s.now().Format("2006-01-02 15:04"),
	}
	if data.Number == "" {
		data.Number = fmt.Sprintf("#%d", invoice.ID)
	}
	for _, l := range invoice.Logs {
		data.Entries = append(data.Entries, timelineEntry{
			At:     l.Timestamp.Format("2006-01-02 15:04"),
			Action: l.Action,
			Actor:  l.Actor.DisplayName(),
			Note:   l.Note,
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute timeline template: %w", err)
	}
	return buf.Bytes(), nil
}

// TimelinePDF renders the invoice timeline to PDF
func (s *ExportService) TimelinePDF(ctx context.Context, invoice *models.Invoice) ([]byte, string, error) {
	html, err := s.TimelineHTML(invoice)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("invoice_%d_timeline.pdf", invoice.ID), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullFloat(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}
