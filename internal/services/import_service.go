package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RowError reports why one spreadsheet row was skipped
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Total   int        `json:"total"`
	Created int        `json:"created"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006", "2006/01/02", time.RFC3339}

// ImportService creates invoices from spreadsheet rows
type ImportService struct {
	workflow *WorkflowService
}

func NewImportService(workflow *WorkflowService) *ImportService {
	return &ImportService{workflow: workflow}
}

// Import reads the first sheet of an XLSX workbook and creates one invoice
// per data row. A failing row is recorded and the batch continues.
func (s *ImportService) Import(ctx context.Context, actor *models.User, r io.Reader) (*ImportResult, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if !policy.CanPerform(actor.Role, models.ActionCreate) {
		return nil, errorf(ErrForbidden, "role %s cannot import invoices", actor.Role)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errorf(ErrValidation, "file is not a valid XLSX workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errorf(ErrValidation, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, errorf(ErrValidation, "sheet is empty")
	}

	cols := headerIndex(rows[0])
	for _, required := range []string{"Gönderici", "Ödenecek Tutar"} {
		if _, ok := cols[required]; !ok {
			return nil, errorf(ErrValidation, "missing column %q", required)
		}
	}

	result := &ImportResult{Errors: []RowError{}}
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNo := i + 2
		result.Total++

		req, err := rowToRequest(cols, row)
		if err == nil {
			_, err = s.workflow.Create(ctx, actor, req)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: rowNo, Error: err.Error()})
			continue
		}
		result.Created++
	}

	logger.Info("invoice import finished",
		"actor_id", actor.ID,
		"total", result.Total,
		"created", result.Created,
		"failed", result.Failed,
	)
	return result, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowToRequest(cols map[string]int, row []string) (CreateRequest, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	optional := func(name string) *string {
		if v := cell(name); v != "" {
			return &v
		}
		return nil
	}

	var req CreateRequest
	amount, err := parseAmount(cell("Ödenecek Tutar"))
	if err != nil {
		return req, errorf(ErrValidation, "invalid amount %q", cell("Ödenecek Tutar"))
	}
	req.Amount = amount
	req.Supplier = cell("Gönderici")
	req.Currency = cell("Para Birimi")
	req.InvoiceNo = optional("Fatura No")
	req.Scenario = optional("Senaryo Tipi")
	req.InvoiceType = optional("Fatura Tipi")

	if raw := cell("Toplam KDV"); raw != "" {
		tax, err := parseAmount(raw)
		if err != nil {
			return req, errorf(ErrValidation, "invalid tax %q", raw)
		}
		req.Tax = &tax
	}
	if raw := cell("Vergiler Hariç Toplam Tutar"); raw != "" {
		net, err := parseAmount(raw)
		if err != nil {
			return req, errorf(ErrValidation, "invalid amount excluding tax %q", raw)
		}
		req.AmountExcludingTax = &net
	}
	if raw := cell("Fatura Tarihi"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return req, errorf(ErrValidation, "invalid invoice date %q", raw)
		}
		req.InvoiceDate = &date
	}

	desc := "Imported invoice"
	if req.InvoiceNo != nil {
		desc += " " + *req.InvoiceNo
	}
	req.Description = &desc
	return req, nil
}

// parseAmount accepts "1180", "1180.50" and the Turkish "1.180,50"
func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return decimal.NewFromString(raw)
}

// parseDate accepts common textual layouts and Excel serial day numbers
func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, err
	}
	return excelize.ExcelDateToTime(serial, false)
}
