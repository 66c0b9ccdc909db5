package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/middleware"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService  *services.InvoiceService
	workflowService *services.WorkflowService
	importService   *services.ImportService
	exportService   *services.ExportService
}

func NewInvoiceHandler(invoiceSvc *services.InvoiceService, workflowSvc *services.WorkflowService, importSvc *services.ImportService, exportSvc *services.ExportService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceSvc,
		workflowService: workflowSvc,
		importService:   importSvc,
		exportService:   exportSvc,
	}
}

// @Summary List Invoices
// @Description Returns the invoices visible to the caller, newest first, with project, assignee, attachments and audit trail
// @Tags Invoices
// @Produce json
// @Param status query string false "Comma separated statuses (PENDING,ASSIGNED,PROCESSED,RETURNED,ARCHIVED)"
// @Param start_date query string false "Invoice date from (YYYY-MM-DD)"
// @Param end_date query string false "Invoice date to (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	filter, ok := invoiceFilter(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	invoices, err := h.invoiceService.List(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": services.Respond(user, invoices...)})
}

// @Summary Get Invoice
// @Description Returns one invoice with its full audit trail and the actions the caller may take
// @Tags Invoices
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "invoice_id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	invoice, err := h.invoiceService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": services.Respond(user, *invoice)[0]})
}

// @Summary Create Invoice
// @Description Creates a PENDING invoice. Accepts the fields flat or nested under "invoice".
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body services.CreateRequest true "Invoice Data"
// @Success 201 {object} models.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req services.CreateRequest
	if err := BindNestedOrFlat(c, "invoice", &req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	invoice, err := h.workflowService.Create(c.Request.Context(), user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": services.Respond(user, *invoice)[0]})
}

// @Summary Transition Invoice
// @Description Applies a workflow action (ASSIGN, PROCESS, RETURN, ARCHIVE) to an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param invoice_id path int true "Invoice ID"
// @Param request body services.TransitionBody true "Action"
// @Success 200 {object} models.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id} [put]
func (h *InvoiceHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "invoice_id")
	if !ok {
		return
	}
	var body services.TransitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	req, err := services.ParseTransitionRequest(body)
	if err != nil {
		respondError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	invoice, err := h.workflowService.Transition(c.Request.Context(), id, user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice": services.Respond(user, *invoice)[0]})
}

// @Summary Invoice Timeline PDF
// @Description Renders the invoice and its audit trail as a PDF document
// @Tags Invoices
// @Produce application/pdf
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{invoice_id}/timeline.pdf [get]
func (h *InvoiceHandler) Timeline(c *gin.Context) {
	id, ok := pathID(c, "invoice_id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	data, filename, err := h.exportService.TimelinePDF(c.Request.Context(), invoice)
	if err != nil {
		respondError(c, fmt.Errorf("failed to render timeline: %w", err))
		return
	}
	sendFile(c, contentTypePDF, filename, data)
}

// @Summary Import Invoices
// @Description Creates one invoice per row of an XLSX workbook. Failing rows are reported and skipped.
// @Tags Invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/import [post]
func (h *InvoiceHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), middleware.CurrentUser(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Import Template
// @Description Downloads the XLSX template accepted by the import endpoint
// @Tags Invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /invoices/import/template [get]
func (h *InvoiceHandler) Template(c *gin.Context) {
	data, filename, err := h.exportService.ImportTemplate()
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, filename, data)
}

// @Summary Export Invoices
// @Description Downloads the caller's visible invoices as an XLSX workbook
// @Tags Invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Comma separated statuses"
// @Param start_date query string false "Invoice date from (YYYY-MM-DD)"
// @Param end_date query string false "Invoice date to (YYYY-MM-DD)"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	filter, ok := invoiceFilter(c)
	if !ok {
		return
	}
	invoices, err := h.invoiceService.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	data, filename, err := h.exportService.InvoicesXLSX(invoices)
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, filename, data)
}

func invoiceFilter(c *gin.Context) (services.InvoiceFilter, bool) {
	var filter services.InvoiceFilter
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, models.InvoiceStatus(strings.ToUpper(s)))
			}
		}
	}
	var ok bool
	if filter.From, ok = queryDate(c, "start_date", false); !ok {
		return filter, false
	}
	if filter.To, ok = queryDate(c, "end_date", true); !ok {
		return filter, false
	}
	return filter, true
}

// queryDate parses an optional YYYY-MM-DD or RFC3339 query value. A bare
// end date covers the whole day.
func queryDate(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		badRequest(c, fmt.Sprintf("%s must be YYYY-MM-DD", name))
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
