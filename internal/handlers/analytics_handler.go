package handlers

import (
	"net/http"
	"strings"

	"github.com/faturaflow/faturaflow-api/internal/middleware"
	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc *services.AnalyticsService
	exportSvc    *services.ExportService
}

func NewAnalyticsHandler(analyticsSvc *services.AnalyticsService, exportSvc *services.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		exportSvc:    exportSvc,
	}
}

// @Summary Invoice Analytics
// @Description Returns workflow buckets, top suppliers, department and project totals, currency breakdown, oldest pending invoices, six month trend and processing metrics. Amounts are in USD.
// @Tags Analytics
// @Produce json
// @Param scope query string false "global to aggregate every invoice (not available to OPERASYON)"
// @Success 200 {object} models.InvoiceAnalytics
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /analytics [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	analytics, err := h.analyticsSvc.Analytics(c.Request.Context(), middleware.CurrentUser(c), globalScope(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// @Summary Export Analytics Data
// @Description Generates and downloads the analytics report in various formats
// @Tags Analytics
// @Produce application/octet-stream
// @Param format query string true "Report format (csv, xlsx, pdf)"
// @Param scope query string false "global to aggregate every invoice"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.Query("format"))
	if format != "csv" && format != "xlsx" && format != "pdf" {
		badRequest(c, "Invalid format (csv, xlsx, pdf)")
		return
	}

	analytics, err := h.analyticsSvc.Analytics(c.Request.Context(), middleware.CurrentUser(c), globalScope(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch format {
	case "csv":
		data, filename, err = h.exportSvc.AnalyticsCSV(analytics)
		contentType = contentTypeCSV
	case "xlsx":
		data, filename, err = h.exportSvc.AnalyticsXLSX(analytics)
		contentType = contentTypeXLSX
	case "pdf":
		data, filename, err = h.exportSvc.AnalyticsPDF(analytics)
		contentType = contentTypePDF
	}
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, contentType, filename, data)
}

// @Summary Spend Summary
// @Description Total spend in USD by department and project over an optional invoice date range. Returned invoices are excluded.
// @Tags Analytics
// @Produce json
// @Param start_date query string false "From (YYYY-MM-DD)"
// @Param end_date query string false "To (YYYY-MM-DD)"
// @Success 200 {object} models.SpendSummary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *AnalyticsHandler) DashboardStats(c *gin.Context) {
	from, ok := queryDate(c, "start_date", false)
	if !ok {
		return
	}
	to, ok := queryDate(c, "end_date", true)
	if !ok {
		return
	}
	summary, err := h.analyticsSvc.SpendSummary(c.Request.Context(), middleware.CurrentUser(c), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func globalScope(c *gin.Context) bool {
	return strings.EqualFold(c.Query("scope"), "global")
}
