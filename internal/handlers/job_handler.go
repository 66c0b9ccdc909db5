package handlers

import (
	"net/http"

	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Statistics about background jobs (active, completed, failed, queue length) and when exchange rates were last fetched
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.JobStatus
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}

// RefreshRates queues an exchange-rate fetch
// @Summary Refresh exchange rates
// @Description Queues an immediate fetch from the rate provider. The result is visible through /rates and /jobs/status.
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]string
// @Router /jobs/rates/refresh [post]
func (h *JobHandler) RefreshRates(c *gin.Context) {
	if !h.jobService.RefreshRates() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "exchange rates are not configured", "code": "UPSTREAM_UNAVAILABLE"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Rate refresh queued"})
}

type RatesHandler struct {
	rateService *services.RateService
}

func NewRatesHandler(rateSvc *services.RateService) *RatesHandler {
	return &RatesHandler{rateService: rateSvc}
}

// @Summary Exchange Rates
// @Description Current TRY exchange rates used to normalize invoice amounts
// @Tags Rates
// @Produce json
// @Success 200 {object} services.RatesResponse
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /rates [get]
func (h *RatesHandler) Index(c *gin.Context) {
	rates, err := h.rateService.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}
