package services

import (
	"time"

	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/jobs"
)

// JobStatus is the background worker state plus rate cache freshness
type JobStatus struct {
	jobs.WorkerStats
	RatesFetchedAt *time.Time `json:"rates_fetched_at"`
}

type JobService struct {
	worker *jobs.Worker
	rates  *currency.RateCache
}

func NewJobService(worker *jobs.Worker, rates *currency.RateCache) *JobService {
	return &JobService{worker: worker, rates: rates}
}

func (s *JobService) GetStatus() JobStatus {
	status := JobStatus{WorkerStats: s.worker.GetStats()}
	if s.rates != nil {
		if snap := s.rates.Snapshot(); snap != nil {
			at := snap.FetchedAt.UTC()
			status.RatesFetchedAt = &at
		}
	}
	return status
}

// RefreshRates queues an immediate exchange-rate fetch on the worker pool
func (s *JobService) RefreshRates() bool {
	if s.rates == nil {
		return false
	}
	s.worker.Enqueue(s.rates.Refresh)
	return true
}
