package services

import (
	"context"

	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/models"
)

// RatesResponse is the standalone exchange-rate listing
type RatesResponse struct {
	Rates     []models.ExchangeRate `json:"rates"`
	Reference models.Currency       `json:"reference_currency"`
}

// RateService exposes the exchange-rate cache
type RateService struct {
	cache *currency.RateCache
}

func NewRateService(cache *currency.RateCache) *RateService {
	return &RateService{cache: cache}
}

// Current fails with ErrUpstreamUnavailable when rates were never fetched
func (s *RateService) Current(ctx context.Context) (*RatesResponse, error) {
	rates, err := s.cache.Current(ctx)
	if err != nil {
		return nil, translate(err, "exchange rates")
	}
	return &RatesResponse{Rates: rates, Reference: currency.ReferenceCurrency}, nil
}

// Converter returns a converter over the best available rates
func (s *RateService) Converter(ctx context.Context) *currency.Converter {
	return s.cache.Converter(ctx)
}
