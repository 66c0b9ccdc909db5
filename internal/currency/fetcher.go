// Package currency provides exchange rates against TRY and normalization of
// invoice amounts to the USD reference currency.
package currency

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
)

// DefaultTCMBURL is the Turkish central bank daily rate bulletin
const DefaultTCMBURL = "https://www.tcmb.gov.tr/kurlar/today.xml"

// Fetcher retrieves a fresh rate list from an upstream source
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.ExchangeRate, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context) ([]models.ExchangeRate, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]models.ExchangeRate, error) {
	return f(ctx)
}

// trackedCurrencies are the codes kept from the bulletin
var trackedCurrencies = map[models.Currency]bool{
	models.CurrencyUSD: true,
	models.CurrencyEUR: true,
	models.CurrencyGBP: true,
}

type tcmbBulletin struct {
	XMLName    xml.Name       `xml:"Tarih_Date"`
	Currencies []tcmbCurrency `xml:"Currency"`
}

type tcmbCurrency struct {
	Code         string `xml:"Kod,attr"`
	Unit         string `xml:"Unit"`
	ForexBuying  string `xml:"ForexBuying"`
	ForexSelling string `xml:"ForexSelling"`
}

// TCMBFetcher reads the central bank XML bulletin over HTTP
type TCMBFetcher struct {
	url    string
	client *http.Client
}

// NewTCMBFetcher creates a fetcher for url with the given request timeout
func NewTCMBFetcher(url string, timeout time.Duration) *TCMBFetcher {
	if url == "" {
		url = DefaultTCMBURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TCMBFetcher{url: url, client: &http.Client{Timeout: timeout}}
}

func (f *TCMBFetcher) Fetch(ctx context.Context) ([]models.ExchangeRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates source returned status %d", resp.StatusCode)
	}

	return ParseTCMB(resp.Body)
}

// ParseTCMB decodes a bulletin into rates for the tracked currencies.
// Quotes are normalized to a single unit.
func ParseTCMB(r io.Reader) ([]models.ExchangeRate, error) {
	dec := xml.NewDecoder(r)
	// The bulletin has been served as ISO-8859-9; the fields we read are ASCII
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc tcmbBulletin
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse rates: %w", err)
	}

	rates := []models.ExchangeRate{Identity()}
	for _, c := range doc.Currencies {
		code := models.Currency(strings.ToUpper(c.Code))
		if !trackedCurrencies[code] {
			continue
		}
		buying, err := parseQuote(c.ForexBuying)
		if err != nil || buying <= 0 {
			continue
		}
		selling, err := parseQuote(c.ForexSelling)
		if err != nil {
			selling = buying
		}
		unit, err := parseQuote(c.Unit)
		if err != nil || unit <= 0 {
			unit = 1
		}
		rates = append(rates, models.ExchangeRate{
			Currency: code,
			Buying:   buying / unit,
			Selling:  selling / unit,
		})
	}

	if len(rates) == 1 {
		return nil, fmt.Errorf("rates source contained no tracked currencies")
	}
	return rates, nil
}

func parseQuote(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// Identity is the TRY self-quote always present in a rate list
func Identity() models.ExchangeRate {
	return models.ExchangeRate{Currency: models.CurrencyTRY, Buying: 1, Selling: 1}
}
