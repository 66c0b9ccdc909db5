package currency

import (
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/shopspring/decimal"
)

// ReferenceCurrency is the currency analytics are normalized to
const ReferenceCurrency = models.CurrencyUSD

// Converter normalizes amounts using one fixed rate snapshot
type Converter struct {
	buying map[models.Currency]decimal.Decimal
}

// NewConverter builds a converter over rates
func NewConverter(rates []models.ExchangeRate) *Converter {
	buying := make(map[models.Currency]decimal.Decimal, len(rates))
	for _, r := range rates {
		if r.Buying > 0 {
			buying[r.Currency] = decimal.NewFromFloat(r.Buying)
		}
	}
	return &Converter{buying: buying}
}

// ToReference converts amount in cur to USD. Amounts whose rate is unknown,
// or any amount when the USD rate is unknown, are returned unchanged.
func (c *Converter) ToReference(amount decimal.Decimal, cur models.Currency) decimal.Decimal {
	if cur == ReferenceCurrency {
		return amount
	}

	usd, ok := c.buying[models.CurrencyUSD]
	if !ok {
		return amount
	}

	if cur == models.CurrencyTRY {
		return amount.Div(usd)
	}

	source, ok := c.buying[cur]
	if !ok {
		return amount
	}
	return amount.Mul(source).Div(usd)
}
