package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/policy"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	unassignedLabel    = "Unassigned"
	topSupplierLimit   = 5
	oldestPendingLimit = 5
	currencyLimit      = 6
	trendMonths        = 6
)

// Normalizer converts an amount into the reference currency. Results are
// summed unrounded; rounding happens once per reported figure.
type Normalizer interface {
	ToReference(amount decimal.Decimal, cur models.Currency) decimal.Decimal
}

// converterSource hands out a converter over the current rate snapshot
type converterSource interface {
	Converter(ctx context.Context) *currency.Converter
}

type AnalyticsService struct {
	invoiceRepo repository.InvoiceRepository
	rates       converterSource
	now         func() time.Time
}

func NewAnalyticsService(invoiceRepo repository.InvoiceRepository, rates converterSource) *AnalyticsService {
	return &AnalyticsService{invoiceRepo: invoiceRepo, rates: rates, now: time.Now}
}

// Analytics aggregates the invoices visible to viewer. With global set,
// viewers whose visibility is restricted are refused.
func (s *AnalyticsService) Analytics(ctx context.Context, viewer *models.User, global bool) (*models.InvoiceAnalytics, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	scope := policy.VisibilityFor(viewer)
	if global && scope.Restricted {
		return nil, errorf(ErrForbidden, "role %s cannot view global analytics", viewer.Role)
	}

	invoices, err := s.invoiceRepo.List(ctx, &repository.InvoiceQuery{Scope: scope})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := BuildInvoiceAnalytics(invoices, s.rates.Converter(ctx), s.now())
	logger.Debug("analytics computed",
		"user_id", viewer.ID,
		"invoices", len(invoices),
		"duration", time.Since(start),
	)
	return result, nil
}

// SpendSummary totals normalized spend, excluding returned invoices, within
// an optional invoice-date window
func (s *AnalyticsService) SpendSummary(ctx context.Context, viewer *models.User, from, to *time.Time) (*models.SpendSummary, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, errorf(ErrValidation, "end date must not be before start date")
	}

	invoices, err := s.invoiceRepo.List(ctx, &repository.InvoiceQuery{
		Scope:         policy.VisibilityFor(viewer),
		ExcludeStatus: []models.InvoiceStatus{models.InvoiceStatusReturned},
		From:          from,
		To:            to,
	})
	if err != nil {
		return nil, err
	}

	conv := s.rates.Converter(ctx)
	departments := newGroupTotals()
	projects := newGroupTotals()
	total := decimal.Zero
	for i := range invoices {
		inv := &invoices[i]
		amount := normalize(conv, inv)
		total = total.Add(amount)
		departments.add(labelOr(inv.DepartmentName()), amount)
		projects.add(labelOr(inv.ProjectName()), amount)
	}

	return &models.SpendSummary{
		TotalUSD:     round2(total),
		ByDepartment: departments.sorted(0),
		ByProject:    projects.sorted(0),
		From:         from,
		To:           to,
	}, nil
}

// BuildInvoiceAnalytics aggregates invoices without touching storage.
// Amounts are normalized through conv; a nil conv leaves them unchanged.
func BuildInvoiceAnalytics(invoices []models.Invoice, conv Normalizer, now time.Time) *models.InvoiceAnalytics {
	now = now.UTC()
	out := &models.InvoiceAnalytics{
		ReferenceCurrency: currency.ReferenceCurrency,
		GeneratedAt:       now,
	}

	buckets := map[*models.BucketStat]decimal.Decimal{}
	suppliers := map[string]*supplierTotal{}
	departments := newGroupTotals()
	projects := newGroupTotals()
	currencies := map[models.Currency]*currencyTotal{}
	months, monthIndex := trendWindow(now)
	monthSums := make([]decimal.Decimal, len(months))

	var pending []*models.Invoice
	var processingHours float64
	var processedSamples int

	for i := range invoices {
		inv := &invoices[i]
		amount := normalize(conv, inv)

		if stat := bucketFor(&out.Stats, inv.Status); stat != nil {
			stat.Count++
			buckets[stat] = buckets[stat].Add(amount)
		}

		sup, ok := suppliers[inv.Supplier]
		if !ok {
			sup = &supplierTotal{name: inv.Supplier}
			suppliers[inv.Supplier] = sup
		}
		sup.count++
		sup.amount = sup.amount.Add(amount)

		departments.add(labelOr(inv.DepartmentName()), amount)
		projects.add(labelOr(inv.ProjectName()), amount)

		cs, ok := currencies[inv.Currency]
		if !ok {
			cs = &currencyTotal{code: inv.Currency}
			currencies[inv.Currency] = cs
		}
		cs.count++
		cs.amount = cs.amount.Add(inv.Amount)

		if idx, ok := monthIndex[monthKey(inv.InvoiceDate)]; ok {
			months[idx].Count++
			monthSums[idx] = monthSums[idx].Add(amount)
		}

		if inv.Status == models.InvoiceStatusPending {
			pending = append(pending, inv)
		}

		assign, process := inv.FirstLog(models.ActionAssign), inv.FirstLog(models.ActionProcess)
		if assign != nil && process != nil && !process.Timestamp.Before(assign.Timestamp) {
			processingHours += process.Timestamp.Sub(assign.Timestamp).Hours()
			processedSamples++
		}
	}

	for stat, sum := range buckets {
		stat.AmountUSD = round2(sum)
	}

	out.TopSuppliers = topSuppliers(suppliers)
	out.DepartmentStats = departments.sorted(0)
	out.ProjectStats = projects.sorted(0)
	out.CurrencyBreakdown = currencyBreakdown(currencies)
	out.OldestPending = oldestPending(pending, now)

	for i := range months {
		months[i].AmountUSD = round2(monthSums[i])
	}
	out.MonthlyTrends = months

	out.Metrics.TotalInvoices = len(invoices)
	if processedSamples > 0 {
		out.Metrics.AvgProcessingTimeHours = math.Round(processingHours/float64(processedSamples)*10) / 10
	}
	if len(invoices) > 0 {
		out.Metrics.CompletionRate = int(math.Round(float64(out.Stats.TotalProcessed.Count) * 100 / float64(len(invoices))))
	}
	return out
}

// bucketFor places every status in exactly one bucket
func bucketFor(stats *models.AnalyticsBuckets, status models.InvoiceStatus) *models.BucketStat {
	switch status {
	case models.InvoiceStatusPending:
		return &stats.Pending
	case models.InvoiceStatusAssigned:
		return &stats.Assigned
	case models.InvoiceStatusProcessed, models.InvoiceStatusReturned:
		return &stats.ActionRequired
	case models.InvoiceStatusArchived:
		return &stats.TotalProcessed
	}
	return nil
}

func normalize(conv Normalizer, inv *models.Invoice) decimal.Decimal {
	if conv == nil {
		return inv.Amount
	}
	return conv.ToReference(inv.Amount, inv.Currency)
}

type supplierTotal struct {
	name   string
	count  int
	amount decimal.Decimal
}

type currencyTotal struct {
	code   models.Currency
	count  int
	amount decimal.Decimal
}

func labelOr(name string) string {
	if name == "" {
		return unassignedLabel
	}
	return name
}

type groupTotal struct {
	count  int
	amount decimal.Decimal
}

type groupTotals map[string]*groupTotal

func newGroupTotals() groupTotals { return groupTotals{} }

func (g groupTotals) add(name string, amount decimal.Decimal) {
	st, ok := g[name]
	if !ok {
		st = &groupTotal{}
		g[name] = st
	}
	st.count++
	st.amount = st.amount.Add(amount)
}

// sorted returns the groups by amount descending; limit 0 keeps all
func (g groupTotals) sorted(limit int) []models.GroupStat {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := g[names[i]].amount, g[names[j]].amount
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return names[i] < names[j]
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	out := make([]models.GroupStat, 0, len(names))
	for _, name := range names {
		out = append(out, models.GroupStat{Name: name, Count: g[name].count, AmountUSD: round2(g[name].amount)})
	}
	return out
}

func topSuppliers(m map[string]*supplierTotal) []models.SupplierStat {
	totals := make([]*supplierTotal, 0, len(m))
	for _, st := range m {
		totals = append(totals, st)
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].amount.Equal(totals[j].amount) {
			return totals[i].amount.GreaterThan(totals[j].amount)
		}
		return totals[i].name < totals[j].name
	})
	if len(totals) > topSupplierLimit {
		totals = totals[:topSupplierLimit]
	}

	out := make([]models.SupplierStat, 0, len(totals))
	for _, st := range totals {
		out = append(out, models.SupplierStat{Supplier: st.name, Count: st.count, AmountUSD: round2(st.amount)})
	}
	return out
}

func currencyBreakdown(m map[models.Currency]*currencyTotal) []models.CurrencyStat {
	out := make([]models.CurrencyStat, 0, len(m))
	for _, st := range m {
		out = append(out, models.CurrencyStat{Currency: st.code, Count: st.count, Amount: round2(st.amount)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Currency < out[j].Currency
	})
	if len(out) > currencyLimit {
		out = out[:currencyLimit]
	}
	return out
}

func oldestPending(pending []*models.Invoice, now time.Time) []models.PendingInvoice {
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].InvoiceDate.Equal(pending[j].InvoiceDate) {
			return pending[i].InvoiceDate.Before(pending[j].InvoiceDate)
		}
		return pending[i].ID < pending[j].ID
	})
	if len(pending) > oldestPendingLimit {
		pending = pending[:oldestPendingLimit]
	}

	out := make([]models.PendingInvoice, 0, len(pending))
	for _, inv := range pending {
		age := int(now.Sub(inv.InvoiceDate).Hours() / 24)
		if age < 0 {
			age = 0
		}
		out = append(out, models.PendingInvoice{
			ID:          inv.ID,
			InvoiceNo:   inv.InvoiceNo,
			Supplier:    inv.Supplier,
			Amount:      inv.Amount.InexactFloat64(),
			Currency:    inv.Currency,
			InvoiceDate: inv.InvoiceDate,
			AgeDays:     age,
		})
	}
	return out
}

// trendWindow returns zeroed points for the six calendar months ending with
// now's month, oldest first, and an index by month key
func trendWindow(now time.Time) ([]models.MonthlyTrendPoint, map[int]int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.MonthlyTrendPoint, trendMonths)
	index := make(map[int]int, trendMonths)
	for i := 0; i < trendMonths; i++ {
		m := first.AddDate(0, i-(trendMonths-1), 0)
		points[i] = models.MonthlyTrendPoint{Label: m.Format("Jan 06")}
		index[monthKey(m)] = i
	}
	return points, index
}

func monthKey(t time.Time) int {
	t = t.UTC()
	return t.Year()*100 + int(t.Month())
}

// round2 is the single rounding step for reported amounts
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
