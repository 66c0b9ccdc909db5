package models

import (
	"time"
)

// InvoiceAnalytics is the dashboard aggregate over a set of invoices
type InvoiceAnalytics struct {
	Stats             AnalyticsBuckets    `json:"stats"`
	TopSuppliers      []SupplierStat      `json:"top_suppliers"`
	DepartmentStats   []GroupStat         `json:"department_stats"`
	ProjectStats      []GroupStat         `json:"project_stats"`
	CurrencyBreakdown []CurrencyStat      `json:"currency_breakdown"`
	OldestPending     []PendingInvoice    `json:"oldest_pending"`
	MonthlyTrends     []MonthlyTrendPoint `json:"monthly_trends"`
	Metrics           AnalyticsMetrics    `json:"metrics"`
	ReferenceCurrency Currency            `json:"reference_currency"`
	GeneratedAt       time.Time           `json:"generated_at"`
}

// AnalyticsBuckets groups invoices by workflow stage
type AnalyticsBuckets struct {
	Pending        BucketStat `json:"pending"`
	Assigned       BucketStat `json:"assigned"`
	ActionRequired BucketStat `json:"action_required"`
	TotalProcessed BucketStat `json:"total_processed"`
}

// BucketStat is a count with its normalized amount
type BucketStat struct {
	Count     int     `json:"count"`
	AmountUSD float64 `json:"amount_usd"`
}

// SupplierStat is the normalized spend for one supplier
type SupplierStat struct {
	Supplier  string  `json:"supplier"`
	Count     int     `json:"count"`
	AmountUSD float64 `json:"amount_usd"`
}

// GroupStat is the normalized spend for a department or project
type GroupStat struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	AmountUSD float64 `json:"amount_usd"`
}

// CurrencyStat is the raw (unconverted) total per currency
type CurrencyStat struct {
	Currency Currency `json:"currency"`
	Count    int      `json:"count"`
	Amount   float64  `json:"amount"`
}

// PendingInvoice is a compact view of an invoice waiting in PENDING
type PendingInvoice struct {
	ID          uint      `json:"id"`
	InvoiceNo   *string   `json:"invoice_no"`
	Supplier    string    `json:"supplier"`
	Amount      float64   `json:"amount"`
	Currency    Currency  `json:"currency"`
	InvoiceDate time.Time `json:"invoice_date"`
	AgeDays     int       `json:"age_days"`
}

// MonthlyTrendPoint is one calendar month of invoice intake
type MonthlyTrendPoint struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	AmountUSD float64 `json:"amount_usd"`
}

// AnalyticsMetrics holds derived workflow metrics
type AnalyticsMetrics struct {
	AvgProcessingTimeHours float64 `json:"avg_processing_time_hours"`
	TotalInvoices          int     `json:"total_invoices"`
	CompletionRate         int     `json:"completion_rate"`
}

// SpendSummary is the dashboard spend overview excluding returned invoices
type SpendSummary struct {
	TotalUSD     float64     `json:"total_usd"`
	ByDepartment []GroupStat `json:"by_department"`
	ByProject    []GroupStat `json:"by_project"`
	From         *time.Time  `json:"from,omitempty"`
	To           *time.Time  `json:"to,omitempty"`
}

// ExchangeRate is the quote for one currency against TRY
type ExchangeRate struct {
	Currency Currency `json:"currency"`
	Buying   float64  `json:"buying"`
	Selling  float64  `json:"selling"`
}
