// Package dataset loads delivery platform CSV extracts into typed records and
// slices them by period.
package dataset

import (
	"strings"
	"time"

	"storepulse/internal/period"
)

// Marketing record sources.
const (
	SourcePromotion = "Promotion"
	SourceSponsored = "Sponsored"
)

// FinancialRecord is one payout transaction. Commission is stored as a
// positive amount.
type FinancialRecord struct {
	Date             time.Time
	StoreID          string
	TransactionType  string
	Subtotal         float64
	Commission       float64
	MarketingFee     float64
	MerchantDiscount float64
	PlatformDiscount float64
	NetTotal         float64
}

// IsOrder reports whether the transaction is a customer order. Adjustments,
// refunds and error charges carry other types and never count as orders.
func (r FinancialRecord) IsOrder() bool {
	return strings.EqualFold(strings.TrimSpace(r.TransactionType), "Order")
}

// When returns the transaction date.
func (r FinancialRecord) When() time.Time { return r.Date }

// MarketingRecord is one campaign-day row of a promotion or sponsored listing
// extract.
type MarketingRecord struct {
	Date             time.Time
	StoreID          string
	StoreName        string
	Campaign         string
	SelfServe        bool
	Orders           float64
	Sales            float64
	ROAS             float64
	MerchantDiscount float64
	MarketingFee     float64
	NewCustomers     float64
	TotalCustomers   float64
	NewDPCustomers   float64
	Source           string
}

// When returns the campaign day.
func (r MarketingRecord) When() time.Time { return r.Date }

// Cost is the merchant-borne cost of the row.
func (r MarketingRecord) Cost() float64 { return r.MarketingFee + r.MerchantDiscount }

// SalesRecord is one store-period row of the sales-by-time extract.
type SalesRecord struct {
	Date       time.Time
	StoreID    string
	StoreName  string
	GrossSales float64
	Orders     float64
	AOV        float64
	Commission float64
}

// When returns the start date of the sales row.
func (r SalesRecord) When() time.Time { return r.Date }

// YearData holds every extract for one year.
type YearData struct {
	Year      int
	Financial []FinancialRecord
	Marketing []MarketingRecord
	Sales     []SalesRecord
}

// Slice returns the records of d that fall inside p.
func (d YearData) Slice(p period.Period) YearData {
	return YearData{
		Year:      d.Year,
		Financial: period.Filter(d.Financial, p, FinancialRecord.When),
		Marketing: period.Filter(d.Marketing, p, MarketingRecord.When),
		Sales:     period.Filter(d.Sales, p, SalesRecord.When),
	}
}

// Empty reports whether d holds no records at all.
func (d YearData) Empty() bool {
	return len(d.Financial) == 0 && len(d.Marketing) == 0 && len(d.Sales) == 0
}

// Orders returns the order transactions of records.
func Orders(records []FinancialRecord) []FinancialRecord {
	out := make([]FinancialRecord, 0, len(records))
	for _, r := range records {
		if r.IsOrder() {
			out = append(out, r)
		}
	}
	return out
}

// SelfServe returns the self-serve campaign rows of records.
func SelfServe(records []MarketingRecord) []MarketingRecord {
	out := make([]MarketingRecord, 0, len(records))
	for _, r := range records {
		if r.SelfServe {
			out = append(out, r)
		}
	}
	return out
}

// Promotions returns the rows of records loaded from promotion extracts.
func Promotions(records []MarketingRecord) []MarketingRecord {
	out := make([]MarketingRecord, 0, len(records))
	for _, r := range records {
		if r.Source != SourceSponsored {
			out = append(out, r)
		}
	}
	return out
}
