package analytics

import (
	"storepulse/internal/dataset"
	"storepulse/internal/period"
)

// WeekMetrics summarises one weekly bucket.
type WeekMetrics struct {
	Week              period.Period
	Sales             float64
	NetPayout         float64
	MarketingSpend    float64
	CustomerDiscounts float64

	// HasOrders is false when the week had no order transactions; the
	// fields below are then zero.
	HasOrders               bool
	Subtotal                float64
	Commission              float64
	MarketingFees           float64
	MerchantFundedDiscounts float64
	PlatformFundedDiscounts float64
	NetTotal                float64
	TotalOrders             float64
	AvgOrderValue           float64
}

// Weekly slices data into the given buckets and summarises each. Sales come
// from the sales extract, spend and customer discounts from marketing rows,
// everything else from order transactions.
func Weekly(buckets []period.Period, data dataset.YearData) []WeekMetrics {
	out := make([]WeekMetrics, 0, len(buckets))
	for _, b := range buckets {
		week := data.Slice(b)
		orders := dataset.Orders(week.Financial)

		w := WeekMetrics{
			Week:              b,
			Sales:             total(week.Sales, func(r dataset.SalesRecord) float64 { return r.GrossSales }),
			NetPayout:         total(orders, func(r dataset.FinancialRecord) float64 { return r.NetTotal }),
			MarketingSpend:    total(week.Marketing, dataset.MarketingRecord.Cost),
			CustomerDiscounts: total(week.Marketing, func(r dataset.MarketingRecord) float64 { return r.MerchantDiscount }),
		}
		if len(orders) > 0 {
			f := FinancialSummary(b.Name, orders)
			w.HasOrders = true
			w.Subtotal = f.TotalSubtotal
			w.Commission = f.TotalCommission
			w.MarketingFees = f.TotalMarketingFees
			w.MerchantFundedDiscounts = f.TotalCustomerDiscounts
			w.PlatformFundedDiscounts = f.TotalPlatformDiscounts
			w.NetTotal = f.TotalNetPayout
			w.TotalOrders = f.TotalOrders
			w.AvgOrderValue = f.AvgOrderValue
		}
		out = append(out, w)
	}
	return out
}
