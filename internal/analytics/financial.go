package analytics

import (
	"storepulse/internal/dataset"
)

// Portfolio financial metric keys, in report order.
const (
	KeyTotalOrders            = "total_orders"
	KeyTotalSubtotal          = "total_subtotal"
	KeyTotalCommission        = "total_commission"
	KeyTotalMarketingFees     = "total_marketing_fees"
	KeyTotalNetPayout         = "total_net_payout"
	KeyAvgOrderValue          = "avg_order_value"
	KeyAvgCommissionRate      = "avg_commission_rate"
	KeyUniqueStores           = "unique_stores"
	KeyTotalCustomerDiscounts = "total_customer_discounts"
	KeyTotalPlatformDiscounts = "total_platform_discounts"
	KeyMarketingFeeRate       = "marketing_fee_rate"
	KeyCustomerDiscountRate   = "customer_discount_rate"
)

// FinancialKeys lists the FinancialTotals values in report order.
var FinancialKeys = []string{
	KeyTotalOrders,
	KeyTotalSubtotal,
	KeyTotalCommission,
	KeyTotalMarketingFees,
	KeyTotalNetPayout,
	KeyAvgOrderValue,
	KeyAvgCommissionRate,
	KeyUniqueStores,
	KeyTotalCustomerDiscounts,
	KeyTotalPlatformDiscounts,
	KeyMarketingFeeRate,
	KeyCustomerDiscountRate,
}

// FinancialTotals summarises the order transactions of a period across all
// stores.
type FinancialTotals struct {
	Period string
	// Empty is set when the period had no order transactions.
	Empty bool

	TotalOrders            float64
	TotalSubtotal          float64
	TotalCommission        float64
	TotalMarketingFees     float64
	TotalNetPayout         float64
	AvgOrderValue          float64
	AvgCommissionRate      float64
	UniqueStores           float64
	TotalCustomerDiscounts float64
	TotalPlatformDiscounts float64
	MarketingFeeRate       float64
	CustomerDiscountRate   float64
}

// FinancialSummary totals the order transactions in records.
func FinancialSummary(name string, records []dataset.FinancialRecord) FinancialTotals {
	orders := dataset.Orders(records)
	f := FinancialTotals{Period: name}
	if len(orders) == 0 {
		f.Empty = true
		return f
	}

	stores := make(map[string]struct{})
	var subtotal, commission, fees, net, merchant, platform sum
	for _, r := range orders {
		stores[r.StoreID] = struct{}{}
		subtotal.add(r.Subtotal)
		commission.add(r.Commission)
		fees.add(r.MarketingFee)
		net.add(r.NetTotal)
		merchant.add(r.MerchantDiscount)
		platform.add(r.PlatformDiscount)
	}

	f.TotalOrders = float64(len(orders))
	f.TotalSubtotal = subtotal.value()
	f.TotalCommission = commission.value()
	f.TotalMarketingFees = fees.value()
	f.TotalNetPayout = net.value()
	f.TotalCustomerDiscounts = merchant.value()
	f.TotalPlatformDiscounts = platform.value()
	f.UniqueStores = float64(len(stores))
	f.AvgOrderValue = f.TotalSubtotal / f.TotalOrders
	f.AvgCommissionRate = percentOf(f.TotalCommission, f.TotalSubtotal)
	f.MarketingFeeRate = percentOf(f.TotalMarketingFees, f.TotalSubtotal)
	f.CustomerDiscountRate = percentOf(f.TotalCustomerDiscounts, f.TotalSubtotal)
	return f
}

// Values returns the totals keyed by FinancialKeys.
func (f FinancialTotals) Values() map[string]float64 {
	return map[string]float64{
		KeyTotalOrders:            f.TotalOrders,
		KeyTotalSubtotal:          f.TotalSubtotal,
		KeyTotalCommission:        f.TotalCommission,
		KeyTotalMarketingFees:     f.TotalMarketingFees,
		KeyTotalNetPayout:         f.TotalNetPayout,
		KeyAvgOrderValue:          f.AvgOrderValue,
		KeyAvgCommissionRate:      f.AvgCommissionRate,
		KeyUniqueStores:           f.UniqueStores,
		KeyTotalCustomerDiscounts: f.TotalCustomerDiscounts,
		KeyTotalPlatformDiscounts: f.TotalPlatformDiscounts,
		KeyMarketingFeeRate:       f.MarketingFeeRate,
		KeyCustomerDiscountRate:   f.CustomerDiscountRate,
	}
}

// CompareSummaries compares two portfolio summaries metric by metric.
func CompareSummaries(pre, post FinancialTotals) []KeyedChange {
	return CompareOrdered(FinancialKeys, pre.Values(), post.Values())
}

// ChangeFor finds key in changes.
func ChangeFor(changes []KeyedChange, key string) (Change, bool) {
	for _, c := range changes {
		if c.Key == key {
			return c.Change, true
		}
	}
	return Change{}, false
}
