package analytics

import (
	"sort"

	"storepulse/internal/dataset"
)

// StoreLevelMetrics are compared store by store in the store-level tables.
var StoreLevelMetrics = []string{
	MetricOverallSales,
	MetricMarketingDrivenSales,
	MetricOrganicSales,
	MetricMarketingCost,
	MetricNetPayout,
}

// MetricMarketingCost is the financial-extract marketing cost of a store.
const MetricMarketingCost = "Marketing_Cost"

// StoreLevelRow is one store over one period, built from the financial
// subtotal only.
type StoreLevelRow struct {
	StoreID              string
	OverallSales         float64
	NetPayout            float64
	MarketingCost        float64
	MarketingDrivenSales float64
	OrganicSales         float64
}

// Values returns the row keyed by StoreLevelMetrics.
func (r StoreLevelRow) Values() map[string]float64 {
	return map[string]float64{
		MetricOverallSales:         r.OverallSales,
		MetricMarketingDrivenSales: r.MarketingDrivenSales,
		MetricOrganicSales:         r.OrganicSales,
		MetricMarketingCost:        r.MarketingCost,
		MetricNetPayout:            r.NetPayout,
	}
}

// StoreLevel aggregates order transactions and marketing rows per store,
// sorted by store id. Marketing cost is the financial marketing fee plus
// merchant-funded discount of the orders.
func StoreLevel(financial []dataset.FinancialRecord, marketing []dataset.MarketingRecord) []StoreLevelRow {
	type acc struct {
		subtotal, net, cost, mkt sum
	}
	groups := make(map[string]*acc)
	get := func(id string) *acc {
		a, ok := groups[id]
		if !ok {
			a = &acc{}
			groups[id] = a
		}
		return a
	}
	for _, r := range dataset.Orders(financial) {
		a := get(r.StoreID)
		a.subtotal.add(r.Subtotal)
		a.net.add(r.NetTotal)
		a.cost.add(r.MarketingFee)
		a.cost.add(r.MerchantDiscount)
	}
	for _, r := range marketing {
		get(r.StoreID).mkt.add(r.Sales)
	}

	out := make([]StoreLevelRow, 0, len(groups))
	for id, a := range groups {
		row := StoreLevelRow{
			StoreID:              id,
			OverallSales:         round2(a.subtotal.value()),
			NetPayout:            round2(a.net.value()),
			MarketingCost:        round2(a.cost.value()),
			MarketingDrivenSales: round2(a.mkt.value()),
		}
		row.OrganicSales = round2(row.OverallSales - row.MarketingDrivenSales)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}

// StoreLevelComparison is the store-level table of one store across two
// periods.
type StoreLevelComparison struct {
	StoreID string
	Metrics map[string]Change
}

// StoreLevelTotal is the portfolio change of one store-level metric.
type StoreLevelTotal struct {
	Metric string
	Change
}

// CompareStoreLevel joins two store-level tables on the union of stores,
// sorted by store id, and totals each metric across stores.
func CompareStoreLevel(pre, post []StoreLevelRow) ([]StoreLevelComparison, []StoreLevelTotal) {
	preBy := make(map[string]StoreLevelRow, len(pre))
	postBy := make(map[string]StoreLevelRow, len(post))
	ids := make([]string, 0, len(pre)+len(post))
	for _, r := range pre {
		preBy[r.StoreID] = r
		ids = append(ids, r.StoreID)
	}
	for _, r := range post {
		postBy[r.StoreID] = r
		if _, ok := preBy[r.StoreID]; !ok {
			ids = append(ids, r.StoreID)
		}
	}
	sort.Strings(ids)

	preTotals := make(map[string]*sum, len(StoreLevelMetrics))
	postTotals := make(map[string]*sum, len(StoreLevelMetrics))
	for _, m := range StoreLevelMetrics {
		preTotals[m], postTotals[m] = &sum{}, &sum{}
	}

	rows := make([]StoreLevelComparison, 0, len(ids))
	for _, id := range ids {
		pv, qv := preBy[id].Values(), postBy[id].Values()
		c := StoreLevelComparison{StoreID: id, Metrics: make(map[string]Change, len(StoreLevelMetrics))}
		for _, m := range StoreLevelMetrics {
			c.Metrics[m] = roundedChange(pv[m], qv[m])
			preTotals[m].add(pv[m])
			postTotals[m].add(qv[m])
		}
		rows = append(rows, c)
	}

	totals := make([]StoreLevelTotal, 0, len(StoreLevelMetrics))
	for _, m := range StoreLevelMetrics {
		totals = append(totals, StoreLevelTotal{
			Metric: m,
			Change: roundedChange(preTotals[m].value(), postTotals[m].value()),
		})
	}
	return rows, totals
}
