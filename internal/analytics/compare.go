package analytics

import (
	"sort"
)

// Store metric names, as they appear in report columns.
const (
	MetricOverallSales         = "Overall_Sales"
	MetricTotalOrders          = "Total_Orders"
	MetricMarketingDrivenSales = "Marketing_Driven_Sales"
	MetricOrganicSales         = "Organic_Sales"
	MetricMarketingSpend       = "Marketing_Spend"
	MetricNetPayout            = "Net_Payout"
	MetricAvgOrderValue        = "Avg_Order_Value"
	MetricMarketingROI         = "Marketing_ROI"
	MetricMarketingPercentage  = "Marketing_Percentage"
	MetricOrganicPercentage    = "Organic_Percentage"
	MetricTotalCommission      = "Total_Commission"
	MetricMarketingOrders      = "Marketing_Orders"
)

// GrowthMetrics are compared with a growth percentage.
var GrowthMetrics = []string{
	MetricOverallSales,
	MetricTotalOrders,
	MetricMarketingDrivenSales,
	MetricOrganicSales,
	MetricMarketingSpend,
	MetricNetPayout,
	MetricAvgOrderValue,
}

// RateMetrics are already percentages; only their delta is meaningful.
var RateMetrics = []string{
	MetricMarketingROI,
	MetricMarketingPercentage,
}

// Change is one metric compared across two periods.
type Change struct {
	Pre     float64
	Post    float64
	Delta   float64
	Percent float64
}

// NewChange compares pre and post. Percent is 0 when pre is 0.
func NewChange(pre, post float64) Change {
	c := Change{Pre: pre, Post: post, Delta: post - pre}
	if pre != 0 {
		c.Percent = c.Delta / pre * 100
	}
	return c
}

// ZeroBaseline reports whether the percentage is undefined because there was
// nothing to compare against.
func (c Change) ZeroBaseline() bool {
	return c.Pre == 0 && c.Post != 0
}

// KeyedChange is a Change for a named metric.
type KeyedChange struct {
	Key string
	Change
}

// Compare joins two metric maps on the union of their keys, sorted. A key
// missing on one side reads as 0.
func Compare(pre, post map[string]float64) []KeyedChange {
	keys := make([]string, 0, len(pre)+len(post))
	seen := make(map[string]bool, len(pre)+len(post))
	for _, m := range []map[string]float64{pre, post} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return CompareOrdered(keys, pre, post)
}

// CompareOrdered compares the given keys in order.
func CompareOrdered(keys []string, pre, post map[string]float64) []KeyedChange {
	out := make([]KeyedChange, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyedChange{Key: k, Change: NewChange(pre[k], post[k])})
	}
	return out
}

// StoreComparison holds every compared metric of one store.
type StoreComparison struct {
	StoreID   string
	StoreName string
	Metrics   map[string]Change
}

// Get returns the change for metric, zero when not compared.
func (s StoreComparison) Get(metric string) Change {
	return s.Metrics[metric]
}

// GrowthRecord is the pre/post comparison of one store.
type GrowthRecord = StoreComparison

// SalesGrowth is the Overall_Sales growth percentage.
func (s StoreComparison) SalesGrowth() float64 { return s.Get(MetricOverallSales).Percent }

// MarketingGrowth is the Marketing_Driven_Sales growth percentage.
func (s StoreComparison) MarketingGrowth() float64 {
	return s.Get(MetricMarketingDrivenSales).Percent
}

// ROIDelta is the change in Marketing_ROI, in percentage points.
func (s StoreComparison) ROIDelta() float64 { return s.Get(MetricMarketingROI).Delta }

// CompareStores joins two period aggregates on store id (outer union) and
// compares metrics for every store. A store missing from one period reads as
// zero there. The result is sorted by store id.
func CompareStores(pre, post []StoreMetrics, metrics []string) []StoreComparison {
	preBy := indexStores(pre)
	postBy := indexStores(post)

	ids := make([]string, 0, len(preBy)+len(postBy))
	for id := range preBy {
		ids = append(ids, id)
	}
	for id := range postBy {
		if _, ok := preBy[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]StoreComparison, 0, len(ids))
	for _, id := range ids {
		p, hasPre := preBy[id]
		q, hasPost := postBy[id]

		name := UnknownStore
		if hasPre && p.StoreName != UnknownStore && p.StoreName != "" {
			name = p.StoreName
		} else if hasPost && q.StoreName != "" {
			name = q.StoreName
		}

		pv, qv := p.MetricValues(), q.MetricValues()
		sc := StoreComparison{StoreID: id, StoreName: name, Metrics: make(map[string]Change, len(metrics))}
		for _, metric := range metrics {
			sc.Metrics[metric] = NewChange(pv[metric], qv[metric])
		}
		out = append(out, sc)
	}
	return out
}

// Growth compares the pre and post aggregates on every growth and rate metric.
func Growth(pre, post []StoreMetrics) []GrowthRecord {
	metrics := append(append([]string{}, GrowthMetrics...), RateMetrics...)
	return CompareStores(pre, post, metrics)
}

func indexStores(ms []StoreMetrics) map[string]StoreMetrics {
	out := make(map[string]StoreMetrics, len(ms))
	for _, m := range ms {
		out[m.StoreID] = m
	}
	return out
}
