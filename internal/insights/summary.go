package insights

import (
	"sort"

	"storepulse/internal/analytics"
)

// Performer is a store ranked by sales growth.
type Performer struct {
	StoreID         string
	StoreName       string
	SalesGrowth     float64
	MarketingGrowth float64
	ROIDelta        float64
}

// TierCount is the share of stores in one tier.
type TierCount struct {
	Tier    Tier
	Count   int
	Percent float64
}

// Summary condenses a store-wise comparison.
type Summary struct {
	Rows   []analytics.SummaryRow
	Top    []Performer
	Bottom []Performer
}

// Summarize builds the summary statistics and the top and bottom n stores by
// sales growth. Ties keep store id order.
func Summarize(growth []analytics.GrowthRecord, stores []StoreInsight, n int) Summary {
	counts := make(map[Tier]int, len(Tiers))
	for _, s := range stores {
		counts[s.Tier]++
	}

	var salesSum, mktSum float64
	for _, g := range growth {
		salesSum += g.SalesGrowth()
		mktSum += g.MarketingGrowth()
	}
	var avgSales, avgMkt float64
	if len(growth) > 0 {
		avgSales = salesSum / float64(len(growth))
		avgMkt = mktSum / float64(len(growth))
	}

	s := Summary{
		Rows: []analytics.SummaryRow{
			{Metric: "Total Stores Analyzed", Value: float64(len(growth)), Unit: "Stores"},
			{Metric: "Average Sales Growth", Value: avgSales, Unit: "%"},
			{Metric: "Average Marketing Sales Growth", Value: avgMkt, Unit: "%"},
		},
	}
	for _, t := range Tiers {
		s.Rows = append(s.Rows, analytics.SummaryRow{
			Metric: string(t) + " Performing Stores",
			Value:  float64(counts[t]),
			Unit:   "Stores",
		})
	}

	ranked := make([]Performer, 0, len(growth))
	for _, g := range growth {
		ranked = append(ranked, Performer{
			StoreID:         g.StoreID,
			StoreName:       g.StoreName,
			SalesGrowth:     g.SalesGrowth(),
			MarketingGrowth: g.MarketingGrowth(),
			ROIDelta:        g.ROIDelta(),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].StoreID < ranked[j].StoreID })

	top := append([]Performer(nil), ranked...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].SalesGrowth > top[j].SalesGrowth })
	bottom := append([]Performer(nil), ranked...)
	sort.SliceStable(bottom, func(i, j int) bool { return bottom[i].SalesGrowth < bottom[j].SalesGrowth })

	s.Top = head(top, n)
	s.Bottom = head(bottom, n)
	return s
}

func head[T any](items []T, n int) []T {
	if n < 0 || n > len(items) {
		n = len(items)
	}
	return items[:n]
}

// Distribution counts stores per tier, largest share first. Tiers without
// stores are left out.
func Distribution(stores []StoreInsight) []TierCount {
	counts := make(map[Tier]int, len(Tiers))
	for _, s := range stores {
		counts[s.Tier]++
	}
	out := make([]TierCount, 0, len(counts))
	for _, t := range Tiers {
		c := counts[t]
		if c == 0 {
			continue
		}
		out = append(out, TierCount{Tier: t, Count: c, Percent: float64(c) / float64(len(stores)) * 100})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// ByPriority returns the stores of priority p, keeping their order.
func ByPriority(stores []StoreInsight, p Priority) []StoreInsight {
	var out []StoreInsight
	for _, s := range stores {
		if s.Priority == p {
			out = append(out, s)
		}
	}
	return out
}
