package insights

import (
	"fmt"
	"math"

	"storepulse/internal/analytics"
)

// DefaultLabel names the process whose impact is analysed.
const DefaultLabel = "TODC"

// Tier rates a store by its sales growth.
type Tier string

const (
	TierExcellent Tier = "Excellent"
	TierGood      Tier = "Good"
	TierModerate  Tier = "Moderate"
	TierPoor      Tier = "Poor"
)

// Tiers lists every tier from best to worst.
var Tiers = []Tier{TierExcellent, TierGood, TierModerate, TierPoor}

// Priority ranks how urgently a store needs attention.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)

// Kind tells findings from recommendations.
type Kind string

const (
	KindInsight        Kind = "insight"
	KindRecommendation Kind = "recommendation"
)

// Rule categories, in evaluation order.
const (
	CategorySales          = "sales"
	CategoryMarketing      = "marketing"
	CategoryOrganic        = "organic"
	CategoryOrders         = "orders"
	CategoryAOV            = "aov"
	CategoryMarketingSpend = "marketing_spend"
)

// Item is one finding or recommendation.
type Item struct {
	Kind     Kind
	Category string
	Message  string
}

// StoreInsight is the evaluation of one store.
type StoreInsight struct {
	StoreID   string
	StoreName string
	Tier      Tier
	Priority  Priority
	Items     []Item
}

// Insights returns the finding messages in order.
func (s StoreInsight) Insights() []string { return s.messages(KindInsight) }

// Recommendations returns the recommendation messages in order.
func (s StoreInsight) Recommendations() []string { return s.messages(KindRecommendation) }

func (s StoreInsight) messages(k Kind) []string {
	var out []string
	for _, it := range s.Items {
		if it.Kind == k {
			out = append(out, it.Message)
		}
	}
	return out
}

// TierFor rates a sales growth percentage. Boundaries are exclusive: 50%
// growth is Good, not Excellent.
func TierFor(salesGrowth float64) Tier {
	switch {
	case salesGrowth > 50:
		return TierExcellent
	case salesGrowth > 20:
		return TierGood
	case salesGrowth > 0:
		return TierModerate
	default:
		return TierPoor
	}
}

// ForStore evaluates the rules for one store. label names the process in
// messages; empty means DefaultLabel.
func ForStore(g analytics.GrowthRecord, label string) StoreInsight {
	if label == "" {
		label = DefaultLabel
	}
	s := StoreInsight{
		StoreID:   g.StoreID,
		StoreName: g.StoreName,
		Tier:      TierFor(g.SalesGrowth()),
		Priority:  PriorityMedium,
	}
	add := func(category, insight, recommendation string) {
		s.Items = append(s.Items,
			Item{Kind: KindInsight, Category: category, Message: insight},
			Item{Kind: KindRecommendation, Category: category, Message: recommendation},
		)
	}

	sales := g.SalesGrowth()
	switch s.Tier {
	case TierExcellent:
		add(CategorySales,
			fmt.Sprintf("Outstanding sales growth of %.1f%% post-%s", sales, label),
			"Continue current strategies and consider scaling successful initiatives")
	case TierGood:
		add(CategorySales,
			fmt.Sprintf("Strong sales growth of %.1f%% post-%s", sales, label),
			"Optimize and expand successful marketing campaigns")
	case TierModerate:
		add(CategorySales,
			fmt.Sprintf("Modest sales growth of %.1f%% post-%s", sales, label),
			"Review and improve marketing strategies for better growth")
	default:
		add(CategorySales,
			fmt.Sprintf("Sales declined by %.1f%% post-%s", math.Abs(sales), label),
			"Urgent review needed - implement aggressive growth strategies")
		s.Priority = PriorityHigh
	}

	marketing := g.MarketingGrowth()
	roiDelta := g.ROIDelta()
	switch {
	case marketing > 30 && roiDelta > 0:
		add(CategoryMarketing,
			fmt.Sprintf("Marketing campaigns are highly effective with %.1f%% growth and improved ROI", marketing),
			"Increase marketing budget allocation for this store")
	case marketing > 0 && roiDelta > 0:
		add(CategoryMarketing,
			fmt.Sprintf("Marketing is performing well with %.1f%% growth and positive ROI trend", marketing),
			"Optimize existing campaigns and test new marketing channels")
	case marketing < 0 || roiDelta < -10:
		add(CategoryMarketing,
			"Marketing performance needs improvement",
			"Review and restructure marketing campaigns - consider different strategies")
		s.Priority = PriorityHigh
	}

	organic := g.Get(analytics.MetricOrganicSales).Percent
	switch {
	case organic > 20:
		add(CategoryOrganic,
			fmt.Sprintf("Strong organic growth of %.1f%% indicates good brand recognition", organic),
			"Leverage organic growth by improving customer experience and retention")
	case organic < -10:
		add(CategoryOrganic,
			fmt.Sprintf("Organic sales declined by %.1f%% - brand awareness may be decreasing", math.Abs(organic)),
			"Focus on brand building and customer retention strategies")
	}

	orders := g.Get(analytics.MetricTotalOrders).Percent
	switch {
	case orders > 30:
		add(CategoryOrders,
			fmt.Sprintf("Order volume increased significantly by %.1f%%", orders),
			"Ensure operational capacity can handle increased order volume")
	case orders < -15:
		add(CategoryOrders,
			fmt.Sprintf("Order volume decreased by %.1f%% - customer acquisition needs attention", math.Abs(orders)),
			"Implement customer acquisition campaigns and improve visibility")
	}

	aov := g.Get(analytics.MetricAvgOrderValue).Percent
	switch {
	case aov > 10:
		add(CategoryAOV,
			fmt.Sprintf("Average order value increased by %.1f%% - upselling is effective", aov),
			"Continue upselling strategies and consider premium menu items")
	case aov < -5:
		add(CategoryAOV,
			fmt.Sprintf("Average order value decreased by %.1f%%", math.Abs(aov)),
			"Review menu pricing and implement upselling training")
	}

	spend := g.Get(analytics.MetricMarketingSpend).Percent
	switch {
	case spend > 50 && roiDelta < -20:
		add(CategoryMarketingSpend,
			"Marketing spend increased significantly but ROI decreased",
			"Optimize marketing spend allocation - focus on high-performing campaigns")
	case spend < -20 && marketing > 0:
		add(CategoryMarketingSpend,
			"Marketing spend decreased but sales still grew - efficient marketing",
			"Consider increasing marketing budget to accelerate growth")
	}

	return s
}

// ForStores evaluates every growth record, keeping its order.
func ForStores(growth []analytics.GrowthRecord, label string) []StoreInsight {
	out := make([]StoreInsight, 0, len(growth))
	for _, g := range growth {
		out = append(out, ForStore(g, label))
	}
	return out
}
