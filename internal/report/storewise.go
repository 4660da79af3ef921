package report

import (
	"time"

	"storepulse/internal/analytics"
	"storepulse/internal/insights"
	"storepulse/internal/period"
)

// Report_Info keys.
const (
	infoLabel       = "process_label"
	infoPreStart    = "pre_start"
	infoPreEnd      = "pre_end"
	infoPostStart   = "post_start"
	infoPostEnd     = "post_end"
	infoGeneratedAt = "generated_at"
	infoRunID       = "run_id"
)

// StoreWiseReport holds everything written to a store-wise workbook.
type StoreWiseReport struct {
	Label       string
	TopN        int
	Pre         period.Period
	Post        period.Period
	RunID       string
	GeneratedAt time.Time

	PreMetrics  []analytics.StoreMetrics
	PostMetrics []analytics.StoreMetrics
	Growth      []analytics.GrowthRecord
	Stores      []insights.StoreInsight
	Summary     insights.Summary
}

// Layout returns the sheet names of r.
func (r StoreWiseReport) Layout() StoreWiseLayout {
	return StoreWiseSheets(r.Label, r.TopN)
}

var storeMetricHeaders = []string{
	"Store_ID", "Store_Name", "Period",
	analytics.MetricOverallSales, analytics.MetricTotalOrders, analytics.MetricAvgOrderValue,
	analytics.MetricTotalCommission, analytics.MetricNetPayout,
	"Marketing_Fees", "Merchant_Discounts", "Platform_Discounts",
	"Commission_Rate", "Marketing_Fee_Rate",
	analytics.MetricMarketingDrivenSales, analytics.MetricMarketingOrders, analytics.MetricMarketingSpend,
	analytics.MetricOrganicSales, analytics.MetricMarketingPercentage, analytics.MetricOrganicPercentage,
	analytics.MetricMarketingROI, "Sales_Source",
}

var performerHeaders = []string{
	"Store_ID", "Store_Name",
	analytics.MetricOverallSales + "_Growth_Percent",
	analytics.MetricMarketingDrivenSales + "_Growth_Percent",
	analytics.MetricMarketingROI + "_Delta",
}

// Sheets builds the workbook sheets in layout order.
func (r StoreWiseReport) Sheets() []Sheet {
	l := r.Layout()
	return []Sheet{
		storeMetricsSheet(l.PreMetrics, r.PreMetrics),
		storeMetricsSheet(l.PostMetrics, r.PostMetrics),
		growthSheet(l.Growth, r.Growth),
		storeInsightsSheet(l.Insights, r.Stores),
		insightItemsSheet(l.InsightItems, r.Stores),
		summarySheet(l.Summary, r.Summary.Rows),
		performersSheet(l.Top, r.Summary.Top),
		performersSheet(l.Bottom, r.Summary.Bottom),
		r.infoSheet(l.Info),
	}
}

func storeMetricsSheet(name string, ms []analytics.StoreMetrics) Sheet {
	s := NewSheet(name, storeMetricHeaders...)
	for _, m := range ms {
		s.Append(m.StoreID, m.StoreName, m.Period,
			m.OverallSales, m.TotalOrders, m.AvgOrderValue,
			m.TotalCommission, m.NetPayout,
			m.MarketingFees, m.MerchantDiscounts, m.PlatformDiscounts,
			m.CommissionRate, m.MarketingFeeRate,
			m.MarketingDrivenSales, m.MarketingOrders, m.MarketingSpend,
			m.OrganicSales, m.MarketingPercentage, m.OrganicPercentage,
			m.MarketingROI, m.SalesSource)
	}
	return s
}

func growthHeaders() []string {
	h := []string{"Store_ID", "Store_Name"}
	for _, m := range analytics.GrowthMetrics {
		h = append(h, m+"_Pre", m+"_Post", m+"_Delta", m+"_Growth_Percent")
	}
	for _, m := range analytics.RateMetrics {
		h = append(h, m+"_Pre", m+"_Post", m+"_Delta")
	}
	return append(h, analytics.MetricOverallSales+"_Zero_Baseline")
}

func growthSheet(name string, growth []analytics.GrowthRecord) Sheet {
	s := NewSheet(name, growthHeaders()...)
	for _, g := range growth {
		row := []any{g.StoreID, g.StoreName}
		for _, m := range analytics.GrowthMetrics {
			c := g.Get(m)
			row = append(row, c.Pre, c.Post, c.Delta, c.Percent)
		}
		for _, m := range analytics.RateMetrics {
			c := g.Get(m)
			row = append(row, c.Pre, c.Post, c.Delta)
		}
		row = append(row, g.Get(analytics.MetricOverallSales).ZeroBaseline())
		s.Append(row...)
	}
	return s
}

func storeInsightsSheet(name string, stores []insights.StoreInsight) Sheet {
	s := NewSheet(name, "Store_ID", "Store_Name", "Overall_Performance", "Priority_Level",
		"Insight_Count", "Recommendation_Count")
	for _, st := range stores {
		s.Append(st.StoreID, st.StoreName, string(st.Tier), string(st.Priority),
			len(st.Insights()), len(st.Recommendations()))
	}
	return s
}

func insightItemsSheet(name string, stores []insights.StoreInsight) Sheet {
	s := NewSheet(name, "Store_ID", "Kind", "Sequence", "Category", "Message")
	for _, st := range stores {
		seq := map[insights.Kind]int{}
		for _, it := range st.Items {
			seq[it.Kind]++
			s.Append(st.StoreID, string(it.Kind), seq[it.Kind], it.Category, it.Message)
		}
	}
	return s
}

func summarySheet(name string, rows []analytics.SummaryRow) Sheet {
	s := NewSheet(name, "Metric", "Value", "Unit")
	for _, r := range rows {
		s.Append(r.Metric, r.Value, r.Unit)
	}
	return s
}

func performersSheet(name string, ps []insights.Performer) Sheet {
	s := NewSheet(name, performerHeaders...)
	for _, p := range ps {
		s.Append(p.StoreID, p.StoreName, p.SalesGrowth, p.MarketingGrowth, p.ROIDelta)
	}
	return s
}

func (r StoreWiseReport) infoSheet(name string) Sheet {
	s := NewSheet(name, "Key", "Value")
	s.Append(infoLabel, r.Label)
	s.Append(infoPreStart, r.Pre.StartLabel())
	s.Append(infoPreEnd, r.Pre.EndLabel())
	s.Append(infoPostStart, r.Post.StartLabel())
	s.Append(infoPostEnd, r.Post.EndLabel())
	s.Append(infoGeneratedAt, r.GeneratedAt.Format(time.RFC3339))
	s.Append(infoRunID, r.RunID)
	return s
}

// Document builds the insights narrative directly from the report.
func (r StoreWiseReport) Document() InsightsDocument {
	return InsightsDocument{
		Label:        r.Label,
		Pre:          r.Pre,
		Post:         r.Post,
		RunID:        r.RunID,
		GeneratedAt:  r.GeneratedAt,
		StoreCount:   len(r.Growth),
		Summary:      r.Summary.Rows,
		Distribution: insights.Distribution(r.Stores),
		Top:          r.Summary.Top,
		Bottom:       r.Summary.Bottom,
		High:         insights.ByPriority(r.Stores, insights.PriorityHigh),
		Medium:       insights.ByPriority(r.Stores, insights.PriorityMedium),
	}
}
