package report

import (
	"fmt"
)

// StoreWiseLayout names the sheets of a store-wise workbook.
type StoreWiseLayout struct {
	PreMetrics   string
	PostMetrics  string
	Growth       string
	Insights     string
	InsightItems string
	Summary      string
	Top          string
	Bottom       string
	Info         string
}

// StoreWiseSheets returns the store-wise layout for a process label and a
// top/bottom list size.
func StoreWiseSheets(label string, topN int) StoreWiseLayout {
	return StoreWiseLayout{
		PreMetrics:   fmt.Sprintf("Pre_%s_Metrics", label),
		PostMetrics:  fmt.Sprintf("Post_%s_Metrics", label),
		Growth:       "Growth_Metrics",
		Insights:     "Store_Insights",
		InsightItems: "Store_Insight_Items",
		Summary:      "Summary_Statistics",
		Top:          fmt.Sprintf("Top_%d_Performers", topN),
		Bottom:       fmt.Sprintf("Bottom_%d_Performers", topN),
		Info:         "Report_Info",
	}
}

// Names lists the sheets in write order.
func (l StoreWiseLayout) Names() []string {
	return []string{
		l.PreMetrics,
		l.PostMetrics,
		l.Growth,
		l.Insights,
		l.InsightItems,
		l.Summary,
		l.Top,
		l.Bottom,
		l.Info,
	}
}

// Impact workbook sheets.
const (
	SheetFinancialAnalysis       = "Financial_Analysis"
	SheetCampaignComparison      = "Marketing_Campaign_Comparison"
	SheetStorePerformance        = "Store_Performance_Comparison"
	SheetYearOverYear            = "Year_Over_Year_Analysis"
	SheetMarketingROI            = "Marketing_ROI_Analysis"
	SheetComprehensive           = "Comprehensive_Pre_Post_Analysis"
	SheetWeekly                  = "Weekly_Analysis"
	SheetSelfServeSummary        = "Self_Serve_Summary"
	SheetSelfServeCampaigns      = "Self_Serve_Campaigns"
	SheetSelfServeGrowth         = "Self_Serve_YoY_Growth"
	SheetStoreLevelMetrics       = "Store_Level_Metrics"
	SheetStoreLevelSummary       = "Store_Level_Summary"
	SheetInsightsRecommendations = "Insights_Recommendations"
)

// ImpactSheets lists the impact workbook sheets in write order. A sheet whose
// analysis step failed is left out.
var ImpactSheets = []string{
	SheetFinancialAnalysis,
	SheetCampaignComparison,
	SheetStorePerformance,
	SheetYearOverYear,
	SheetMarketingROI,
	SheetComprehensive,
	SheetWeekly,
	SheetSelfServeSummary,
	SheetSelfServeCampaigns,
	SheetSelfServeGrowth,
	SheetStoreLevelMetrics,
	SheetStoreLevelSummary,
	SheetInsightsRecommendations,
}

// SnapshotLayout names the sheets of a single-window workbook.
type SnapshotLayout struct {
	Comprehensive string
	Financial     string
	Marketing     string
	Sales         string
	Summary       string
	Top           string
}

// SnapshotSheets returns the snapshot layout for a top list size.
func SnapshotSheets(topN int) SnapshotLayout {
	return SnapshotLayout{
		Comprehensive: "Comprehensive_Analysis",
		Financial:     SheetFinancialAnalysis,
		Marketing:     "Marketing_Analysis",
		Sales:         "Sales_Analysis",
		Summary:       "Summary_Statistics",
		Top:           fmt.Sprintf("Top_%d_Stores", topN),
	}
}

// Names lists the sheets in write order.
func (l SnapshotLayout) Names() []string {
	return []string{l.Comprehensive, l.Financial, l.Marketing, l.Sales, l.Summary, l.Top}
}

// Report file name prefixes.
const (
	StoreWisePrefix = "Store_Wise_Analysis"
	ImpactSuffix    = "Analysis_Report"
	SnapshotSuffix  = "Store_Analysis"
)

// ImpactPrefix is the impact workbook prefix, e.g. "TODC_Analysis_Report".
func ImpactPrefix(label string) string { return label + "_" + ImpactSuffix }

// SnapshotPrefix is the snapshot workbook prefix, e.g.
// "August_2025_Store_Analysis".
func SnapshotPrefix(name string) string { return name + "_" + SnapshotSuffix }
