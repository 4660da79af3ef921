package report

import (
	"fmt"

	"storepulse/internal/analytics"
	"storepulse/internal/insights"
)

// ImpactReport holds the results of an impact analysis. A nil or empty part
// means its step did not produce a result and its sheet is skipped.
type ImpactReport struct {
	Label         string
	BaselineYear  int
	CurrentYear   int
	Financial     []analytics.KeyedChange
	Campaigns     []analytics.CampaignComparison
	SalesStores   []analytics.SalesStoreComparison
	YoY           []analytics.YoYWindow
	ROI           *analytics.ROISummary
	Weekly        []analytics.WeekMetrics
	SelfServe     *analytics.SelfServeAnalysis
	StoreLevel    []analytics.StoreLevelComparison
	StoreTotals   []analytics.StoreLevelTotal
	Portfolio     *insights.PortfolioInsights
	HasFinancial  bool
	HasCampaigns  bool
	HasSales      bool
	HasStoreLevel bool
}

// financialAnalysisKeys are the period totals of the Financial_Analysis sheet;
// the comprehensive sheet adds the rates.
var financialAnalysisKeys = []string{
	analytics.KeyTotalOrders,
	analytics.KeyTotalSubtotal,
	analytics.KeyTotalCommission,
	analytics.KeyTotalMarketingFees,
	analytics.KeyTotalNetPayout,
	analytics.KeyAvgOrderValue,
	analytics.KeyAvgCommissionRate,
	analytics.KeyUniqueStores,
	analytics.KeyTotalCustomerDiscounts,
	analytics.KeyTotalPlatformDiscounts,
}

// Sheets builds the sheets that have data, in ImpactSheets order.
func (r ImpactReport) Sheets() []Sheet {
	var out []Sheet
	if r.HasFinancial {
		out = append(out, r.financialSheet(SheetFinancialAnalysis, financialAnalysisKeys))
	}
	if r.HasCampaigns {
		out = append(out, r.campaignSheet())
	}
	if r.HasSales {
		out = append(out, r.salesStoresSheet())
	}
	if len(r.YoY) > 0 {
		out = append(out, r.yoySheet())
	}
	if r.ROI != nil {
		out = append(out, r.roiSheet())
	}
	if r.HasFinancial {
		out = append(out, r.financialSheet(SheetComprehensive, analytics.FinancialKeys))
	}
	if len(r.Weekly) > 0 {
		out = append(out, weeklySheet(r.Weekly))
	}
	if r.SelfServe != nil {
		out = append(out, r.selfServeSheets()...)
	}
	if r.HasStoreLevel {
		out = append(out, storeLevelSheet(r.StoreLevel), storeLevelSummarySheet(r.StoreTotals))
	}
	if r.Portfolio != nil {
		s := NewSheet(SheetInsightsRecommendations, "Insights", "Recommendations")
		for i, in := range r.Portfolio.Insights {
			s.Append(in, r.Portfolio.Recommendations[i])
		}
		out = append(out, s)
	}
	return out
}

func (r ImpactReport) financialSheet(name string, keys []string) Sheet {
	pre, post := "Pre_"+r.Label, "Post_"+r.Label
	s := NewSheet(name, "Metric", pre, post, "Delta", "Delta_Percent")
	for _, k := range keys {
		c, ok := analytics.ChangeFor(r.Financial, k)
		if !ok {
			continue
		}
		s.Append(metricTitle(k), c.Pre, c.Post, c.Delta, c.Percent)
	}
	return s
}

func (r ImpactReport) campaignSheet() Sheet {
	s := NewSheet(SheetCampaignComparison,
		"Campaign_Name",
		"Pre_Orders", "Post_Orders", "Orders_Delta", "Orders_Delta_Percent",
		"Pre_Sales", "Post_Sales", "Sales_Delta", "Sales_Delta_Percent",
		"Pre_ROI", "Post_ROI", "ROI_Delta")
	for _, c := range r.Campaigns {
		s.Append(c.Campaign,
			c.Orders.Pre, c.Orders.Post, c.Orders.Delta, c.Orders.Percent,
			c.Sales.Pre, c.Sales.Post, c.Sales.Delta, c.Sales.Percent,
			c.PreROI, c.PostROI, c.ROIDelta)
	}
	return s
}

func (r ImpactReport) salesStoresSheet() Sheet {
	headers := []string{"Store_ID", "Store_Name"}
	for _, m := range []string{"Gross_Sales", "Orders", "AOV", "Net_Revenue"} {
		headers = append(headers, m+"_Pre", m+"_Post", m+"_Delta", m+"_Delta_Percent")
	}
	s := NewSheet(SheetStorePerformance, headers...)
	for _, c := range r.SalesStores {
		row := []any{c.StoreID, c.StoreName}
		for _, ch := range []analytics.Change{c.GrossSales, c.Orders, c.AvgAOV, c.NetRevenue} {
			row = append(row, ch.Pre, ch.Post, ch.Delta, ch.Percent)
		}
		s.Append(row...)
	}
	return s
}

func (r ImpactReport) yoySheet() Sheet {
	b, c := r.BaselineYear, r.CurrentYear
	s := NewSheet(SheetYearOverYear,
		"Period", "Category",
		fmt.Sprintf("Orders_%d", b), fmt.Sprintf("Orders_%d", c), "Orders_Delta", "Orders_Growth_Percent",
		fmt.Sprintf("Sales_%d", b), fmt.Sprintf("Sales_%d", c), "Sales_Delta", "Sales_Growth_Percent")
	for _, w := range r.YoY {
		for _, m := range w.Sources {
			s.Append(w.Window, m.Source,
				m.Orders.Pre, m.Orders.Post, m.Orders.Delta, m.Orders.Percent,
				m.Sales.Pre, m.Sales.Post, m.Sales.Delta, m.Sales.Percent)
		}
	}
	return s
}

func (r ImpactReport) roiSheet() Sheet {
	s := NewSheet(SheetMarketingROI, "Metric", "Value", "Unit")
	roi := r.ROI
	s.Append(fmt.Sprintf("Pre-%s ROI", r.Label), roi.PreROI, "%")
	s.Append(fmt.Sprintf("Post-%s ROI", r.Label), roi.PostROI, "%")
	s.Append("ROI Improvement", roi.ROIImprovement, "%")
	s.Append(fmt.Sprintf("Pre-%s Total Cost", r.Label), roi.PreTotalCost, "$")
	s.Append(fmt.Sprintf("Post-%s Total Cost", r.Label), roi.PostTotalCost, "$")
	s.Append(fmt.Sprintf("Pre-%s Total Sales", r.Label), roi.PreTotalSales, "$")
	s.Append(fmt.Sprintf("Post-%s Total Sales", r.Label), roi.PostTotalSales, "$")
	return s
}

func weeklySheet(weeks []analytics.WeekMetrics) Sheet {
	s := NewSheet(SheetWeekly,
		"week", "start_date", "end_date",
		"sales", "net_payout", "marketing_spend", "customer_discounts",
		"subtotal", "commission", "marketing_fees",
		"customer_discounts_funded_by_you", "customer_discounts_funded_by_platform",
		"net_total", "total_orders", "avg_order_value")
	for _, w := range weeks {
		row := []any{w.Week.Name, w.Week.StartLabel(), w.Week.EndLabel(),
			w.Sales, w.NetPayout, w.MarketingSpend, w.CustomerDiscounts}
		if w.HasOrders {
			row = append(row, w.Subtotal, w.Commission, w.MarketingFees,
				w.MerchantFundedDiscounts, w.PlatformFundedDiscounts,
				w.NetTotal, w.TotalOrders, w.AvgOrderValue)
		}
		s.Append(row...)
	}
	return s
}

func (r ImpactReport) selfServeSheets() []Sheet {
	a := r.SelfServe
	summary := NewSheet(SheetSelfServeSummary,
		"Year", "Total_Campaigns", "Total_Orders", "Total_Sales", "Total_Budget", "Avg_ROAS", "Unique_Campaigns")
	for _, y := range []analytics.SelfServeYear{a.Baseline, a.Current} {
		summary.Append(y.Year, y.TotalCampaigns, y.TotalOrders, y.TotalSales, y.TotalBudget, y.AvgROAS, y.UniqueCampaigns)
	}

	campaigns := NewSheet(SheetSelfServeCampaigns,
		"Campaign_Name", "Orders", "Sales", "New_Customers", "Total_Customers",
		"Merchant_Discounts", "Marketing_Fees", "New_DP_Customers", "Total_Budget", "ROI")
	for _, c := range a.Campaigns {
		campaigns.Append(c.Campaign, c.Orders, c.Sales, c.NewCustomers, c.TotalCustomers,
			c.MerchantDiscounts, c.MarketingFees, c.NewDPCustomers, c.TotalCost, c.ROI)
	}

	growth := NewSheet(SheetSelfServeGrowth, "Metric", "Delta", "Delta_Percent")
	for _, g := range a.Growth {
		growth.Append(metricTitle(g.Key), g.Delta, g.Percent)
	}
	return []Sheet{summary, campaigns, growth}
}

var storeLevelParts = []string{"Pre", "Post", "Delta", "Delta_Percent"}

func storeLevelSheet(rows []analytics.StoreLevelComparison) Sheet {
	headers := []string{"Store_ID"}
	for _, part := range storeLevelParts {
		for _, m := range analytics.StoreLevelMetrics {
			headers = append(headers, part+"_"+m)
		}
	}
	s := NewSheet(SheetStoreLevelMetrics, headers...)
	for _, r := range rows {
		row := []any{r.StoreID}
		for _, part := range storeLevelParts {
			for _, m := range analytics.StoreLevelMetrics {
				row = append(row, changePart(r.Metrics[m], part))
			}
		}
		s.Append(row...)
	}
	return s
}

func storeLevelSummarySheet(totals []analytics.StoreLevelTotal) Sheet {
	s := NewSheet(SheetStoreLevelSummary, "Metric", "Period", "Total", "Unit")
	for _, t := range totals {
		for _, part := range storeLevelParts {
			unit := "$"
			if part == "Delta_Percent" {
				unit = "%"
			}
			s.Append(t.Metric, part, changePart(t.Change, part), unit)
		}
	}
	return s
}

func changePart(c analytics.Change, part string) float64 {
	switch part {
	case "Pre":
		return c.Pre
	case "Post":
		return c.Post
	case "Delta":
		return c.Delta
	default:
		return c.Percent
	}
}
