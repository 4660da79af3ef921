package report

import (
	"storepulse/internal/analytics"
)

// SnapshotSheetsFor builds the snapshot workbook sheets in layout order.
func SnapshotSheetsFor(a analytics.SnapshotAnalysis, topN int) []Sheet {
	l := SnapshotSheets(topN)

	comp := NewSheet(l.Comprehensive,
		"Store_ID", "Store_Name",
		"Financial_Orders", "Financial_Sales", "Financial_Commission", "Financial_Net_Payout",
		"Financial_Avg_Order_Value", "Financial_Commission_Rate", "Financial_Marketing_Fees",
		"Financial_Customer_Discounts_You", "Financial_Customer_Discounts_Platform",
		"Marketing_Orders", "Marketing_Sales", "Marketing_Avg_ROAS", "Marketing_Total_Cost", "Marketing_ROI",
		"Sales_Total_Sales", "Sales_Total_Orders", "Sales_Avg_Order_Value", "Sales_Total_Commission", "Sales_Net_Revenue",
		"Total_Sales", "Organic_Sales", "Organic_Percentage", "Marketing_Percentage")
	for _, s := range a.Stores {
		var fin analytics.SnapshotFinancial
		if s.Financial != nil {
			fin = *s.Financial
		}
		var mkt analytics.SnapshotMarketing
		if s.Marketing != nil {
			mkt = *s.Marketing
		}
		var sales analytics.SalesStore
		if s.Sales != nil {
			sales = *s.Sales
		}
		comp.Append(s.StoreID, s.StoreName,
			fin.Orders, fin.Sales, fin.Commission, fin.NetPayout,
			fin.AvgOrderValue, fin.CommissionRate, fin.MarketingFees,
			fin.MerchantDiscounts, fin.PlatformDiscounts,
			mkt.Orders, mkt.Sales, mkt.AvgROAS, mkt.TotalCost, mkt.ROI,
			sales.GrossSales, sales.Orders, sales.AvgAOV, sales.Commission, sales.NetRevenue,
			s.TotalSales, s.OrganicSales, s.OrganicPercentage, s.MarketingPercentage)
	}

	financial := NewSheet(l.Financial,
		"Store_ID", "Total_Sales", "Total_Commission", "Net_Payout", "Total_Orders",
		"Marketing_Fees", "Customer_Discounts_Funded_by_You", "Customer_Discounts_Funded_by_Platform",
		"Avg_Order_Value", "Commission_Rate", "Marketing_Fee_Rate")
	for _, f := range a.Financial {
		financial.Append(f.StoreID, f.Sales, f.Commission, f.NetPayout, f.Orders,
			f.MarketingFees, f.MerchantDiscounts, f.PlatformDiscounts,
			f.AvgOrderValue, f.CommissionRate, f.MarketingFeeRate)
	}

	marketing := NewSheet(l.Marketing,
		"Store_ID", "Marketing_Orders", "Marketing_Sales", "Avg_ROAS",
		"Customer_Discounts_Funded_by_You", "Marketing_Fees", "Total_Marketing_Cost", "Marketing_ROI")
	for _, m := range a.Marketing {
		marketing.Append(m.StoreID, m.Orders, m.Sales, m.AvgROAS,
			m.MerchantDiscounts, m.MarketingFees, m.TotalCost, m.ROI)
	}

	sales := NewSheet(l.Sales,
		"Store_ID", "Store_Name", "Total_Sales", "Total_Orders", "Avg_Order_Value", "Total_Commission", "Net_Revenue")
	for _, s := range a.Sales {
		sales.Append(s.StoreID, s.StoreName, s.GrossSales, s.Orders, s.AvgAOV, s.Commission, s.NetRevenue)
	}

	top := NewSheet(l.Top,
		"Store_ID", "Store_Name", "Total_Sales", "Marketing_Sales", "Organic_Sales", "Marketing_ROI", "Sales_Avg_Order_Value")
	for _, s := range a.Top(topN) {
		top.Append(s.StoreID, s.StoreName, s.TotalSales, s.MarketingSales, s.OrganicSales, s.MarketingROI(), s.SalesAOV())
	}

	return []Sheet{comp, financial, marketing, sales, summarySheet(l.Summary, a.Summary()), top}
}
