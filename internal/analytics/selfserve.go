package analytics

import (
	"storepulse/internal/dataset"
)

// Self-serve summary keys, in report order.
const (
	KeyTotalCampaigns  = "total_campaigns"
	KeyTotalSales      = "total_sales"
	KeyTotalBudget     = "total_budget"
	KeyAvgROAS         = "avg_roas"
	KeyUniqueCampaigns = "unique_campaigns"
)

// SelfServeKeys lists the SelfServeYear values in report order.
var SelfServeKeys = []string{
	KeyTotalCampaigns,
	KeyTotalOrders,
	KeyTotalSales,
	KeyTotalBudget,
	KeyAvgROAS,
	KeyUniqueCampaigns,
}

// SelfServeYear summarises the self-serve campaign rows of one year.
type SelfServeYear struct {
	Year int
	// TotalCampaigns counts campaign-day rows.
	TotalCampaigns  float64
	TotalOrders     float64
	TotalSales      float64
	TotalBudget     float64
	AvgROAS         float64
	UniqueCampaigns float64
}

// Values returns the summary keyed by SelfServeKeys.
func (y SelfServeYear) Values() map[string]float64 {
	return map[string]float64{
		KeyTotalCampaigns:  y.TotalCampaigns,
		KeyTotalOrders:     y.TotalOrders,
		KeyTotalSales:      y.TotalSales,
		KeyTotalBudget:     y.TotalBudget,
		KeyAvgROAS:         y.AvgROAS,
		KeyUniqueCampaigns: y.UniqueCampaigns,
	}
}

// SelfServeAnalysis compares self-serve campaigns across two years.
type SelfServeAnalysis struct {
	Baseline SelfServeYear
	Current  SelfServeYear
	// Growth holds only the keys with a non-zero baseline.
	Growth []KeyedChange
	// Campaigns details the current year, sorted by ROI descending.
	Campaigns []CampaignStats
}

// SelfServe summarises budget against sales for self-serve campaigns of the
// baseline and current years.
func SelfServe(baselineYear int, baseline []dataset.MarketingRecord, currentYear int, current []dataset.MarketingRecord) SelfServeAnalysis {
	a := SelfServeAnalysis{
		Baseline:  selfServeYear(baselineYear, baseline),
		Current:   selfServeYear(currentYear, current),
		Campaigns: CampaignPerformance(current),
	}
	pre, post := a.Baseline.Values(), a.Current.Values()
	for _, k := range SelfServeKeys {
		if pre[k] == 0 {
			continue
		}
		a.Growth = append(a.Growth, KeyedChange{Key: k, Change: NewChange(pre[k], post[k])})
	}
	return a
}

func selfServeYear(year int, records []dataset.MarketingRecord) SelfServeYear {
	rows := dataset.SelfServe(records)
	campaigns := make(map[string]struct{})
	for _, r := range rows {
		campaigns[r.Campaign] = struct{}{}
	}
	return SelfServeYear{
		Year:            year,
		TotalCampaigns:  float64(len(rows)),
		TotalOrders:     total(rows, func(r dataset.MarketingRecord) float64 { return r.Orders }),
		TotalSales:      total(rows, func(r dataset.MarketingRecord) float64 { return r.Sales }),
		TotalBudget:     total(rows, dataset.MarketingRecord.Cost),
		AvgROAS:         mean(rows, func(r dataset.MarketingRecord) float64 { return r.ROAS }),
		UniqueCampaigns: float64(len(campaigns)),
	}
}
