package analytics

import (
	"sort"

	"storepulse/internal/dataset"
)

// CampaignStats aggregates one self-serve campaign.
type CampaignStats struct {
	Campaign          string
	Orders            float64
	Sales             float64
	AvgROAS           float64
	NewCustomers      float64
	TotalCustomers    float64
	NewDPCustomers    float64
	MerchantDiscounts float64
	MarketingFees     float64
	TotalCost         float64
	ROI               float64
}

// CampaignPerformance groups the self-serve rows of records by campaign name,
// sorted by ROI descending then name.
func CampaignPerformance(records []dataset.MarketingRecord) []CampaignStats {
	type acc struct {
		rows      int
		orders    sum
		sales     sum
		roas      sum
		newC      sum
		totalC    sum
		newDP     sum
		discounts sum
		fees      sum
	}
	groups := make(map[string]*acc)
	for _, r := range dataset.SelfServe(records) {
		a, ok := groups[r.Campaign]
		if !ok {
			a = &acc{}
			groups[r.Campaign] = a
		}
		a.rows++
		a.orders.add(r.Orders)
		a.sales.add(r.Sales)
		a.roas.add(r.ROAS)
		a.newC.add(r.NewCustomers)
		a.totalC.add(r.TotalCustomers)
		a.newDP.add(r.NewDPCustomers)
		a.discounts.add(r.MerchantDiscount)
		a.fees.add(r.MarketingFee)
	}

	out := make([]CampaignStats, 0, len(groups))
	for name, a := range groups {
		c := CampaignStats{
			Campaign:          name,
			Orders:            a.orders.value(),
			Sales:             a.sales.value(),
			AvgROAS:           round2(a.roas.value() / float64(a.rows)),
			NewCustomers:      a.newC.value(),
			TotalCustomers:    a.totalC.value(),
			NewDPCustomers:    a.newDP.value(),
			MerchantDiscounts: a.discounts.value(),
			MarketingFees:     a.fees.value(),
		}
		c.TotalCost = c.MerchantDiscounts + c.MarketingFees
		c.ROI = round2(roi(c.Sales, c.TotalCost))
		out = append(out, c)
	}
	sortCampaigns(out)
	return out
}

func sortCampaigns(cs []CampaignStats) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].ROI != cs[j].ROI {
			return cs[i].ROI > cs[j].ROI
		}
		return cs[i].Campaign < cs[j].Campaign
	})
}

// CampaignComparison compares a campaign that ran in both periods.
type CampaignComparison struct {
	Campaign string
	Orders   Change
	Sales    Change
	PreROI   float64
	PostROI  float64
	ROIDelta float64
}

// CompareCampaigns compares campaigns present in both periods, sorted by name.
// Growth percentages need a positive pre value.
func CompareCampaigns(pre, post []CampaignStats) []CampaignComparison {
	postBy := make(map[string]CampaignStats, len(post))
	for _, c := range post {
		postBy[c.Campaign] = c
	}

	out := make([]CampaignComparison, 0)
	for _, p := range pre {
		q, ok := postBy[p.Campaign]
		if !ok {
			continue
		}
		out = append(out, CampaignComparison{
			Campaign: p.Campaign,
			Orders:   positiveChange(p.Orders, q.Orders),
			Sales:    positiveChange(p.Sales, q.Sales),
			PreROI:   p.ROI,
			PostROI:  q.ROI,
			ROIDelta: q.ROI - p.ROI,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Campaign < out[j].Campaign })
	return out
}

// positiveChange is NewChange with the percentage limited to positive
// baselines, as used for order and sales counts.
func positiveChange(pre, post float64) Change {
	c := NewChange(pre, post)
	if pre <= 0 {
		c.Percent = 0
	}
	return c
}

// ROISummary is the portfolio marketing return for two periods.
type ROISummary struct {
	PreROI         float64
	PostROI        float64
	ROIImprovement float64
	PreTotalCost   float64
	PostTotalCost  float64
	PreTotalSales  float64
	PostTotalSales float64
}

// MarketingROI computes the marketing return on cost for each period. Cost is
// marketing fees plus merchant-funded discounts.
func MarketingROI(pre, post []dataset.MarketingRecord) ROISummary {
	s := ROISummary{
		PreTotalCost:   total(pre, dataset.MarketingRecord.Cost),
		PostTotalCost:  total(post, dataset.MarketingRecord.Cost),
		PreTotalSales:  total(pre, func(r dataset.MarketingRecord) float64 { return r.Sales }),
		PostTotalSales: total(post, func(r dataset.MarketingRecord) float64 { return r.Sales }),
	}
	s.PreROI = roi(s.PreTotalSales, s.PreTotalCost)
	s.PostROI = roi(s.PostTotalSales, s.PostTotalCost)
	s.ROIImprovement = s.PostROI - s.PreROI
	return s
}
