package analytics

import (
	"sort"

	"storepulse/internal/dataset"
)

// SnapshotFinancial is the order-transaction block of a store.
type SnapshotFinancial struct {
	StoreID           string
	Orders            float64
	Sales             float64
	Commission        float64
	NetPayout         float64
	MarketingFees     float64
	MerchantDiscounts float64
	PlatformDiscounts float64
	AvgOrderValue     float64
	CommissionRate    float64
	MarketingFeeRate  float64
}

// SnapshotMarketing is the campaign block of a store.
type SnapshotMarketing struct {
	StoreID           string
	Orders            float64
	Sales             float64
	AvgROAS           float64
	MerchantDiscounts float64
	MarketingFees     float64
	TotalCost         float64
	ROI               float64
}

// SnapshotStore combines the blocks of one store. A nil block means the store
// had no rows in that extract.
type SnapshotStore struct {
	StoreID   string
	StoreName string
	Financial *SnapshotFinancial
	Marketing *SnapshotMarketing
	Sales     *SalesStore

	TotalSales          float64
	MarketingSales      float64
	OrganicSales        float64
	OrganicPercentage   float64
	MarketingPercentage float64
}

// SummaryRow is one line of a summary statistics table.
type SummaryRow struct {
	Metric string
	Value  float64
	Unit   string
}

// SnapshotAnalysis is the single-window store table with its source blocks.
type SnapshotAnalysis struct {
	Period    string
	Stores    []SnapshotStore
	Financial []SnapshotFinancial
	Marketing []SnapshotMarketing
	Sales     []SalesStore
}

// Snapshot builds the per-store table for one window, sorted by total sales
// descending then store id. Total sales are reconciled with policy.
func Snapshot(in PeriodInputs, policy Policy) SnapshotAnalysis {
	a := SnapshotAnalysis{
		Period:    in.Name,
		Financial: snapshotFinancial(in.Financial),
		Marketing: snapshotMarketing(in.Marketing),
		Sales:     SalesStorePerformance(in.Sales),
	}

	stores := make(map[string]*SnapshotStore)
	get := func(id string) *SnapshotStore {
		s, ok := stores[id]
		if !ok {
			s = &SnapshotStore{StoreID: id, StoreName: UnknownStore}
			stores[id] = s
		}
		return s
	}
	for i := range a.Financial {
		get(a.Financial[i].StoreID).Financial = &a.Financial[i]
	}
	for i := range a.Marketing {
		get(a.Marketing[i].StoreID).Marketing = &a.Marketing[i]
	}
	for i := range a.Sales {
		s := get(a.Sales[i].StoreID)
		s.Sales = &a.Sales[i]
		s.StoreName = a.Sales[i].StoreName
	}

	a.Stores = make([]SnapshotStore, 0, len(stores))
	for _, s := range stores {
		s.reconcile(policy)
		a.Stores = append(a.Stores, *s)
	}
	sort.Slice(a.Stores, func(i, j int) bool {
		if a.Stores[i].TotalSales != a.Stores[j].TotalSales {
			return a.Stores[i].TotalSales > a.Stores[j].TotalSales
		}
		return a.Stores[i].StoreID < a.Stores[j].StoreID
	})
	return a
}

func (s *SnapshotStore) reconcile(policy Policy) {
	var fin, gross float64
	if s.Financial != nil {
		fin = s.Financial.Sales
	}
	if s.Sales != nil {
		gross = s.Sales.GrossSales
	}
	switch policy {
	case PolicyFinancial:
		s.TotalSales = fin
		if s.Financial == nil {
			s.TotalSales = gross
		}
	case PolicySales:
		s.TotalSales = gross
		if s.Sales == nil {
			s.TotalSales = fin
		}
	default:
		s.TotalSales = max(fin, gross)
	}

	if s.Marketing != nil {
		s.MarketingSales = s.Marketing.Sales
	}
	if s.TotalSales > 0 {
		s.OrganicSales = s.TotalSales - s.MarketingSales
		s.OrganicPercentage = s.OrganicSales / s.TotalSales * 100
		s.MarketingPercentage = s.MarketingSales / s.TotalSales * 100
	}
}

// MarketingROI is the store's campaign ROI, 0 without campaigns.
func (s SnapshotStore) MarketingROI() float64 {
	if s.Marketing == nil {
		return 0
	}
	return s.Marketing.ROI
}

// MarketingCost is the store's campaign cost, 0 without campaigns.
func (s SnapshotStore) MarketingCost() float64 {
	if s.Marketing == nil {
		return 0
	}
	return s.Marketing.TotalCost
}

// SalesAOV is the mean AOV from the sales extract, 0 without sales rows.
func (s SnapshotStore) SalesAOV() float64 {
	if s.Sales == nil {
		return 0
	}
	return s.Sales.AvgAOV
}

// Summary returns the portfolio statistics of the snapshot. Averages run over
// every store, counting stores without campaigns or sales rows as 0.
func (a SnapshotAnalysis) Summary() []SummaryRow {
	return []SummaryRow{
		{Metric: "Total Stores", Value: float64(len(a.Stores)), Unit: "Stores"},
		{Metric: "Total Sales", Value: total(a.Stores, func(s SnapshotStore) float64 { return s.TotalSales }), Unit: "$"},
		{Metric: "Total Marketing Sales", Value: total(a.Stores, func(s SnapshotStore) float64 { return s.MarketingSales }), Unit: "$"},
		{Metric: "Total Organic Sales", Value: total(a.Stores, func(s SnapshotStore) float64 { return s.OrganicSales }), Unit: "$"},
		{Metric: "Total Marketing Cost", Value: total(a.Stores, SnapshotStore.MarketingCost), Unit: "$"},
		{Metric: "Average Marketing ROI", Value: mean(a.Stores, SnapshotStore.MarketingROI), Unit: "%"},
		{Metric: "Average Order Value", Value: mean(a.Stores, SnapshotStore.SalesAOV), Unit: "$"},
	}
}

// Top returns the first n stores by total sales.
func (a SnapshotAnalysis) Top(n int) []SnapshotStore {
	if n < 0 || n > len(a.Stores) {
		n = len(a.Stores)
	}
	return a.Stores[:n]
}

func snapshotFinancial(records []dataset.FinancialRecord) []SnapshotFinancial {
	groups := make(map[string][]dataset.FinancialRecord)
	for _, r := range dataset.Orders(records) {
		groups[r.StoreID] = append(groups[r.StoreID], r)
	}
	out := make([]SnapshotFinancial, 0, len(groups))
	for id, rows := range groups {
		f := FinancialSummary("", rows)
		out = append(out, SnapshotFinancial{
			StoreID:           id,
			Orders:            f.TotalOrders,
			Sales:             round2(f.TotalSubtotal),
			Commission:        round2(f.TotalCommission),
			NetPayout:         round2(f.TotalNetPayout),
			MarketingFees:     round2(f.TotalMarketingFees),
			MerchantDiscounts: round2(f.TotalCustomerDiscounts),
			PlatformDiscounts: round2(f.TotalPlatformDiscounts),
			AvgOrderValue:     round2(f.AvgOrderValue),
			CommissionRate:    round2(f.AvgCommissionRate),
			MarketingFeeRate:  round2(f.MarketingFeeRate),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}

func snapshotMarketing(records []dataset.MarketingRecord) []SnapshotMarketing {
	groups := make(map[string][]dataset.MarketingRecord)
	for _, r := range records {
		groups[r.StoreID] = append(groups[r.StoreID], r)
	}
	out := make([]SnapshotMarketing, 0, len(groups))
	for id, rows := range groups {
		m := SnapshotMarketing{
			StoreID:           id,
			Orders:            total(rows, func(r dataset.MarketingRecord) float64 { return r.Orders }),
			Sales:             round2(total(rows, func(r dataset.MarketingRecord) float64 { return r.Sales })),
			AvgROAS:           round2(mean(rows, func(r dataset.MarketingRecord) float64 { return r.ROAS })),
			MerchantDiscounts: round2(total(rows, func(r dataset.MarketingRecord) float64 { return r.MerchantDiscount })),
			MarketingFees:     round2(total(rows, func(r dataset.MarketingRecord) float64 { return r.MarketingFee })),
		}
		m.TotalCost = round2(m.MerchantDiscounts + m.MarketingFees)
		m.ROI = round2(roi(m.Sales, m.TotalCost))
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}
