package analytics

import (
	"sort"

	"storepulse/internal/dataset"
)

// Policy decides which extract supplies a store's total sales when the
// financial subtotal and the sales-table gross disagree.
type Policy string

const (
	// PolicyMax takes the sales table, with its order count, when its gross
	// is larger than the financial subtotal.
	PolicyMax Policy = "max"
	// PolicyFinancial uses the financial extract, falling back to the sales
	// table for stores without financial orders.
	PolicyFinancial Policy = "financial"
	// PolicySales uses the sales table for any store it covers.
	PolicySales Policy = "sales"
)

// UnknownStore is the display name of a store no extract names.
const UnknownStore = "Unknown"

// StoreMetrics is the aggregate of one store over one period.
type StoreMetrics struct {
	StoreID              string
	StoreName            string
	Period               string
	OverallSales         float64
	TotalOrders          float64
	AvgOrderValue        float64
	TotalCommission      float64
	NetPayout            float64
	MarketingFees        float64
	MerchantDiscounts    float64
	PlatformDiscounts    float64
	CommissionRate       float64
	MarketingFeeRate     float64
	MarketingDrivenSales float64
	MarketingOrders      float64
	MarketingSpend       float64
	OrganicSales         float64
	MarketingPercentage  float64
	OrganicPercentage    float64
	MarketingROI         float64
	// SalesSource names the extract Overall_Sales came from.
	SalesSource string
}

// PeriodInputs are the records of one period.
type PeriodInputs struct {
	Name      string
	Financial []dataset.FinancialRecord
	Marketing []dataset.MarketingRecord
	Sales     []dataset.SalesRecord
}

// InputsFrom names a period slice of year data.
func InputsFrom(name string, d dataset.YearData) PeriodInputs {
	return PeriodInputs{Name: name, Financial: d.Financial, Marketing: d.Marketing, Sales: d.Sales}
}

// Empty reports whether the period has no records.
func (in PeriodInputs) Empty() bool {
	return len(in.Financial) == 0 && len(in.Marketing) == 0 && len(in.Sales) == 0
}

type storeAcc struct {
	id   string
	name string

	orders     int
	subtotal   sum
	commission sum
	net        sum
	fees       sum
	merchant   sum
	platform   sum

	salesRows   int
	gross       sum
	salesOrders sum

	mktRows     int
	mktSales    sum
	mktOrders   sum
	mktDiscount sum
	mktName     string
}

func groupStores(in PeriodInputs) map[string]*storeAcc {
	stores := make(map[string]*storeAcc)
	get := func(id string) *storeAcc {
		a, ok := stores[id]
		if !ok {
			a = &storeAcc{id: id}
			stores[id] = a
		}
		return a
	}

	for _, r := range in.Financial {
		if !r.IsOrder() {
			continue
		}
		a := get(r.StoreID)
		a.orders++
		a.subtotal.add(r.Subtotal)
		a.commission.add(r.Commission)
		a.net.add(r.NetTotal)
		a.fees.add(r.MarketingFee)
		a.merchant.add(r.MerchantDiscount)
		a.platform.add(r.PlatformDiscount)
	}
	for _, r := range in.Sales {
		a := get(r.StoreID)
		a.salesRows++
		a.gross.add(r.GrossSales)
		a.salesOrders.add(r.Orders)
		if a.name == "" && r.StoreName != "" {
			a.name = r.StoreName
		}
	}
	for _, r := range in.Marketing {
		a := get(r.StoreID)
		a.mktRows++
		a.mktSales.add(r.Sales)
		a.mktOrders.add(r.Orders)
		a.mktDiscount.add(r.MerchantDiscount)
		if a.mktName == "" && r.StoreName != "" {
			a.mktName = r.StoreName
		}
	}
	return stores
}

// AggregateStores computes one StoreMetrics per store seen in any extract of
// the period, sorted by store id.
func AggregateStores(in PeriodInputs, policy Policy) []StoreMetrics {
	stores := groupStores(in)
	out := make([]StoreMetrics, 0, len(stores))
	for _, a := range stores {
		out = append(out, a.metrics(in.Name, policy))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out
}

func (a *storeAcc) metrics(periodName string, policy Policy) StoreMetrics {
	m := StoreMetrics{
		StoreID:           a.id,
		StoreName:         a.name,
		Period:            periodName,
		OverallSales:      a.subtotal.value(),
		TotalOrders:       float64(a.orders),
		TotalCommission:   a.commission.value(),
		NetPayout:         a.net.value(),
		MarketingFees:     a.fees.value(),
		MerchantDiscounts: a.merchant.value(),
		PlatformDiscounts: a.platform.value(),
		SalesSource:       "financial",
	}
	if m.StoreName == "" {
		m.StoreName = a.mktName
	}
	if m.StoreName == "" {
		m.StoreName = UnknownStore
	}

	financialSubtotal := m.OverallSales
	m.CommissionRate = percentOf(m.TotalCommission, financialSubtotal)
	m.MarketingFeeRate = percentOf(m.MarketingFees, financialSubtotal)

	if a.salesRows > 0 {
		gross := a.gross.value()
		useSales := false
		switch policy {
		case PolicySales:
			useSales = true
		case PolicyFinancial:
			useSales = a.orders == 0
		default:
			useSales = gross > m.OverallSales
		}
		if useSales {
			m.OverallSales = gross
			m.TotalOrders = a.salesOrders.value()
			m.SalesSource = "sales"
		}
	}
	m.AvgOrderValue = ratio(m.OverallSales, m.TotalOrders)

	m.MarketingSpend = m.MarketingFees + m.MerchantDiscounts
	if a.mktRows > 0 {
		m.MarketingDrivenSales = a.mktSales.value()
		m.MarketingOrders = a.mktOrders.value()
		if d := a.mktDiscount.value(); d > m.MarketingSpend {
			m.MarketingSpend = d
		}
	}

	m.OrganicSales = m.OverallSales - m.MarketingDrivenSales
	if m.OverallSales > 0 {
		m.MarketingPercentage = m.MarketingDrivenSales / m.OverallSales * 100
		m.OrganicPercentage = m.OrganicSales / m.OverallSales * 100
	}
	m.MarketingROI = roi(m.MarketingDrivenSales, m.MarketingSpend)
	return m
}

// MetricValues flattens the comparable metrics of m keyed by their report
// column name.
func (m StoreMetrics) MetricValues() map[string]float64 {
	return map[string]float64{
		MetricOverallSales:         m.OverallSales,
		MetricTotalOrders:          m.TotalOrders,
		MetricMarketingDrivenSales: m.MarketingDrivenSales,
		MetricOrganicSales:         m.OrganicSales,
		MetricMarketingSpend:       m.MarketingSpend,
		MetricNetPayout:            m.NetPayout,
		MetricAvgOrderValue:        m.AvgOrderValue,
		MetricMarketingROI:         m.MarketingROI,
		MetricMarketingPercentage:  m.MarketingPercentage,
		MetricOrganicPercentage:    m.OrganicPercentage,
		MetricTotalCommission:      m.TotalCommission,
		MetricMarketingOrders:      m.MarketingOrders,
	}
}
