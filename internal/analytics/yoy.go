package analytics

import (
	"storepulse/internal/dataset"
)

// YoY source labels.
const (
	YoYFinancial = "Financial"
	YoYMarketing = "Marketing"
	YoYSales     = "Sales"
)

// YoYSources lists the sources compared year over year, in report order.
var YoYSources = []string{YoYFinancial, YoYMarketing, YoYSales}

// YoYMetrics compares orders and sales of one source between two years.
type YoYMetrics struct {
	Source string
	Orders Change
	Sales  Change
}

// YoYWindow is the year-over-year comparison of one window, e.g. the pre
// period of both years.
type YoYWindow struct {
	Window  string
	Sources []YoYMetrics
}

// Source returns the metrics of the named source.
func (w YoYWindow) Source(name string) (YoYMetrics, bool) {
	for _, m := range w.Sources {
		if m.Source == name {
			return m, true
		}
	}
	return YoYMetrics{}, false
}

// YearOverYear compares baseline and current data of one window for the
// financial, marketing and sales extracts. Financial orders count order
// transactions and financial sales sum their subtotal. Growth needs a positive
// baseline.
func YearOverYear(window string, baseline, current dataset.YearData) YoYWindow {
	bfo, bfs := financialVolume(baseline.Financial)
	cfo, cfs := financialVolume(current.Financial)
	bmo, bms := marketingVolume(baseline.Marketing)
	cmo, cms := marketingVolume(current.Marketing)
	bso, bss := salesVolume(baseline.Sales)
	cso, css := salesVolume(current.Sales)

	return YoYWindow{
		Window: window,
		Sources: []YoYMetrics{
			{Source: YoYFinancial, Orders: positiveChange(bfo, cfo), Sales: positiveChange(bfs, cfs)},
			{Source: YoYMarketing, Orders: positiveChange(bmo, cmo), Sales: positiveChange(bms, cms)},
			{Source: YoYSales, Orders: positiveChange(bso, cso), Sales: positiveChange(bss, css)},
		},
	}
}

func financialVolume(records []dataset.FinancialRecord) (orders, sales float64) {
	o := dataset.Orders(records)
	return float64(len(o)), total(o, func(r dataset.FinancialRecord) float64 { return r.Subtotal })
}

func marketingVolume(records []dataset.MarketingRecord) (orders, sales float64) {
	return total(records, func(r dataset.MarketingRecord) float64 { return r.Orders }),
		total(records, func(r dataset.MarketingRecord) float64 { return r.Sales })
}

func salesVolume(records []dataset.SalesRecord) (orders, sales float64) {
	return total(records, func(r dataset.SalesRecord) float64 { return r.Orders }),
		total(records, func(r dataset.SalesRecord) float64 { return r.GrossSales })
}
