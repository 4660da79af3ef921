// Package analytics aggregates delivery extracts into per-store and portfolio
// metrics and compares them across periods.
package analytics

import (
	"github.com/shopspring/decimal"
)

// sum accumulates money amounts exactly and converts to float64 once, so
// totals over many cents-valued rows do not drift.
type sum struct {
	d decimal.Decimal
}

func (s *sum) add(v float64) {
	s.d = s.d.Add(decimal.NewFromFloat(v))
}

func (s sum) value() float64 {
	return s.d.InexactFloat64()
}

// total sums f over items.
func total[T any](items []T, f func(T) float64) float64 {
	var s sum
	for _, it := range items {
		s.add(f(it))
	}
	return s.value()
}

// mean averages f over items; an empty slice averages to 0.
func mean[T any](items []T, f func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return decimal.NewFromFloat(total(items, f)).
		Div(decimal.NewFromInt(int64(len(items)))).
		InexactFloat64()
}

// ratio returns num/den, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// percentOf returns num/den*100 when den is positive, else 0.
func percentOf(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den * 100
}

// roi is the return on spend in percent, 0 without spend.
func roi(revenue, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (revenue - cost) / cost * 100
}

// round2 rounds half away from zero to cents.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
