package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChange(t *testing.T) {
	tests := []struct {
		name        string
		pre, post   float64
		wantDelta   float64
		wantPercent float64
		zero        bool
	}{
		{"growth", 1000, 1500, 500, 50, false},
		{"decline", 200, 150, -50, -25, false},
		{"zero baseline", 0, 75, 75, 0, true},
		{"both zero", 0, 0, 0, 0, false},
		{"negative baseline", -100, -50, 50, -50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChange(tt.pre, tt.post)
			assert.Equal(t, tt.post-tt.pre, c.Delta)
			assert.InDelta(t, tt.wantDelta, c.Delta, 1e-9)
			assert.InDelta(t, tt.wantPercent, c.Percent, 1e-9)
			assert.Equal(t, tt.zero, c.ZeroBaseline())
		})
	}
}

func TestCompare(t *testing.T) {
	got := Compare(map[string]float64{"b": 2, "a": 4}, map[string]float64{"a": 5, "c": 1})
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Key)
	assert.InDelta(t, 25, got[0].Percent, 1e-9)
	assert.Equal(t, "b", got[1].Key)
	assert.InDelta(t, -2, got[1].Delta, 1e-9)
	assert.Equal(t, "c", got[2].Key)
	assert.Zero(t, got[2].Percent)
}

func TestGrowth(t *testing.T) {
	pre := []StoreMetrics{
		{StoreID: "A", StoreName: "Store A", OverallSales: 1000, TotalOrders: 10, AvgOrderValue: 100, MarketingROI: 40},
		{StoreID: "C", StoreName: "Store C", OverallSales: 300, TotalOrders: 3},
	}
	post := []StoreMetrics{
		{StoreID: "A", StoreName: "Store A", OverallSales: 1500, TotalOrders: 12, AvgOrderValue: 125, MarketingROI: 25},
		{StoreID: "B", StoreName: "Store B", OverallSales: 200, TotalOrders: 4},
	}

	got := Growth(pre, post)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].StoreID, got[1].StoreID, got[2].StoreID})

	a := got[0]
	sales := a.Get(MetricOverallSales)
	assert.InDelta(t, 500, sales.Delta, 1e-9)
	assert.InDelta(t, 50, a.SalesGrowth(), 1e-9)
	assert.InDelta(t, 20, a.Get(MetricTotalOrders).Percent, 1e-9)
	assert.InDelta(t, -15, a.ROIDelta(), 1e-9)

	b := got[1]
	assert.Equal(t, "Store B", b.StoreName)
	assert.Zero(t, b.Get(MetricOverallSales).Pre)
	assert.Zero(t, b.SalesGrowth())
	assert.True(t, b.Get(MetricOverallSales).ZeroBaseline())

	c := got[2]
	assert.InDelta(t, -100, c.SalesGrowth(), 1e-9)
	assert.InDelta(t, -300, c.Get(MetricOverallSales).Delta, 1e-9)

	for _, g := range got {
		for _, metric := range append(GrowthMetrics, RateMetrics...) {
			ch := g.Get(metric)
			assert.Equal(t, ch.Post-ch.Pre, ch.Delta, "%s %s", g.StoreID, metric)
		}
	}
}
