package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/dataset"
)

var day = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func order(store string, subtotal float64) dataset.FinancialRecord {
	return dataset.FinancialRecord{
		Date:            day,
		StoreID:         store,
		TransactionType: "Order",
		Subtotal:        subtotal,
		Commission:      subtotal * 0.2,
		NetTotal:        subtotal * 0.7,
		MarketingFee:    1,
	}
}

func TestAggregateStores(t *testing.T) {
	in := PeriodInputs{
		Name: "Pre-TODC",
		Financial: []dataset.FinancialRecord{
			order("S1", 100),
			order("S1", 50),
			{Date: day, StoreID: "S1", TransactionType: "Adjustment", Subtotal: 999},
			order("S2", 40),
		},
		Sales: []dataset.SalesRecord{
			{Date: day, StoreID: "S1", StoreName: "Main St", GrossSales: 120, Orders: 3},
			{Date: day, StoreID: "S2", StoreName: "Elm", GrossSales: 90, Orders: 3},
		},
		Marketing: []dataset.MarketingRecord{
			{Date: day, StoreID: "S2", StoreName: "Elm Promo", Sales: 120, Orders: 2, MerchantDiscount: 4},
			{Date: day, StoreID: "S3", StoreName: "Oak", Sales: 10, Orders: 1},
		},
	}

	got := AggregateStores(in, PolicyMax)
	require.Len(t, got, 3)

	s1 := got[0]
	assert.Equal(t, "S1", s1.StoreID)
	assert.Equal(t, "Main St", s1.StoreName)
	assert.Equal(t, "financial", s1.SalesSource)
	assert.InDelta(t, 150, s1.OverallSales, 1e-9)
	assert.InDelta(t, 2, s1.TotalOrders, 1e-9)
	assert.InDelta(t, 75, s1.AvgOrderValue, 1e-9)
	assert.InDelta(t, 30, s1.TotalCommission, 1e-9)
	assert.InDelta(t, 20, s1.CommissionRate, 1e-9)
	assert.InDelta(t, 2, s1.MarketingSpend, 1e-9)
	assert.InDelta(t, 150, s1.OrganicSales, 1e-9)
	assert.InDelta(t, -100, s1.MarketingROI, 1e-9, "spend without campaign sales")

	s2 := got[1]
	assert.Equal(t, "sales", s2.SalesSource)
	assert.InDelta(t, 90, s2.OverallSales, 1e-9)
	assert.InDelta(t, 3, s2.TotalOrders, 1e-9)
	assert.InDelta(t, 30, s2.AvgOrderValue, 1e-9)
	assert.InDelta(t, 4, s2.MarketingSpend, 1e-9, "marketing discount replaces smaller financial spend")
	assert.InDelta(t, -30, s2.OrganicSales, 1e-9, "organic sales are never clamped")
	assert.InDelta(t, 2900, s2.MarketingROI, 1e-9)

	s3 := got[2]
	assert.Equal(t, "Oak", s3.StoreName)
	assert.Zero(t, s3.OverallSales)
	assert.Zero(t, s3.AvgOrderValue)
	assert.Zero(t, s3.MarketingPercentage)
}

func TestAggregateStoresPolicy(t *testing.T) {
	in := PeriodInputs{
		Financial: []dataset.FinancialRecord{order("S1", 200)},
		Sales: []dataset.SalesRecord{
			{Date: day, StoreID: "S1", GrossSales: 150, Orders: 5},
			{Date: day, StoreID: "S2", GrossSales: 80, Orders: 2},
		},
	}

	tests := []struct {
		policy Policy
		s1     float64
		s2     float64
	}{
		{PolicyMax, 200, 80},
		{PolicyFinancial, 200, 80},
		{PolicySales, 150, 80},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			got := AggregateStores(in, tt.policy)
			require.Len(t, got, 2)
			assert.InDelta(t, tt.s1, got[0].OverallSales, 1e-9)
			assert.InDelta(t, tt.s2, got[1].OverallSales, 1e-9)
			assert.Equal(t, UnknownStore, got[0].StoreName)
		})
	}
}

func TestAggregateStoresEmpty(t *testing.T) {
	in := PeriodInputs{Name: "Post-TODC"}
	assert.True(t, in.Empty())
	assert.Empty(t, AggregateStores(in, PolicyMax))
}

func TestSumAvoidsDrift(t *testing.T) {
	var s sum
	for i := 0; i < 10; i++ {
		s.add(0.1)
	}
	assert.Equal(t, 1.0, s.value())
}
