package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/config"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/period"
)

const financialCSV = `Timestamp UTC date,Store ID,Transaction type,Subtotal,Commission,Marketing fees | (including any applicable taxes),Customer discounts from marketing | (funded by you),Customer discounts from marketing | (funded by DoorDash),Net total
2025-05-10,101,Order,"1,000.00",-150.00,10,20,5,820
2025-05-11 09:30:00,101,Adjustment,0,0,0,0,0,-12
,101,Order,50,-5,0,0,0,45
2025-07-10,102,Order,$250.00,(25.00),0,0,0,225

`

const marketingCSV = `Date,Store ID,Store name,Campaign name,Is self serve campaign,Orders,Sales,ROAS,Customer discounts from marketing | (Funded by you),Marketing fees | (including any applicable taxes),New customers acquired,Total customers acquired
2025-05-12,101,Downtown,Summer BOGO,TRUE,4,200,5.5,15,5,2,3
2025-07-12,102,Airport,Corporate,FALSE,1,50,2,0,0,0,1
`

const salesCSV = `Start Date,End Date,Store ID,Store Name,Gross Sales,Total Delivered or Picked Up Orders,AOV,Total Commission
5/9/2025,5/15/2025,101,Downtown,1200,11,109.09,180
7/9/2025,7/15/2025,102,Airport,300,3,100,30
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

type rowCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *rowCounter) RecordRows(_ context.Context, source, year string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[source+"/"+year] += n
}

func TestLoadFinancial(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fin.csv", financialCSV)

	records, err := NewLoader(nil, nil, nil).LoadFinancial(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 3, "row without a date is skipped")

	first := records[0]
	assert.Equal(t, "101", first.StoreID)
	assert.True(t, first.IsOrder())
	assert.Equal(t, 1000.0, first.Subtotal)
	assert.Equal(t, 150.0, first.Commission, "commission is stored positive")
	assert.Equal(t, 10.0, first.MarketingFee)
	assert.Equal(t, 20.0, first.MerchantDiscount)
	assert.Equal(t, 5.0, first.PlatformDiscount)
	assert.Equal(t, 820.0, first.NetTotal)

	assert.False(t, records[1].IsOrder())
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), records[1].Date)
	assert.Equal(t, 25.0, records[2].Commission)
	assert.Len(t, Orders(records), 2)
}

func TestLoadFinancial_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(nil, nil, nil)

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFinancial(context.Background(), filepath.Join(dir, "absent.csv"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeFile(t, dir, "nostore.csv", "Timestamp UTC date,Transaction type\n2025-05-10,Order\n")
		_, err := loader.LoadFinancial(context.Background(), path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		assert.Contains(t, err.Error(), "file=nostore.csv")
	})

	t.Run("bad number", func(t *testing.T) {
		path := writeFile(t, dir, "badnum.csv", "Payout date,Store ID,Transaction type,Subtotal\n2025-05-10,1,Order,12\n2025-05-11,1,Order,twelve\n")
		_, err := loader.LoadFinancial(context.Background(), path)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
		assert.Contains(t, err.Error(), "column=Subtotal")
		assert.Contains(t, err.Error(), "row=3")
	})

	t.Run("bad date", func(t *testing.T) {
		path := writeFile(t, dir, "baddate.csv", "Payout date,Store ID,Transaction type\nsoon,1,Order\n")
		_, err := loader.LoadFinancial(context.Background(), path)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.csv", "")
		_, err := loader.LoadFinancial(context.Background(), path)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})
}

func TestLoadMarketing(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mkt.csv", marketingCSV)

	records, err := NewLoader(nil, nil, nil).LoadMarketing(context.Background(), path, SourcePromotion)
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "Downtown", r.StoreName)
	assert.Equal(t, "Summer BOGO", r.Campaign)
	assert.True(t, r.SelfServe)
	assert.Equal(t, 4.0, r.Orders)
	assert.Equal(t, 200.0, r.Sales)
	assert.Equal(t, 5.5, r.ROAS)
	assert.Equal(t, 15.0, r.MerchantDiscount)
	assert.Equal(t, 20.0, r.Cost())
	assert.Equal(t, 0.0, r.NewDPCustomers, "optional column absent")
	assert.Equal(t, SourcePromotion, r.Source)
	assert.Len(t, SelfServe(records), 1)
}

func TestLoadSales_SchemaOverride(t *testing.T) {
	body := strings.Replace(salesCSV, "Gross Sales", "Gross Sales (USD)", 1)
	path := writeFile(t, t.TempDir(), "sales.csv", body)

	overrides := map[string]map[string][]string{
		"sales": {"gross_sales": {"Gross Sales (USD)"}},
	}
	records, err := NewLoader(nil, overrides, nil).LoadSales(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1200.0, records[0].GrossSales)
	assert.Equal(t, 11.0, records[0].Orders)
	assert.Equal(t, "Downtown", records[0].StoreName)
	assert.Equal(t, time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC), records[0].Date)
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	paths := &config.Paths{
		Financial: config.SourceFiles{Current: writeFile(t, dir, "fin25.csv", financialCSV), Baseline: filepath.Join(dir, "fin24.csv")},
		Marketing: config.SourceFiles{Current: writeFile(t, dir, "mkt25.csv", marketingCSV)},
		Sponsored: config.SourceFiles{Current: writeFile(t, dir, "sp25.csv", "Date,Store ID,Orders,Sales\n2025-05-20,103,2,40\n")},
		Sales:     config.SourceFiles{Current: writeFile(t, dir, "sales25.csv", salesCSV), Baseline: writeFile(t, dir, "sales24.csv", salesCSV)},
	}
	rows := &rowCounter{}

	src, err := NewLoader(nil, nil, rows).LoadSources(context.Background(), Request{
		Paths: paths, CurrentYear: 2025, BaselineYear: 2024, WithSponsored: true,
	})
	require.NoError(t, err)

	assert.Len(t, src.Current.Financial, 3)
	require.Len(t, src.Current.Marketing, 3)
	assert.Equal(t, SourceSponsored, src.Current.Marketing[2].Source)
	assert.Equal(t, 0.0, src.Current.Marketing[2].MerchantDiscount)
	assert.Len(t, Promotions(src.Current.Marketing), 2)
	assert.Empty(t, src.Baseline.Financial, "missing baseline is tolerated")
	assert.Len(t, src.Baseline.Sales, 2)
	assert.Equal(t, 2024, src.Baseline.Year)

	assert.Equal(t, 3, rows.counts["financial/2025"])
	assert.Equal(t, 1, rows.counts["sponsored/2025"])
	assert.Equal(t, 2, rows.counts["sales/2024"])
}

func TestLoadSources_PromotionsOnly(t *testing.T) {
	dir := t.TempDir()
	paths := &config.Paths{
		Financial: config.SourceFiles{Current: writeFile(t, dir, "fin25.csv", financialCSV)},
		Marketing: config.SourceFiles{Current: writeFile(t, dir, "mkt25.csv", marketingCSV)},
		Sponsored: config.SourceFiles{Current: writeFile(t, dir, "sp25.csv", "Date,Store ID,Orders,Sales\n2025-05-20,103,2,40\n")},
		Sales:     config.SourceFiles{Current: writeFile(t, dir, "sales25.csv", salesCSV)},
	}
	rows := &rowCounter{}

	src, err := NewLoader(nil, nil, rows).LoadSources(context.Background(), Request{
		Paths: paths, CurrentYear: 2025, SkipBaseline: true,
	})
	require.NoError(t, err)
	assert.Len(t, src.Current.Marketing, 2)
	assert.Equal(t, src.Current.Marketing, Promotions(src.Current.Marketing))
	_, loaded := rows.counts["sponsored/2025"]
	assert.False(t, loaded)
}

func TestLoadSources_RequiredMissing(t *testing.T) {
	dir := t.TempDir()
	paths := &config.Paths{
		Financial: config.SourceFiles{Current: filepath.Join(dir, "absent.csv")},
		Marketing: config.SourceFiles{Current: writeFile(t, dir, "mkt.csv", marketingCSV)},
		Sales:     config.SourceFiles{Current: writeFile(t, dir, "sales.csv", salesCSV)},
	}

	_, err := NewLoader(nil, nil, nil).LoadSources(context.Background(), Request{Paths: paths, SkipBaseline: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	paths.Sales.Current = ""
	_, err = NewLoader(nil, nil, nil).LoadSources(context.Background(), Request{Paths: paths, SkipBaseline: true})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestYearData_Slice(t *testing.T) {
	path := writeFile(t, t.TempDir(), "fin.csv", financialCSV)
	fin, err := NewLoader(nil, nil, nil).LoadFinancial(context.Background(), path)
	require.NoError(t, err)

	d := YearData{Year: 2025, Financial: fin}
	pre := d.Slice(period.MustNew("Pre", "2025-05-09", "2025-07-08"))
	post := d.Slice(period.MustNew("Post", "2025-07-09", "2025-09-08"))

	assert.Len(t, pre.Financial, 2)
	assert.Len(t, post.Financial, 1)
	assert.False(t, pre.Empty())
	assert.True(t, YearData{}.Empty())
}
