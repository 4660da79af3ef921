package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"storepulse/internal/config"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/exporter"
	"storepulse/internal/infrastructure"
	"storepulse/internal/operations"
	"storepulse/internal/report"
)

const financialHeader = "Timestamp UTC date,Store ID,Transaction type,Subtotal,Commission," +
	"Marketing fees | (including any applicable taxes)," +
	"Customer discounts from marketing | (funded by you)," +
	"Customer discounts from marketing | (funded by DoorDash),Net total\n"

const marketingHeader = "Date,Store ID,Store name,Campaign name,Is self serve campaign,Orders,Sales,ROAS," +
	"Customer discounts from marketing | (Funded by you)," +
	"Marketing fees | (including any applicable taxes)," +
	"New customers acquired,Total customers acquired\n"

const salesHeader = "Start Date,End Date,Store ID,Store Name,Gross Sales," +
	"Total Delivered or Picked Up Orders,AOV,Total Commission\n"

var currentExtracts = map[string]string{
	"data/FINANCIAL_DETAILED_TRANSACTIONS_2025.csv": financialHeader +
		"2025-05-10,101,Order,1000,-150,10,20,5,820\n" +
		"2025-05-20,102,Order,400,-60,0,10,0,330\n" +
		"2025-08-05,101,Order,1500,-200,15,30,5,1250\n" +
		"2025-08-06,102,Order,300,-45,0,0,0,255\n",
	"data/MARKETING_PROMOTION_2025.csv": marketingHeader +
		"2025-05-12,101,Downtown,Summer BOGO,TRUE,4,200,5.5,15,5,2,3\n" +
		"2025-08-12,101,Downtown,Summer BOGO,TRUE,6,360,6,20,5,3,4\n" +
		"2025-08-14,102,Airport,Corporate,FALSE,1,50,2,0,0,0,1\n",
	"data/SALES_viewByTime_byStore_2025.csv": salesHeader +
		"5/9/2025,5/15/2025,101,Downtown,1000,10,100,150\n" +
		"5/9/2025,5/15/2025,102,Airport,400,4,100,60\n" +
		"8/4/2025,8/10/2025,101,Downtown,1500,12,125,200\n" +
		"8/4/2025,8/10/2025,102,Airport,300,3,100,45\n",
}

var baselineExtracts = map[string]string{
	"data/FINANCIAL_DETAILED_TRANSACTIONS_2024.csv": financialHeader +
		"2024-05-10,101,Order,800,-120,0,10,0,670\n" +
		"2024-08-05,101,Order,900,-130,0,10,0,760\n",
	"data/MARKETING_PROMOTION_2024.csv": marketingHeader +
		"2024-05-12,101,Downtown,Summer BOGO,TRUE,2,100,4,10,5,1,2\n",
	"data/SALES_viewByTime_byStore_2024.csv": salesHeader +
		"5/9/2024,5/15/2024,101,Downtown,800,8,100,120\n" +
		"8/4/2024,8/10/2024,101,Downtown,900,9,100,130\n",
}

var sponsoredExtract = map[string]string{
	"data/MARKETING_SPONSORED_LISTING_2025.csv": "Date,Store ID,Store name,Orders,Sales\n" +
		"2025-05-20,101,Downtown,50,5000\n" +
		"2025-08-20,102,Airport,30,2400\n",
}

var fixedNow = time.Date(2025, 9, 10, 14, 22, 33, 0, time.Local)

func writeExtracts(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func newTestService(t *testing.T, dir string, telemetry *infrastructure.Telemetry) *ReportService {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = dir
	cfg.Logging.FilePath = ""

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	svc, err := NewReportService(cfg, paths, telemetry, infrastructure.NewLogger(io.Discard, "error"))
	require.NoError(t, err)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sheetList(t *testing.T, path string) []string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	return f.GetSheetList()
}

func sheetRows(t *testing.T, path string) map[string][][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	out := make(map[string][][]string)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		require.NoError(t, err)
		out[name] = rows
	}
	return out
}

func ctxWithRun() context.Context {
	return infrastructure.WithRunID(context.Background(), "run-test")
}

func TestStoreWise(t *testing.T) {
	dir := t.TempDir()
	writeExtracts(t, dir, currentExtracts)

	telemetry, err := infrastructure.NewTelemetry(config.TelemetryConfig{ServiceName: "storepulse-test"}, nil)
	require.NoError(t, err)
	defer telemetry.Shutdown(context.Background())

	svc := newTestService(t, dir, telemetry)
	res, err := svc.StoreWise(ctxWithRun(), Options{Insights: true, CSV: true})
	require.NoError(t, err)

	assert.Equal(t, operations.OperationStatusCompleted, res.Status)
	assert.NoError(t, res.Failures)
	assert.Equal(t, "Store_Wise_Analysis_20250910_142233.xlsx", filepath.Base(res.Workbook))

	layout := report.StoreWiseSheets("TODC", 10)
	assert.Equal(t, layout.Names(), sheetList(t, res.Workbook))

	require.Len(t, res.Insights, 2)
	md, err := os.ReadFile(res.Insights[0])
	require.NoError(t, err)
	assert.Equal(t, "insights.md", filepath.Base(res.Insights[0]))
	assert.Contains(t, string(md), "Store 101 - Downtown")
	assert.Contains(t, string(md), "Store 102 - Airport")

	page, err := os.Open(res.Insights[1])
	require.NoError(t, err)
	defer page.Close()
	doc, err := goquery.NewDocumentFromReader(page)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("title").Text(), "TODC")

	assert.Len(t, res.CSV, len(layout.Names()))
	for _, p := range res.CSV {
		assert.Equal(t, exporter.SheetDir(res.Workbook), filepath.Dir(p))
	}

	families, err := telemetry.Registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "storepulse_steps_total")
	assert.Contains(t, names, "storepulse_step_duration_seconds")
}

func TestStoreWiseMissingRequiredExtract(t *testing.T) {
	dir := t.TempDir()
	writeExtracts(t, dir, currentExtracts)
	require.NoError(t, os.Remove(filepath.Join(dir, "data/SALES_viewByTime_byStore_2025.csv")))

	res, err := newTestService(t, dir, nil).StoreWise(ctxWithRun(), Options{})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, operations.OperationStatusFailed, res.Status)
	assert.Empty(t, res.Workbook)
	assert.Contains(t, err.Error(), "sales")
}

func TestImpact(t *testing.T) {
	tests := []struct {
		name       string
		baseline   bool
		wantStatus operations.OperationStatusValue
		wantYoY    bool
	}{
		{"with baseline", true, operations.OperationStatusCompleted, true},
		{"without baseline", false, operations.OperationStatusPartial, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeExtracts(t, dir, currentExtracts)
			if tt.baseline {
				writeExtracts(t, dir, baselineExtracts)
			}

			res, err := newTestService(t, dir, nil).Impact(ctxWithRun(), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, "TODC_Analysis_Report_20250910_142233.xlsx", filepath.Base(res.Workbook))

			sheets := sheetList(t, res.Workbook)
			assert.Contains(t, sheets, report.SheetFinancialAnalysis)
			assert.Contains(t, sheets, report.SheetWeekly)
			assert.Contains(t, sheets, report.SheetStoreLevelMetrics)
			assert.Contains(t, sheets, report.SheetInsightsRecommendations)
			if tt.wantYoY {
				assert.Contains(t, sheets, report.SheetYearOverYear)
				assert.NoError(t, res.Failures)
			} else {
				assert.NotContains(t, sheets, report.SheetYearOverYear)
				require.Error(t, res.Failures)
				assert.True(t, apperrors.IsType(res.Failures, apperrors.ErrTypeNotFound))
			}
		})
	}
}

func TestSponsoredListingsScope(t *testing.T) {
	tests := []struct {
		name          string
		run           func(*ReportService) (*Result, error)
		sheets        []string
		wantDifferent bool
	}{
		{
			name: "impact uses promotions only",
			run:  func(s *ReportService) (*Result, error) { return s.Impact(ctxWithRun(), Options{}) },
			sheets: []string{
				report.SheetYearOverYear,
				report.SheetMarketingROI,
				report.SheetWeekly,
				report.SheetSelfServeSummary,
				report.SheetStoreLevelMetrics,
				report.SheetInsightsRecommendations,
			},
		},
		{
			name:   "snapshot uses promotions only",
			run:    func(s *ReportService) (*Result, error) { return s.Snapshot(ctxWithRun(), Options{}) },
			sheets: report.SnapshotSheets(20).Names(),
		},
		{
			name:          "store-wise counts sponsored listings",
			run:           func(s *ReportService) (*Result, error) { return s.StoreWise(ctxWithRun(), Options{}) },
			sheets:        report.StoreWiseSheets("TODC", 10).Names(),
			wantDifferent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain := t.TempDir()
			writeExtracts(t, plain, currentExtracts)
			writeExtracts(t, plain, baselineExtracts)

			withSponsored := t.TempDir()
			writeExtracts(t, withSponsored, currentExtracts)
			writeExtracts(t, withSponsored, baselineExtracts)
			writeExtracts(t, withSponsored, sponsoredExtract)

			want, err := tt.run(newTestService(t, plain, nil))
			require.NoError(t, err)
			got, err := tt.run(newTestService(t, withSponsored, nil))
			require.NoError(t, err)

			wantRows := sheetRows(t, want.Workbook)
			gotRows := sheetRows(t, got.Workbook)
			same := true
			for _, name := range tt.sheets {
				require.Contains(t, gotRows, name)
				if tt.wantDifferent {
					same = same && assert.ObjectsAreEqual(wantRows[name], gotRows[name])
					continue
				}
				assert.Equal(t, wantRows[name], gotRows[name], name)
			}
			if tt.wantDifferent {
				assert.False(t, same, "sponsored listings should change the store-wise metrics")
			}
		})
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeExtracts(t, dir, currentExtracts)

	res, err := newTestService(t, dir, nil).Snapshot(ctxWithRun(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "August_2025_Store_Analysis_20250910_142233.xlsx", filepath.Base(res.Workbook))
	assert.Equal(t, report.SnapshotSheets(20).Names(), sheetList(t, res.Workbook))
}

func TestExtractInsights(t *testing.T) {
	dir := t.TempDir()
	writeExtracts(t, dir, currentExtracts)
	svc := newTestService(t, dir, nil)

	written, err := svc.StoreWise(ctxWithRun(), Options{})
	require.NoError(t, err)
	assert.Empty(t, written.Insights)

	t.Run("newest workbook", func(t *testing.T) {
		res, err := svc.ExtractInsights(ctxWithRun(), "")
		require.NoError(t, err)
		assert.Equal(t, written.Workbook, res.Workbook)
		require.Len(t, res.Insights, 2)

		md, err := os.ReadFile(res.Insights[0])
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(md), "# Store-wise Analysis Insights"))
		assert.Contains(t, string(md), "Store 102 - Airport")
	})

	t.Run("explicit path", func(t *testing.T) {
		res, err := svc.ExtractInsights(ctxWithRun(), written.Workbook)
		require.NoError(t, err)
		assert.Equal(t, written.Workbook, res.Workbook)
	})

	t.Run("not an xlsx", func(t *testing.T) {
		_, err := svc.ExtractInsights(ctxWithRun(), filepath.Join(dir, "data/MARKETING_PROMOTION_2025.csv"))
		assert.Error(t, err)
	})
}

func TestExtractInsightsWithoutWorkbook(t *testing.T) {
	res, err := newTestService(t, t.TempDir(), nil).ExtractInsights(ctxWithRun(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Equal(t, operations.OperationStatusFailed, res.Status)
}

func TestNewReportServiceRejectsBadPeriods(t *testing.T) {
	cfg := config.Default()
	cfg.Periods.Pre = config.DateRange{Start: "2025-07-08", End: "2025-05-09"}
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	_, err = NewReportService(cfg, paths, nil, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}
