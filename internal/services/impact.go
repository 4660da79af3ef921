package services

import (
	"context"
	"log/slog"

	"storepulse/internal/analytics"
	"storepulse/internal/dataset"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/insights"
	"storepulse/internal/operations"
	"storepulse/internal/period"
	"storepulse/internal/report"
)

// Impact step ids, in run order.
const (
	StepFinancial   = "financial"
	StepCampaigns   = "campaigns"
	StepSalesStores = "sales_stores"
	StepYoY         = "yoy"
	StepROI         = "roi"
	StepWeekly      = "weekly"
	StepSelfServe   = "self_serve"
	StepStoreLevel  = "store_level"
	StepPortfolio   = "portfolio"
	StepAssemble    = "assemble"
)

// impactRun carries the slices shared by the impact analyses.
type impactRun struct {
	src  *dataset.Sources
	pre  dataset.YearData
	post dataset.YearData
}

// Impact runs the full pre/post and year-over-year analysis and writes the
// <label>_Analysis_Report workbook. Analyses are optional steps: a failing
// analysis only drops its sheets.
func (s *ReportService) Impact(ctx context.Context, opts Options) (*Result, error) {
	w := s.windows
	label := s.config.Analysis.ProcessLabel
	currentYear := w.Pre.Start.Year()
	baselineYear := w.BaselinePre.Start.Year()

	rpt := &report.ImpactReport{
		Label:        label,
		BaselineYear: baselineYear,
		CurrentYear:  currentYear,
	}
	shared := &impactRun{}

	// analysis wraps fn as an optional step that sees the sliced periods.
	analysis := func(id, name string, fn func(ctx context.Context, run *impactRun) error) operations.Step {
		return operations.Optional(id, name, func(ctx context.Context, state *operations.OperationState) error {
			if shared.src == nil {
				src, err := sources(state)
				if err != nil {
					return err
				}
				shared.src = src
				shared.pre = src.Current.Slice(w.Pre)
				shared.post = src.Current.Slice(w.Post)
			}
			return fn(ctx, shared)
		}, StepLoad)
	}

	financial := analysis(StepFinancial, "Financial metrics", func(ctx context.Context, run *impactRun) error {
		pre := analytics.FinancialSummary(w.Pre.Name, run.pre.Financial)
		post := analytics.FinancialSummary(w.Post.Name, run.post.Financial)
		if pre.Empty && post.Empty {
			return apperrors.NewNotFoundError("order transactions").
				WithContext("pre", w.Pre.String()).
				WithContext("post", w.Post.String())
		}
		if pre.Empty || post.Empty {
			s.logger.WarnContext(ctx, "one period has no order transactions",
				slog.Bool("pre_empty", pre.Empty),
				slog.Bool("post_empty", post.Empty))
		}
		rpt.Financial = analytics.CompareSummaries(pre, post)
		rpt.HasFinancial = true
		return nil
	})

	campaigns := analysis(StepCampaigns, "Marketing campaigns", func(ctx context.Context, run *impactRun) error {
		pre := analytics.CampaignPerformance(run.pre.Marketing)
		post := analytics.CampaignPerformance(run.post.Marketing)
		rpt.Campaigns = analytics.CompareCampaigns(pre, post)
		rpt.HasCampaigns = true
		s.logger.InfoContext(ctx, "campaigns compared",
			slog.Int("pre_campaigns", len(pre)),
			slog.Int("post_campaigns", len(post)),
			slog.Int("common", len(rpt.Campaigns)))
		return nil
	})

	salesStores := analysis(StepSalesStores, "Store performance", func(ctx context.Context, run *impactRun) error {
		pre := analytics.SalesStorePerformance(run.pre.Sales)
		post := analytics.SalesStorePerformance(run.post.Sales)
		rpt.SalesStores = analytics.CompareSalesStores(pre, post)
		rpt.HasSales = true
		return nil
	})

	yoy := analysis(StepYoY, "Year over year", func(ctx context.Context, run *impactRun) error {
		if run.src.Baseline.Empty() {
			return apperrors.NewNotFoundError("baseline extracts").WithContext("year", baselineYear)
		}
		pairs := []struct {
			current, baseline period.Period
		}{
			{w.Pre, w.BaselinePre},
			{w.Post, w.BaselinePost},
			{w.Overall, w.BaselineAll},
		}
		for _, p := range pairs {
			rpt.YoY = append(rpt.YoY, analytics.YearOverYear(p.current.Name,
				run.src.Baseline.Slice(p.baseline),
				run.src.Current.Slice(p.current)))
		}
		return nil
	})

	roi := analysis(StepROI, "Marketing ROI", func(ctx context.Context, run *impactRun) error {
		summary := analytics.MarketingROI(run.pre.Marketing, run.post.Marketing)
		rpt.ROI = &summary
		return nil
	})

	weekly := analysis(StepWeekly, "Weekly metrics", func(ctx context.Context, run *impactRun) error {
		buckets := period.Buckets(w.Overall, s.config.Periods.WeekDays)
		rpt.Weekly = analytics.Weekly(buckets, run.src.Current.Slice(w.Overall))
		return nil
	})

	selfServe := analysis(StepSelfServe, "Self-serve campaigns", func(ctx context.Context, run *impactRun) error {
		a := analytics.SelfServe(baselineYear, run.src.Baseline.Marketing, currentYear, run.src.Current.Marketing)
		rpt.SelfServe = &a
		return nil
	})

	storeLevel := analysis(StepStoreLevel, "Store-level metrics", func(ctx context.Context, run *impactRun) error {
		pre := analytics.StoreLevel(run.pre.Financial, run.pre.Marketing)
		post := analytics.StoreLevel(run.post.Financial, run.post.Marketing)
		rpt.StoreLevel, rpt.StoreTotals = analytics.CompareStoreLevel(pre, post)
		rpt.HasStoreLevel = true
		return nil
	})

	portfolio := analysis(StepPortfolio, "Portfolio insights", func(ctx context.Context, run *impactRun) error {
		windows := make(map[string]analytics.YoYWindow, len(rpt.YoY))
		for _, y := range rpt.YoY {
			windows[y.Window] = y
		}
		in := insights.PortfolioInputs{
			ROI:           rpt.ROI,
			YoY:           windows,
			PreWindow:     w.Pre.Name,
			PostWindow:    w.Post.Name,
			OverallWindow: w.Overall.Name,
		}
		if rpt.HasFinancial {
			in.Financial = rpt.Financial
		}
		p := insights.Portfolio(in, label)
		rpt.Portfolio = &p
		return nil
	})

	assemble := operations.Required(StepAssemble, "Assemble workbook", func(ctx context.Context, state *operations.OperationState) error {
		sheets := rpt.Sheets()
		if len(sheets) == 0 {
			return apperrors.NewValidationError("every impact analysis failed")
		}
		state.SetContext(keySheets, sheets)
		return nil
	}, StepLoad)

	steps := []operations.Step{
		s.validateStep(true),
		s.loadStep(currentYear, baselineYear, false),
		financial,
		campaigns,
		salesStores,
		yoy,
		roi,
		weekly,
		selfServe,
		storeLevel,
		portfolio,
		assemble,
		s.writeStep(report.ImpactPrefix(label), StepAssemble),
	}
	if opts.CSV {
		steps = append(steps, s.csvStep())
	}
	return finish(s.run(ctx, "impact", steps...))
}
