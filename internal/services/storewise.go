package services

import (
	"context"
	"log/slog"

	"storepulse/internal/analytics"
	"storepulse/internal/infrastructure"
	"storepulse/internal/insights"
	"storepulse/internal/operations"
	"storepulse/internal/report"
)

// Store-wise step ids.
const (
	StepAggregate = "aggregate"
	StepCompare   = "compare"
	StepInsights  = "insights"
)

const (
	keyPre    = "pre_metrics"
	keyPost   = "post_metrics"
	keyGrowth = "growth"
)

// StoreWise compares every store between the pre and post windows and writes
// the Store_Wise_Analysis workbook.
func (s *ReportService) StoreWise(ctx context.Context, opts Options) (*Result, error) {
	w := s.windows
	label := s.config.Analysis.ProcessLabel

	aggregate := operations.Required(StepAggregate, "Aggregate stores", func(ctx context.Context, state *operations.OperationState) error {
		src, err := sources(state)
		if err != nil {
			return err
		}
		pre := analytics.InputsFrom(w.Pre.Name, src.Current.Slice(w.Pre))
		post := analytics.InputsFrom(w.Post.Name, src.Current.Slice(w.Post))
		s.warnEmpty(ctx, pre)
		s.warnEmpty(ctx, post)

		preMetrics := analytics.AggregateStores(pre, s.policy)
		postMetrics := analytics.AggregateStores(post, s.policy)
		state.SetContext(keyPre, preMetrics)
		state.SetContext(keyPost, postMetrics)
		s.logger.InfoContext(ctx, "stores aggregated",
			slog.Int("pre_stores", len(preMetrics)),
			slog.Int("post_stores", len(postMetrics)))
		return nil
	}, StepLoad)

	compare := operations.Required(StepCompare, "Compare periods", func(ctx context.Context, state *operations.OperationState) error {
		pre, _ := operations.Value[[]analytics.StoreMetrics](state, keyPre)
		post, _ := operations.Value[[]analytics.StoreMetrics](state, keyPost)
		state.SetContext(keyGrowth, analytics.Growth(pre, post))
		return nil
	}, StepAggregate)

	generate := operations.Required(StepInsights, "Generate insights", func(ctx context.Context, state *operations.OperationState) error {
		pre, _ := operations.Value[[]analytics.StoreMetrics](state, keyPre)
		post, _ := operations.Value[[]analytics.StoreMetrics](state, keyPost)
		growth, _ := operations.Value[[]analytics.GrowthRecord](state, keyGrowth)

		stores := insights.ForStores(growth, label)
		rpt := report.StoreWiseReport{
			Label:       label,
			TopN:        s.config.Analysis.TopN,
			Pre:         w.Pre,
			Post:        w.Post,
			RunID:       infrastructure.GetRunID(ctx),
			GeneratedAt: s.now(),
			PreMetrics:  pre,
			PostMetrics: post,
			Growth:      growth,
			Stores:      stores,
			Summary:     insights.Summarize(growth, stores, s.config.Analysis.TopN),
		}
		state.SetContext(keySheets, rpt.Sheets())
		state.SetContext(keyDocument, rpt.Document())

		high := len(insights.ByPriority(stores, insights.PriorityHigh))
		s.logger.InfoContext(ctx, "insights generated",
			slog.Int("stores", len(stores)),
			slog.Int("high_priority", high))
		return nil
	}, StepCompare)

	steps := []operations.Step{
		s.validateStep(false),
		s.loadStep(w.Pre.Start.Year(), 0, true),
		aggregate,
		compare,
		generate,
		s.writeStep(report.StoreWisePrefix, StepInsights),
	}
	if opts.Insights {
		steps = append(steps, s.narrativeStep(false, StepWrite))
	}
	if opts.CSV {
		steps = append(steps, s.csvStep())
	}
	return finish(s.run(ctx, "store_wise", steps...))
}
