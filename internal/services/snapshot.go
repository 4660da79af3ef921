package services

import (
	"context"
	"log/slog"

	"storepulse/internal/analytics"
	"storepulse/internal/operations"
	"storepulse/internal/report"
)

// StepSnapshot analyses the snapshot window.
const StepSnapshot = "snapshot"

// Snapshot writes the per-store table of the configured snapshot window to
// the <name>_Store_Analysis workbook.
func (s *ReportService) Snapshot(ctx context.Context, opts Options) (*Result, error) {
	window := s.windows.Snapshot
	topN := s.config.Analysis.SnapshotTopN

	analyze := operations.Required(StepSnapshot, "Analyze window", func(ctx context.Context, state *operations.OperationState) error {
		src, err := sources(state)
		if err != nil {
			return err
		}
		in := analytics.InputsFrom(window.Name, src.Current.Slice(window))
		s.warnEmpty(ctx, in)

		a := analytics.Snapshot(in, s.policy)
		state.SetContext(keySheets, report.SnapshotSheetsFor(a, topN))
		s.logger.InfoContext(ctx, "snapshot analysed",
			slog.String("window", window.String()),
			slog.Int("stores", len(a.Stores)))
		return nil
	}, StepLoad)

	steps := []operations.Step{
		s.validateStep(false),
		s.loadStep(window.Start.Year(), 0, false),
		analyze,
		s.writeStep(report.SnapshotPrefix(window.Name), StepSnapshot),
	}
	if opts.CSV {
		steps = append(steps, s.csvStep())
	}
	return finish(s.run(ctx, "snapshot", steps...))
}
