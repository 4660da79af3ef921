package services

import (
	"context"
	"log/slog"

	"storepulse/internal/operations"
	"storepulse/internal/report"
)

// Extract-insights step ids.
const (
	StepLocate = "locate"
	StepRead   = "read"
)

// ExtractInsights re-reads a store-wise workbook and writes insights.md and
// insights.html next to it. An empty workbook path selects the newest
// Store_Wise_Analysis workbook in the output directory.
func (s *ReportService) ExtractInsights(ctx context.Context, workbook string) (*Result, error) {
	layout := report.StoreWiseSheets(s.config.Analysis.ProcessLabel, s.config.Analysis.TopN)

	locate := operations.Required(StepLocate, "Locate workbook", func(ctx context.Context, state *operations.OperationState) error {
		path := workbook
		if path == "" {
			latest, err := s.discovery.LatestReport(s.paths.OutputDir, report.StoreWisePrefix)
			if err != nil {
				return err
			}
			path = latest.Path
			s.logger.InfoContext(ctx, "using newest store-wise workbook",
				slog.String("path", path),
				slog.Time("modified", latest.ModTime))
		}
		if err := s.validator.ValidateExcelFile(path); err != nil {
			return err
		}
		state.SetContext(keyWorkbook, path)
		return nil
	})

	read := operations.Required(StepRead, "Read workbook", func(ctx context.Context, state *operations.OperationState) error {
		path, _ := operations.Value[string](state, keyWorkbook)
		doc, err := report.ReadStoreWise(path, layout)
		if err != nil {
			return err
		}
		state.SetContext(keyDocument, doc)
		s.logger.InfoContext(ctx, "workbook read",
			slog.String("path", path),
			slog.Int("stores", doc.StoreCount),
			slog.Int("high_priority", len(doc.High)))
		return nil
	}, StepLocate)

	return finish(s.run(ctx, "extract_insights",
		locate,
		read,
		s.narrativeStep(true, StepRead),
	))
}
