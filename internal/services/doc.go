// Package services implements the report workflows of storepulse.
//
// Each workflow is a sequence of operations steps run by an
// operations.Runner:
//
//   - StoreWise: per-store pre/post comparison, insight tiers and the
//     Store_Wise_Analysis workbook, optionally with insights.md/html
//   - Impact: portfolio financial, campaign, year-over-year, weekly,
//     self-serve and store-level analyses in one workbook
//   - Snapshot: per-store table for a single window
//   - ExtractInsights: re-reads a store-wise workbook and renders the
//     narrative
//
// Loading, validation and the final workbook write are required steps. The
// analyses of the impact report are optional: a failing analysis is logged,
// its sheets are left out and the rest of the workbook is still written.
//
// A workflow returns a Result listing the files it wrote together with any
// optional failures:
//
//	svc, err := services.NewReportService(cfg, paths, telemetry, logger)
//	if err != nil {
//       return err
//	}
//	res, err := svc.StoreWise(ctx, services.Options{Insights: true})
//	if err != nil {
//       return err
//	}
//	logger.Info("report written", slog.String("workbook", res.Workbook))
package services
