package dataset

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"storepulse/internal/config"
	apperrors "storepulse/internal/errors"
)

// Sources holds the analysed year and its baseline year.
type Sources struct {
	Current  YearData
	Baseline YearData
}

// Request names the extracts to load.
type Request struct {
	Paths        *config.Paths
	CurrentYear  int
	BaselineYear int
	// SkipBaseline avoids reading prior-year extracts for single-window reports.
	SkipBaseline bool
	// WithSponsored appends current-year sponsored listings to the promotion
	// rows. Only the store-wise comparison counts them as marketing.
	WithSponsored bool
}

type loadJob struct {
	name     string
	path     string
	year     int
	required bool
	run      func(ctx context.Context, path string) (int, error)
}

// LoadSources reads every configured extract concurrently. Current-year
// financial, promotion and sales extracts are required; sponsored listings (when
// requested) and baseline extracts load empty with a warning when their file is
// missing.
func (l *Loader) LoadSources(ctx context.Context, req Request) (*Sources, error) {
	out := &Sources{
		Current:  YearData{Year: req.CurrentYear},
		Baseline: YearData{Year: req.BaselineYear},
	}
	p := req.Paths

	var promotions, sponsored []MarketingRecord
	jobs := []loadJob{
		{name: "financial", path: p.Financial.Current, year: req.CurrentYear, required: true,
			run: func(ctx context.Context, path string) (n int, err error) {
				out.Current.Financial, err = l.LoadFinancial(ctx, path)
				return len(out.Current.Financial), err
			}},
		{name: "marketing", path: p.Marketing.Current, year: req.CurrentYear, required: true,
			run: func(ctx context.Context, path string) (n int, err error) {
				promotions, err = l.LoadMarketing(ctx, path, SourcePromotion)
				return len(promotions), err
			}},
		{name: "sales", path: p.Sales.Current, year: req.CurrentYear, required: true,
			run: func(ctx context.Context, path string) (n int, err error) {
				out.Current.Sales, err = l.LoadSales(ctx, path)
				return len(out.Current.Sales), err
			}},
	}
	if req.WithSponsored {
		jobs = append(jobs, loadJob{name: "sponsored", path: p.Sponsored.Current, year: req.CurrentYear,
			run: func(ctx context.Context, path string) (n int, err error) {
				sponsored, err = l.LoadMarketing(ctx, path, SourceSponsored)
				return len(sponsored), err
			}})
	}
	if !req.SkipBaseline {
		jobs = append(jobs,
			loadJob{name: "financial", path: p.Financial.Baseline, year: req.BaselineYear,
				run: func(ctx context.Context, path string) (n int, err error) {
					out.Baseline.Financial, err = l.LoadFinancial(ctx, path)
					return len(out.Baseline.Financial), err
				}},
			loadJob{name: "marketing", path: p.Marketing.Baseline, year: req.BaselineYear,
				run: func(ctx context.Context, path string) (n int, err error) {
					out.Baseline.Marketing, err = l.LoadMarketing(ctx, path, SourcePromotion)
					return len(out.Baseline.Marketing), err
				}},
			loadJob{name: "sales", path: p.Sales.Baseline, year: req.BaselineYear,
				run: func(ctx context.Context, path string) (n int, err error) {
					out.Baseline.Sales, err = l.LoadSales(ctx, path)
					return len(out.Baseline.Sales), err
				}},
		)
	}

	for _, job := range jobs {
		if job.path == "" && job.required {
			return nil, apperrors.NewConfigError("no path configured for required extract", nil).
				WithContext("source", job.name).
				WithContext("year", job.year)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		if job.path == "" {
			continue
		}
		g.Go(func() error {
			n, err := job.run(gctx, job.path)
			if err != nil {
				if !job.required && apperrors.IsType(err, apperrors.ErrTypeNotFound) {
					l.logger.WarnContext(gctx, "optional extract missing, continuing without it",
						slog.String("source", job.name),
						slog.Int("year", job.year),
						slog.String("path", job.path))
					return nil
				}
				return err
			}
			if l.rows != nil {
				l.rows.RecordRows(gctx, job.name, strconv.Itoa(job.year), n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// promotion rows first, then sponsored listings
	out.Current.Marketing = append(promotions, sponsored...)

	l.logger.InfoContext(ctx, "extracts loaded",
		slog.Int("financial", len(out.Current.Financial)),
		slog.Int("marketing", len(out.Current.Marketing)),
		slog.Int("sales", len(out.Current.Sales)),
		slog.Int("baseline_financial", len(out.Baseline.Financial)),
		slog.Int("baseline_marketing", len(out.Baseline.Marketing)),
		slog.Int("baseline_sales", len(out.Baseline.Sales)))

	return out, nil
}
