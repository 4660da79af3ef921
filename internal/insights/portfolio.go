package insights

import (
	"fmt"
	"math"

	"storepulse/internal/analytics"
)

// Portfolio insight markers.
const (
	MarkerPositive = "[POSITIVE]"
	MarkerWarning  = "[WARNING]"
)

// PortfolioInputs are the aggregate comparisons of an impact report. Nil or
// missing parts are skipped.
type PortfolioInputs struct {
	Financial []analytics.KeyedChange
	ROI       *analytics.ROISummary
	YoY       map[string]analytics.YoYWindow
	// YoY keys of the pre, post and overall windows.
	PreWindow     string
	PostWindow    string
	OverallWindow string
}

// PortfolioInsights are the aggregate findings with one recommendation each.
type PortfolioInsights struct {
	Insights        []string
	Recommendations []string
}

func (p *PortfolioInsights) add(positive bool, insight, recommendation string) {
	marker := MarkerWarning
	if positive {
		marker = MarkerPositive
	}
	p.Insights = append(p.Insights, marker+" "+insight)
	p.Recommendations = append(p.Recommendations, recommendation)
}

// Portfolio derives the portfolio insights of an impact report. Growth rules
// read the percentage change and skip metrics with a zero baseline.
func Portfolio(in PortfolioInputs, label string) PortfolioInsights {
	if label == "" {
		label = DefaultLabel
	}
	var out PortfolioInsights

	if c, ok := analytics.ChangeFor(in.Financial, analytics.KeyTotalOrders); ok && c.Pre != 0 {
		if c.Percent > 0 {
			out.add(true,
				fmt.Sprintf("Order volume increased by %.1f%% post-%s", c.Percent, label),
				"Continue current operational strategies that drove order growth")
		} else {
			out.add(false,
				fmt.Sprintf("Order volume decreased by %.1f%% post-%s", math.Abs(c.Percent), label),
				"Investigate factors causing order decline and implement corrective measures")
		}
	}
	if c, ok := analytics.ChangeFor(in.Financial, analytics.KeyAvgOrderValue); ok && c.Pre != 0 {
		if c.Percent > 0 {
			out.add(true,
				fmt.Sprintf("Average order value increased by %.1f%% post-%s", c.Percent, label),
				"Leverage successful upselling strategies across all stores")
		} else {
			out.add(false,
				fmt.Sprintf("Average order value decreased by %.1f%% post-%s", math.Abs(c.Percent), label),
				"Review menu pricing and upselling tactics")
		}
	}

	if in.ROI != nil {
		if imp := in.ROI.ROIImprovement; imp > 0 {
			out.add(true,
				fmt.Sprintf("Marketing ROI improved by %.1f%% post-%s", imp, label),
				"Scale successful marketing campaigns and optimize budget allocation")
		} else {
			out.add(false,
				fmt.Sprintf("Marketing ROI decreased by %.1f%% post-%s", math.Abs(imp), label),
				"Review and optimize underperforming marketing campaigns")
		}
	}

	if overall, ok := financialYoY(in.YoY, in.OverallWindow); ok {
		if g := overall.Sales.Percent; g > 0 {
			out.add(true,
				fmt.Sprintf("Overall year-over-year sales growth of %.1f%%", g),
				"Maintain momentum with proven strategies")
		} else {
			out.add(false,
				fmt.Sprintf("Overall year-over-year sales decline of %.1f%%", math.Abs(g)),
				"Implement aggressive growth strategies to reverse decline")
		}
	}

	pre, okPre := financialYoY(in.YoY, in.PreWindow)
	post, okPost := financialYoY(in.YoY, in.PostWindow)
	if okPre && okPost {
		pg, qg := pre.Sales.Percent, post.Sales.Percent
		if pg > 0 && qg > 0 {
			if qg > pg {
				out.add(true,
					fmt.Sprintf("Post-%s YoY growth (%.1f%%) exceeds Pre-%s YoY growth (%.1f%%)", label, qg, label, pg),
					fmt.Sprintf("%s implementation accelerated year-over-year growth performance", label))
			} else {
				out.add(false,
					fmt.Sprintf("Post-%s YoY growth (%.1f%%) lower than Pre-%s YoY growth (%.1f%%)", label, qg, label, pg),
					fmt.Sprintf("Investigate factors affecting post-%s year-over-year performance", label))
			}
		}
	}
	return out
}

func financialYoY(windows map[string]analytics.YoYWindow, name string) (analytics.YoYMetrics, bool) {
	w, ok := windows[name]
	if !ok {
		return analytics.YoYMetrics{}, false
	}
	return w.Source(analytics.YoYFinancial)
}
