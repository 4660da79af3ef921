package report

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"storepulse/internal/analytics"
	apperrors "storepulse/internal/errors"
	"storepulse/internal/insights"
	"storepulse/internal/period"
)

//go:embed templates/insights.md.tmpl
var templateFS embed.FS

var insightsTemplate = template.Must(
	template.New("insights.md.tmpl").
		Funcs(template.FuncMap{
			"grouped":   grouped,
			"longRange": longRange,
			"inc":       func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/insights.md.tmpl"),
)

// InsightsDocument is the content of the insights narrative.
type InsightsDocument struct {
	Label       string
	Pre         period.Period
	Post        period.Period
	RunID       string
	GeneratedAt time.Time
	StoreCount  int

	Summary      []analytics.SummaryRow
	Distribution []insights.TierCount
	Top          []insights.Performer
	Bottom       []insights.Performer
	High         []insights.StoreInsight
	Medium       []insights.StoreInsight
}

// longRange formats a period as "May 9 - July 8, 2025".
func longRange(p period.Period) string {
	if p.Start.Year() != p.End.Year() {
		return p.Start.Format("January 2, 2006") + " - " + p.End.Format("January 2, 2006")
	}
	return p.Start.Format("January 2") + " - " + p.End.Format("January 2, 2006")
}

// RenderInsights writes doc as markdown.
func RenderInsights(w io.Writer, doc InsightsDocument) error {
	if err := insightsTemplate.Execute(w, doc); err != nil {
		return apperrors.NewStorageError("render insights markdown", err)
	}
	return nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts rendered markdown into a standalone HTML page.
func RenderHTML(w io.Writer, title string, md []byte) error {
	var body bytes.Buffer
	if err := markdown.Convert(md, &body); err != nil {
		return apperrors.NewStorageError("render insights html", err)
	}
	_, err := fmt.Fprintf(w, htmlPage, template.HTMLEscapeString(title), body.String())
	if err != nil {
		return apperrors.NewStorageError("write insights html", err)
	}
	return nil
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; line-height: 1.5; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; }
</style>
</head>
<body>
%s</body>
</html>
`
