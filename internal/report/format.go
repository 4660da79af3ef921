package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// grouped formats v with thousands separators and no decimals.
func grouped(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}

// metricTitle turns a snake_case key into a title, e.g. "total_orders" into
// "Total Orders".
func metricTitle(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}
