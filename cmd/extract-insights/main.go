// Command extract-insights renders insights.md and insights.html from a
// store-wise workbook, by default the newest one in the output directory.
//
//	extract-insights [--config storepulse.yaml] [--workbook path.xlsx]
package main

import (
	"os"

	"storepulse/internal/app"
)

func main() {
	os.Exit(app.Main(app.CommandExtractInsights, os.Args[1:], os.Stdout, os.Stderr))
}
