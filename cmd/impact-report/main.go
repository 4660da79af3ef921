// Command impact-report writes the full pre/post and year-over-year impact
// workbook.
//
//	impact-report [--config storepulse.yaml] [--out reports] [--csv]
package main

import (
	"os"

	"storepulse/internal/app"
)

func main() {
	os.Exit(app.Main(app.CommandImpactReport, os.Args[1:], os.Stdout, os.Stderr))
}
