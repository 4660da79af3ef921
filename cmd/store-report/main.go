// Command store-report compares every store between the pre and post windows
// and writes the Store_Wise_Analysis workbook.
//
//	store-report [--config storepulse.yaml] [--out reports] [--insights] [--csv]
package main

import (
	"os"

	"storepulse/internal/app"
)

func main() {
	os.Exit(app.Main(app.CommandStoreReport, os.Args[1:], os.Stdout, os.Stderr))
}
