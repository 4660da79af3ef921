// Command snapshot-report writes the per-store table of the configured
// snapshot window.
package main

import (
	"os"

	"storepulse/internal/app"
)

func main() {
	os.Exit(app.Main(app.CommandSnapshotReport, os.Args[1:], os.Stdout, os.Stderr))
}
