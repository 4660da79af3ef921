// Package app wires configuration, logging, telemetry and the report service
// for the storepulse commands.
//
// # Initialization Flow
//
//  1. Parse the command flags (--config, --out, --csv and per-command flags)
//  2. Load configuration: defaults, YAML file, .env, STOREPULSE_* variables
//  3. Resolve paths and create the output and log directories
//  4. Initialize the JSON logger and the run telemetry
//  5. Create the report service
//
// # Usage
//
// Every command main is a single call:
//
//	func main() {
//	    os.Exit(app.Main(app.CommandStoreReport, os.Args[1:], os.Stdout, os.Stderr))
//	}
//
// # Shutdown
//
// SIGINT and SIGTERM cancel the run context; the running step stops at its
// next cancellation check. Telemetry is flushed and the log file closed
// before Main returns, whether the command failed or not.
//
// # Exit Codes
//
//	0  success, including runs where optional analyses were skipped
//	1  the command failed; the error is logged and printed to stderr
//	2  invalid command line
package app
