// Package config loads and validates storepulse run configuration: input
// extract locations, analysis windows, reconciliation policy, column label
// overrides and telemetry outputs.
//
// # Configuration Sources
//
// Values are layered in increasing order of precedence:
//
//  1. Built-in defaults (Default)
//  2. YAML file passed with --config, or storepulse.yaml / configs/storepulse.yaml
//  3. A .env file in the working directory
//  4. STOREPULSE_* environment variables
//
// # Environment Variables
//
// Nested keys join with underscores:
//
//	STOREPULSE_LOGGING_LEVEL=debug
//	STOREPULSE_PATHS_OUTPUT_DIR=/srv/reports
//	STOREPULSE_PERIODS_PRE_START=2025-05-09
//	STOREPULSE_ANALYSIS_RECONCILIATION=financial
//
// Schema overrides are file-only.
//
// # Validation
//
// Load validates the merged result and returns a VALIDATION AppError listing
// every problem, e.g. a malformed date or a period whose end precedes its
// start.
package config
