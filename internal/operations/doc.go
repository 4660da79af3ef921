// Package operations runs a report as an ordered list of steps.
//
// Each Step declares the steps it depends on and whether it is required.
// The Runner executes steps in registration order:
//
//   - a step whose dependency did not complete is skipped
//   - a failing optional step is logged and marked failed; the run continues
//   - a failing required step aborts the run
//
// Every step runs inside its own span and records its duration and outcome
// in StepMetrics. Steps share results through OperationState.
package operations
