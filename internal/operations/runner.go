package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "storepulse/internal/errors"
	"storepulse/internal/infrastructure"
)

// Runner executes registered steps in order.
type Runner struct {
	steps     []Step
	ids       map[string]bool
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
	metrics   *StepMetrics
}

// NewRunner creates a runner. telemetry and metrics may be nil.
func NewRunner(logger *slog.Logger, telemetry *infrastructure.Telemetry, metrics *StepMetrics) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		ids:       make(map[string]bool),
		logger:    logger.With("component", "runner"),
		telemetry: telemetry,
		metrics:   metrics,
	}
}

// Register appends a step. Its dependencies must already be registered.
func (r *Runner) Register(step Step) error {
	id := step.ID()
	if id == "" {
		return apperrors.NewValidationError("step id is empty")
	}
	if r.ids[id] {
		return apperrors.NewValidationError("duplicate step").WithContext("step", id)
	}
	for _, dep := range step.GetDependencies() {
		if !r.ids[dep] {
			return apperrors.NewValidationError("unknown dependency").
				WithContext("step", id).
				WithContext("dependency", dep)
		}
	}
	r.ids[id] = true
	r.steps = append(r.steps, step)
	return nil
}

// MustRegister registers steps and panics on an invalid step graph.
func (r *Runner) MustRegister(steps ...Step) {
	for _, s := range steps {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Run executes every step. It returns an error only when a required step
// fails or is skipped, or ctx is cancelled; optional failures are reported by
// OperationState.Failures.
func (r *Runner) Run(ctx context.Context, runID string) (*OperationState, error) {
	state := NewOperationState(runID)
	for _, s := range r.steps {
		state.addStep(NewStepState(s.ID(), s.Name()))
	}
	state.Status = OperationStatusRunning

	ctx, span := r.telemetry.StartSpan(ctx, "report.run", attribute.String("run.id", runID))
	defer span.End()

	start := time.Now()
	r.logger.InfoContext(ctx, "operation_start", slog.Int("steps", len(r.steps)))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return r.abort(ctx, state, err)
		}
		st, _ := state.GetStep(step.ID())

		if dep, ok := r.missingDependency(state, step); ok {
			reason := fmt.Sprintf("dependency %s did not complete", dep)
			st.Skip(reason)
			r.metrics.Observe(step.ID(), StepStatusSkipped, 0)
			r.logger.WarnContext(ctx, "stage_skipped",
				slog.String("step", step.ID()),
				slog.String("reason", reason))
			if step.Required() {
				return r.abort(ctx, state, apperrors.NewValidationError("required step skipped").
					WithContext("step", step.ID()).
					WithContext("dependency", dep))
			}
			continue
		}

		err := r.execute(ctx, step, st, state)
		if err == nil {
			continue
		}
		if step.Required() {
			return r.abort(ctx, state, err)
		}
		r.logger.WarnContext(ctx, "stage_error",
			slog.String("step", step.ID()),
			slog.Bool("required", false),
			slog.String("error", err.Error()))
	}

	status := OperationStatusCompleted
	if state.Failures() != nil {
		status = OperationStatusPartial
	}
	state.finish(status, nil)
	r.logger.InfoContext(ctx, "operation_complete",
		slog.String("status", string(status)),
		slog.Duration("duration", time.Since(start)))
	return state, nil
}

func (r *Runner) execute(ctx context.Context, step Step, st *StepState, state *OperationState) error {
	ctx, span := r.telemetry.StartSpan(ctx, "step."+step.ID(),
		attribute.String("step.id", step.ID()),
		attribute.Bool("step.required", step.Required()))
	defer span.End()

	r.logger.InfoContext(ctx, "stage_start", slog.String("step", step.ID()))
	st.Start()
	err := step.Execute(ctx, state)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		st.Fail(err)
		r.metrics.Observe(step.ID(), StepStatusFailed, st.Duration())
		return err
	}
	st.Complete()
	r.metrics.Observe(step.ID(), StepStatusCompleted, st.Duration())
	r.logger.InfoContext(ctx, "stage_complete",
		slog.String("step", step.ID()),
		slog.Duration("duration", st.Duration()))
	return nil
}

func (r *Runner) missingDependency(state *OperationState, step Step) (string, bool) {
	for _, dep := range step.GetDependencies() {
		if !state.Completed(dep) {
			return dep, true
		}
	}
	return "", false
}

func (r *Runner) abort(ctx context.Context, state *OperationState, err error) (*OperationState, error) {
	for _, st := range state.Steps {
		if st.GetStatus() == StepStatusPending {
			st.Skip("run aborted")
		}
	}
	infrastructure.RecordError(ctx, err)
	state.finish(OperationStatusFailed, err)
	r.logger.ErrorContext(ctx, "operation_error", slog.String("error", err.Error()))
	return state, err
}
