package operations

import (
	"context"
	"sync"
	"time"
)

// Step represents a single step of a report run
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// Required reports whether a failure aborts the run
	Required() bool

	// GetDependencies returns the IDs of steps that must complete before this Step
	GetDependencies() []string

	// Execute runs the Step with the given context and operation state
	Execute(ctx context.Context, state *OperationState) error
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a Step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Error     error
}

// NewStepState creates a new Step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the Step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the Step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the Step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the Step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// GetStatus returns the current status.
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns the duration of the Step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStage provides common functionality for Step implementations
type BaseStage struct {
	id           string
	name         string
	required     bool
	dependencies []string
}

// NewBaseStage creates a new base Step
func NewBaseStage(id, name string, required bool, dependencies ...string) BaseStage {
	return BaseStage{
		id:           id,
		name:         name,
		required:     required,
		dependencies: dependencies,
	}
}

// ID returns the Step ID
func (b *BaseStage) ID() string { return b.id }

// Name returns the Step name
func (b *BaseStage) Name() string { return b.name }

// Required reports whether a failure aborts the run
func (b *BaseStage) Required() bool { return b.required }

// GetDependencies returns the Step dependencies
func (b *BaseStage) GetDependencies() []string { return b.dependencies }

// FuncStage is a Step backed by a function.
type FuncStage struct {
	BaseStage
	run func(ctx context.Context, state *OperationState) error
}

// NewFuncStage creates a Step that calls run.
func NewFuncStage(base BaseStage, run func(ctx context.Context, state *OperationState) error) *FuncStage {
	return &FuncStage{BaseStage: base, run: run}
}

// Execute runs the step function.
func (f *FuncStage) Execute(ctx context.Context, state *OperationState) error {
	return f.run(ctx, state)
}

// Required returns a required step.
func Required(id, name string, run func(ctx context.Context, state *OperationState) error, deps ...string) *FuncStage {
	return NewFuncStage(NewBaseStage(id, name, true, deps...), run)
}

// Optional returns a step whose failure only skips its dependents.
func Optional(id, name string, run func(ctx context.Context, state *OperationState) error, deps ...string) *FuncStage {
	return NewFuncStage(NewBaseStage(id, name, false, deps...), run)
}
