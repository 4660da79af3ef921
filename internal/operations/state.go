package operations

import (
	"sync"
	"time"

	"go.uber.org/multierr"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusPartial   OperationStatusValue = "partial"
	OperationStatusFailed    OperationStatusValue = "failed"
)

// OperationState represents the complete state of one run
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatusValue
	StartTime time.Time
	EndTime   *time.Time

	// Steps in execution order.
	Steps []*StepState
	byID  map[string]*StepState

	// Context passes results between steps.
	Context map[string]interface{}

	// Error is the error that aborted the run, if any
	Error error
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		byID:      make(map[string]*StepState),
		Context:   make(map[string]interface{}),
	}
}

func (p *OperationState) addStep(s *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps = append(p.Steps, s)
	p.byID[s.ID] = s
}

// GetStep returns the state of a step
func (p *OperationState) GetStep(id string) (*StepState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.byID[id]
	return s, ok
}

// Completed reports whether the step ran successfully.
func (p *OperationState) Completed(id string) bool {
	s, ok := p.GetStep(id)
	return ok && s.GetStatus() == StepStatusCompleted
}

// SetContext stores a value shared between steps
func (p *OperationState) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// GetContext retrieves a value shared between steps
func (p *OperationState) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.Context[key]
	return v, ok
}

// Value returns the context value under key when it has type T.
func Value[T any](p *OperationState, key string) (T, bool) {
	var zero T
	v, ok := p.GetContext(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Failures combines the errors of every failed step, nil when none failed.
func (p *OperationState) Failures() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var errs error
	for _, s := range p.Steps {
		if s.GetStatus() == StepStatusFailed {
			errs = multierr.Append(errs, s.Error)
		}
	}
	return errs
}

func (p *OperationState) finish(status OperationStatusValue, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = status
	p.Error = err
}
