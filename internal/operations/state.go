package operations

import (
	"sync"
	"time"
)

// OperationState represents the runtime state of one pipeline run
type OperationState struct {
	mu        sync.RWMutex
	ID        string
	Status    OperationStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	steps   map[string]*StepState
	order   []string
	context map[string]interface{}
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:      id,
		Status:  OperationStatusPending,
		steps:   make(map[string]*StepState),
		context: make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (o *OperationState) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.StartTime = time.Now()
	o.Status = OperationStatusRunning
}

// Complete marks the operation as completed
func (o *OperationState) Complete() {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (o *OperationState) Fail(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusFailed
	o.Error = err
}

// GetStatus returns the current status
func (o *OperationState) GetStatus() OperationStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Status
}

// Duration returns the run duration so far
func (o *OperationState) Duration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.StartTime.IsZero() {
		return 0
	}
	if o.EndTime != nil {
		return o.EndTime.Sub(o.StartTime)
	}
	return time.Since(o.StartTime)
}

// GetStep returns the state of a Step
func (o *OperationState) GetStep(stepID string) *StepState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.steps[stepID]
}

// SetStep records the state of a Step
func (o *OperationState) SetStep(state *StepState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.steps[state.ID]; !exists {
		o.order = append(o.order, state.ID)
	}
	o.steps[state.ID] = state
}

// Steps returns the Step states in execution order
func (o *OperationState) Steps() []*StepState {
	o.mu.RLock()
	defer o.mu.RUnlock()

	steps := make([]*StepState, 0, len(o.order))
	for _, id := range o.order {
		steps = append(steps, o.steps[id])
	}
	return steps
}

// GetContext retrieves a value from the operation context
func (o *OperationState) GetContext(key string) (interface{}, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	value, exists := o.context[key]
	return value, exists
}

// SetContext sets a value in the operation context
func (o *OperationState) SetContext(key string, value interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.context[key] = value
}

// contextValue returns the context value under key as a T
func contextValue[T any](o *OperationState, key string) (T, bool) {
	var zero T
	value, ok := o.GetContext(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}
