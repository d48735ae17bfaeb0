package operations

import (
	"sync"
	"time"
)

// OperationStatus represents the overall operation status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState represents the complete state of an operation run
type OperationState struct {
	mu sync.RWMutex

	ID        string          `json:"id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`

	// Step states keyed by step ID
	Steps map[string]*StepState `json:"steps"`

	// Operation context for passing data between steps
	Context map[string]interface{} `json:"-"`

	// Error if the operation failed
	Error string `json:"error,omitempty"`
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (o *OperationState) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Status = OperationStatusRunning
	o.StartTime = time.Now()
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
	if err != nil {
		o.Error = err.Error()
	}
}

// Cancel marks the operation as cancelled
func (o *OperationState) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	o.EndTime = &now
	o.Status = OperationStatusCancelled
}

// GetStatus returns the current operation status
func (o *OperationState) GetStatus() OperationStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Status
}

// GetStep returns the state of a specific step
func (o *OperationState) GetStep(stepID string) *StepState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.Steps[stepID]
}

// SetStep registers the state of a specific step
func (o *OperationState) SetStep(stepID string, state *StepState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Steps[stepID] = state
}

// GetContext retrieves a value from the operation context
func (o *OperationState) GetContext(key string) (interface{}, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	val, ok := o.Context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (o *OperationState) SetContext(key string, value interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Context[key] = value
}

// Duration returns the duration of the operation run
func (o *OperationState) Duration() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.EndTime != nil {
		return o.EndTime.Sub(o.StartTime)
	}
	return time.Since(o.StartTime)
}

// HasFailures returns true if any step has failed
func (o *OperationState) HasFailures() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, step := range o.Steps {
		if step.GetStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// Snapshot creates a deep copy of the operation state without the
// inter-step context, safe to serialize and hand to callers.
func (o *OperationState) Snapshot() *OperationState {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := &OperationState{
		ID:        o.ID,
		Status:    o.Status,
		StartTime: o.StartTime,
		Steps:     make(map[string]*StepState, len(o.Steps)),
		Error:     o.Error,
	}
	if o.EndTime != nil {
		endTime := *o.EndTime
		snap.EndTime = &endTime
	}
	for id, step := range o.Steps {
		snap.Steps[id] = step.snapshot()
	}
	return snap
}
