package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager orchestrates operation execution
type Manager struct {
	config *Config
	logger *slog.Logger

	// Ordered pipeline steps
	steps []Step

	mu         sync.RWMutex
	operations map[string]*OperationState
	cancels    map[string]context.CancelFunc
}

// NewManager creates a new operation manager
func NewManager(config *Config, logger *slog.Logger) *Manager {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		config:     config,
		logger:     logger,
		operations: make(map[string]*OperationState),
		cancels:    make(map[string]context.CancelFunc),
	}
}

// RegisterStep appends a step to the pipeline
func (m *Manager) RegisterStep(step Step) error {
	for _, existing := range m.steps {
		if existing.ID() == step.ID() {
			return fmt.Errorf("step %s already registered", step.ID())
		}
	}
	m.steps = append(m.steps, step)
	return nil
}

// Start launches an operation in the background and returns a snapshot
// of its initial state. The run outlives the caller's request context.
func (m *Manager) Start(ctx context.Context, req OperationRequest) (*OperationState, error) {
	steps, err := m.selectSteps(req)
	if err != nil {
		return nil, err
	}
	state := m.newRun(req, steps)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.mu.Lock()
	m.cancels[state.ID] = cancel
	m.mu.Unlock()

	go func() {
		defer cancel()
		m.run(runCtx, state, steps)
		m.mu.Lock()
		delete(m.cancels, state.ID)
		m.mu.Unlock()
	}()

	return state.Snapshot(), nil
}

// Execute runs an operation synchronously and returns its final result
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	steps, err := m.selectSteps(req)
	if err != nil {
		return nil, err
	}
	state := m.newRun(req, steps)
	m.run(ctx, state, steps)

	resp := m.createResponse(state)
	if state.GetStatus() == OperationStatusFailed {
		return resp, fmt.Errorf("operation %s failed: %s", state.ID, resp.Error)
	}
	return resp, nil
}

// GetOperation returns a snapshot of a stored operation
func (m *Manager) GetOperation(id string) (*OperationState, error) {
	m.mu.RLock()
	state, ok := m.operations[id]
	m.mu.RUnlock()
	if !ok {
		return nil, &OperationError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("operation %s not found", id),
		}
	}
	return state.Snapshot(), nil
}

// ListOperations returns snapshots of every stored operation, newest first
func (m *Manager) ListOperations() []*OperationState {
	m.mu.RLock()
	snapshots := make([]*OperationState, 0, len(m.operations))
	for _, state := range m.operations {
		snapshots = append(snapshots, state.Snapshot())
	}
	m.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].StartTime.After(snapshots[j].StartTime)
	})
	return snapshots
}

// CancelOperation cancels a running operation
func (m *Manager) CancelOperation(id string) error {
	m.mu.Lock()
	cancel, ok := m.cancels[id]
	m.mu.Unlock()
	if !ok {
		return &OperationError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("operation %s is not running", id),
		}
	}
	cancel()
	return nil
}

// newRun builds and stores the state for a fresh run
func (m *Manager) newRun(req OperationRequest, steps []Step) *OperationState {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	state := NewOperationState(req.ID)
	state.SetContext(ContextKeyRequest, req)
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.mu.Lock()
	m.operations[req.ID] = state
	m.mu.Unlock()
	return state
}

// selectSteps resolves the steps a request should run
func (m *Manager) selectSteps(req OperationRequest) ([]Step, error) {
	if len(m.steps) == 0 {
		return nil, NewFatalError("no steps registered", nil)
	}
	if req.Step == "" {
		return m.steps, nil
	}
	for _, step := range m.steps {
		if step.ID() == req.Step {
			return []Step{step}, nil
		}
	}
	return nil, &OperationError{
		Type:    ErrorTypeNotFound,
		Step:    req.Step,
		Message: fmt.Sprintf("unknown step %q", req.Step),
	}
}

// run drives the pipeline sequentially until completion or failure
func (m *Manager) run(ctx context.Context, state *OperationState, steps []Step) {
	state.Start()
	m.logger.InfoContext(ctx, "operation started",
		"operation_id", state.ID,
		"steps", len(steps))

	for _, step := range steps {
		select {
		case <-ctx.Done():
			state.Cancel()
			m.logger.WarnContext(ctx, "operation cancelled",
				"operation_id", state.ID,
				"step", step.ID())
			return
		default:
		}

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipDependentSteps(state, steps, step.ID())
			state.Fail(err)
			m.logger.ErrorContext(ctx, "operation failed",
				"operation_id", state.ID,
				"step", step.ID(),
				"error", err)
			return
		}
	}

	state.Complete()
	m.logger.InfoContext(ctx, "operation completed",
		"operation_id", state.ID,
		"duration", state.Duration())
}

// executeStep runs one step with dependency checks, a timeout, and retries
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(fmt.Sprintf("dependencies not met: %v", err))
		return err
	}

	if err := step.Validate(state); err != nil {
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		return NewValidationError(step.ID(), err.Error())
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	retry := m.config.RetryConfig
	var lastErr error

	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		stepState.Start()

		start := time.Now()
		err := step.Execute(stepCtx, state)
		duration := time.Since(start)

		if err == nil {
			stepState.Complete()
			m.logger.InfoContext(ctx, "step completed",
				"operation_id", state.ID,
				"step", step.ID(),
				"duration", duration)
			return nil
		}

		m.logger.ErrorContext(ctx, "step execution failed",
			"operation_id", state.ID,
			"step", step.ID(),
			"attempt", attempt,
			"duration", duration,
			"error", err)
		lastErr = err

		if !IsRetryable(err) || attempt >= retry.MaxAttempts {
			stepState.Fail(err)
			return WrapError(err, step.ID(), "step execution failed")
		}

		delay := m.retryDelay(attempt, retry)
		m.logger.WarnContext(ctx, "step retry",
			"operation_id", state.ID,
			"step", step.ID(),
			"attempt", attempt,
			"max_attempts", retry.MaxAttempts,
			"delay", delay)

		select {
		case <-time.After(delay):
		case <-stepCtx.Done():
			timeoutErr := NewTimeoutError(step.ID(), timeout.String())
			stepState.Fail(timeoutErr)
			return timeoutErr
		}
	}

	stepState.Fail(lastErr)
	return WrapError(lastErr, step.ID(), "step execution failed after retries")
}

// skipDependentSteps marks pending steps downstream of a failure as skipped
func (m *Manager) skipDependentSteps(state *OperationState, steps []Step, failedID string) {
	for _, step := range steps {
		for _, dep := range step.Dependencies() {
			if dep != failedID {
				continue
			}
			stepState := state.GetStep(step.ID())
			if stepState != nil && stepState.GetStatus() == StepStatusPending {
				stepState.Skip(fmt.Sprintf("dependency %s failed", failedID))
				m.skipDependentSteps(state, steps, step.ID())
			}
			break
		}
	}
}

// checkDependencies verifies that all upstream steps completed
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.Dependencies() {
		depState := state.GetStep(dep)
		if depState == nil {
			return fmt.Errorf("dependency %s not found", dep)
		}
		if depState.GetStatus() != StepStatusCompleted {
			return fmt.Errorf("dependency %s not completed (status: %s)", dep, depState.GetStatus())
		}
	}
	return nil
}

// retryDelay calculates the backoff before the next attempt
func (m *Manager) retryDelay(attempt int, config RetryConfig) time.Duration {
	delay := config.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * config.Multiplier)
	}
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	return delay
}

// createResponse builds the terminal response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	snap := state.Snapshot()
	return &OperationResponse{
		ID:       snap.ID,
		Status:   snap.Status,
		Duration: state.Duration(),
		Steps:    snap.Steps,
		Error:    snap.Error,
	}
}
