package workflow

import (
	"context"
	"sync"

	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/pkg/logger_i"
)

// Manager owns one WorkflowState per session. All mutations go through it
// so transitions are serialized per process, and every accepted transition
// is written through to the persistence boundary best-effort: a store
// failure is logged and never blocks the in-memory state.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]workflowModel.WorkflowState
	store    workflowModel.WorkflowStore
	logger   *logger_i.Logger
}

func NewManager(store workflowModel.WorkflowStore) *Manager {
	return &Manager{
		sessions: make(map[string]workflowModel.WorkflowState),
		store:    store,
		logger:   logger_i.NewLogger("Workflow Manager"),
	}
}

// Get returns the session's state, resuming a persisted one if this
// process has not seen the session yet.
func (m *Manager) Get(ctx context.Context, sessionId string) (workflowModel.WorkflowState, bool) {
	m.mu.RLock()
	state, ok := m.sessions[sessionId]
	m.mu.RUnlock()
	if ok {
		return state, true
	}

	if persisted, found := m.store.LoadWorkflowState(ctx, sessionId); found {
		m.mu.Lock()
		defer m.mu.Unlock()
		if state, ok := m.sessions[sessionId]; ok {
			return state, true
		}
		m.sessions[sessionId] = persisted
		return persisted, true
	}
	return workflowModel.WorkflowState{}, false
}

// BeginExtraction resets the session (creating it if needed) and bumps its
// epoch. Exactly one extraction pipeline is active per session: any
// in-flight extraction for an older epoch becomes stale and its eventual
// result is dropped in ApplyExtractionResult.
func (m *Manager) BeginExtraction(ctx context.Context, sessionId string) workflowModel.WorkflowState {
	m.mu.Lock()
	state, ok := m.sessions[sessionId]
	if !ok {
		if persisted, found := m.store.LoadWorkflowState(ctx, sessionId); found {
			state = persisted
		} else {
			state = workflowModel.NewWorkflowState(sessionId)
		}
	}
	state = Reset(state)
	state.Epoch++
	m.sessions[sessionId] = state
	m.mu.Unlock()

	m.persistState(ctx, state)
	return state
}

// ApplyExtractionResult merges a finished extraction into the session,
// unless a newer upload superseded it. Returns false for stale results.
func (m *Manager) ApplyExtractionResult(ctx context.Context, sessionId string, epoch int64, brief briefModel.Brief) bool {
	m.mu.Lock()
	state, ok := m.sessions[sessionId]
	if !ok || state.Epoch != epoch {
		m.mu.Unlock()
		m.logger.Info("Discarding stale extraction result", "sessionId", sessionId, "epoch", epoch)
		return false
	}
	state = ApplyExtractedBrief(state, brief)
	m.sessions[sessionId] = state
	m.mu.Unlock()

	m.persistState(ctx, state)
	if err := m.store.SaveBrief(ctx, sessionId, brief); err != nil {
		m.logger.Error("Failed to persist brief", "sessionId", sessionId, "error", err)
	}
	return true
}

// Mutate applies one transition under the session lock and writes through
// on success. The returned state is the post-transition value.
func (m *Manager) Mutate(ctx context.Context, sessionId string, transition func(workflowModel.WorkflowState) (workflowModel.WorkflowState, error)) (workflowModel.WorkflowState, error) {
	m.mu.Lock()
	state, ok := m.sessions[sessionId]
	if !ok {
		if persisted, found := m.store.LoadWorkflowState(ctx, sessionId); found {
			state = persisted
		} else {
			m.mu.Unlock()
			return workflowModel.WorkflowState{}, errSessionNotFound(sessionId)
		}
	}

	next, err := transition(state)
	if err != nil {
		m.mu.Unlock()
		return state, err
	}
	m.sessions[sessionId] = next
	m.mu.Unlock()

	m.persistState(ctx, next)
	return next, nil
}

// Cancel resets the session unconditionally.
func (m *Manager) Cancel(ctx context.Context, sessionId string) workflowModel.WorkflowState {
	m.mu.Lock()
	state, ok := m.sessions[sessionId]
	if !ok {
		state = workflowModel.NewWorkflowState(sessionId)
	}
	state = Reset(state)
	state.Epoch++ //in-flight extractions for the cancelled document go stale
	m.sessions[sessionId] = state
	m.mu.Unlock()

	m.persistState(ctx, state)
	return state
}

func (m *Manager) PersistMotivations(ctx context.Context, sessionId string, motivations []briefModel.Motivation) {
	if err := m.store.SaveMotivations(ctx, sessionId, motivations); err != nil {
		m.logger.Error("Failed to persist motivations", "sessionId", sessionId, "error", err)
	}
}

func (m *Manager) PersistCopyVariants(ctx context.Context, sessionId string, variants []briefModel.CopyVariant) {
	if err := m.store.SaveCopyVariants(ctx, sessionId, variants); err != nil {
		m.logger.Error("Failed to persist copy variants", "sessionId", sessionId, "error", err)
	}
}

func (m *Manager) persistState(ctx context.Context, state workflowModel.WorkflowState) {
	if err := m.store.SaveWorkflowState(ctx, state.SessionId, state); err != nil {
		m.logger.Error("Failed to persist workflow state", "sessionId", state.SessionId, "error", err)
	}
}
