package store

import (
	"context"
	"sync"

	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
)

// InMemoryWorkflowStore backs the persistence boundary when redis is
// offline. Workflows survive for the process lifetime only.
type InMemoryWorkflowStore struct {
	lock        *sync.RWMutex
	states      map[string]workflowModel.WorkflowState
	briefs      map[string]briefModel.Brief
	motivations map[string][]briefModel.Motivation
	variants    map[string][]briefModel.CopyVariant
}

func InitInMemoryWorkflowStore() *InMemoryWorkflowStore {
	return &InMemoryWorkflowStore{
		lock:        new(sync.RWMutex),
		states:      make(map[string]workflowModel.WorkflowState),
		briefs:      make(map[string]briefModel.Brief),
		motivations: make(map[string][]briefModel.Motivation),
		variants:    make(map[string][]briefModel.CopyVariant),
	}
}

func (store *InMemoryWorkflowStore) LoadWorkflowState(ctx context.Context, sessionId string) (workflowModel.WorkflowState, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	state, found := store.states[sessionId]
	return state, found
}

func (store *InMemoryWorkflowStore) SaveWorkflowState(ctx context.Context, sessionId string, state workflowModel.WorkflowState) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.states[sessionId] = state
	return nil
}

func (store *InMemoryWorkflowStore) SaveBrief(ctx context.Context, sessionId string, brief briefModel.Brief) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.briefs[sessionId] = brief
	return nil
}

func (store *InMemoryWorkflowStore) SaveMotivations(ctx context.Context, sessionId string, motivations []briefModel.Motivation) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.motivations[sessionId] = motivations
	return nil
}

func (store *InMemoryWorkflowStore) SaveCopyVariants(ctx context.Context, sessionId string, variants []briefModel.CopyVariant) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.variants[sessionId] = variants
	return nil
}
