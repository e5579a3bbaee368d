package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
)

type memoryStore struct {
	mu     sync.Mutex
	states map[string]workflowModel.WorkflowState
	briefs map[string]briefModel.Brief
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		states: make(map[string]workflowModel.WorkflowState),
		briefs: make(map[string]briefModel.Brief),
	}
}

func (s *memoryStore) LoadWorkflowState(ctx context.Context, sessionId string) (workflowModel.WorkflowState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sessionId]
	return state, ok
}

func (s *memoryStore) SaveWorkflowState(ctx context.Context, sessionId string, state workflowModel.WorkflowState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionId] = state
	return nil
}

func (s *memoryStore) SaveBrief(ctx context.Context, sessionId string, brief briefModel.Brief) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.briefs[sessionId] = brief
	return nil
}

func (s *memoryStore) SaveMotivations(ctx context.Context, sessionId string, motivations []briefModel.Motivation) error {
	return nil
}

func (s *memoryStore) SaveCopyVariants(ctx context.Context, sessionId string, variants []briefModel.CopyVariant) error {
	return nil
}

func TestManager_BeginExtractionBumpsEpoch(t *testing.T) {
	m := NewManager(newMemoryStore())
	ctx := context.Background()

	first := m.BeginExtraction(ctx, "s1")
	second := m.BeginExtraction(ctx, "s1")

	assert.Equal(t, first.Epoch+1, second.Epoch)
	assert.Equal(t, workflowModel.StepUploadBrief, second.CurrentStep)
}

func TestManager_StaleExtractionDiscarded(t *testing.T) {
	m := NewManager(newMemoryStore())
	ctx := context.Background()

	first := m.BeginExtraction(ctx, "s1")
	second := m.BeginExtraction(ctx, "s1") //user re-uploaded before the first finished

	applied := m.ApplyExtractionResult(ctx, "s1", first.Epoch, confirmableBrief())
	assert.False(t, applied, "a superseded extraction must be dropped")

	state, found := m.Get(ctx, "s1")
	require.True(t, found)
	assert.Nil(t, state.Brief)
	assert.Equal(t, workflowModel.StepUploadBrief, state.CurrentStep)

	applied = m.ApplyExtractionResult(ctx, "s1", second.Epoch, confirmableBrief())
	assert.True(t, applied)

	state, _ = m.Get(ctx, "s1")
	assert.Equal(t, workflowModel.StepReviewBrief, state.CurrentStep)
	require.NotNil(t, state.Brief)
}

func TestManager_ApplyExtractionPersistsBrief(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store)
	ctx := context.Background()

	state := m.BeginExtraction(ctx, "s1")
	require.True(t, m.ApplyExtractionResult(ctx, "s1", state.Epoch, confirmableBrief()))

	persisted, ok := store.briefs["s1"]
	require.True(t, ok)
	assert.Equal(t, "Solstice Launch", persisted.Title)
}

func TestManager_MutateUnknownSession(t *testing.T) {
	m := NewManager(newMemoryStore())

	_, err := m.Mutate(context.Background(), "ghost", ConfirmBrief)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestManager_MutateWritesThrough(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store)
	ctx := context.Background()

	state := m.BeginExtraction(ctx, "s1")
	require.True(t, m.ApplyExtractionResult(ctx, "s1", state.Epoch, confirmableBrief()))

	next, err := m.Mutate(ctx, "s1", ConfirmBrief)
	require.NoError(t, err)
	assert.Equal(t, workflowModel.StepGenerateMotivations, next.CurrentStep)

	persisted, ok := store.states["s1"]
	require.True(t, ok)
	assert.Equal(t, workflowModel.StepGenerateMotivations, persisted.CurrentStep)
}

func TestManager_MutateFailedTransitionLeavesState(t *testing.T) {
	m := NewManager(newMemoryStore())
	ctx := context.Background()

	state := m.BeginExtraction(ctx, "s1")
	brief := confirmableBrief()
	brief.TargetAudience = ""
	require.True(t, m.ApplyExtractionResult(ctx, "s1", state.Epoch, brief))

	_, err := m.Mutate(ctx, "s1", ConfirmBrief)
	assert.True(t, apperrors.IsWorkflowState(err))

	current, _ := m.Get(ctx, "s1")
	assert.Equal(t, workflowModel.StepReviewBrief, current.CurrentStep)
	assert.False(t, current.BriefConfirmed)
}

func TestManager_ResumesFromStore(t *testing.T) {
	store := newMemoryStore()
	persisted := workflowModel.NewWorkflowState("s1")
	persisted.CurrentStep = workflowModel.StepReviewBrief
	b := confirmableBrief()
	persisted.Brief = &b
	store.states["s1"] = persisted

	m := NewManager(store) //fresh process, empty in-memory map

	state, found := m.Get(context.Background(), "s1")
	require.True(t, found)
	assert.Equal(t, workflowModel.StepReviewBrief, state.CurrentStep)
}

func TestManager_CancelResetsAndInvalidatesInFlight(t *testing.T) {
	m := NewManager(newMemoryStore())
	ctx := context.Background()

	started := m.BeginExtraction(ctx, "s1")
	cancelled := m.Cancel(ctx, "s1")

	assert.Equal(t, workflowModel.StepUploadBrief, cancelled.CurrentStep)
	assert.Greater(t, cancelled.Epoch, started.Epoch)

	applied := m.ApplyExtractionResult(ctx, "s1", started.Epoch, confirmableBrief())
	assert.False(t, applied, "extraction started before the cancel must be dropped")
}
