package store

import (
	"context"
	"encoding/json"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/data/redisStore"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
	"github.com/adforge/briefapi/pkg/logger_i"
)

const (
	workflowKeyPrefix    = "wf:"
	briefKeyPrefix       = "brief:"
	motivationsKeyPrefix = "motivations:"
	copyKeyPrefix        = "copy:"
)

// RedisWorkflowStore is the durable side of the persistence boundary so an
// in-progress workflow can be resumed after interruption.
type RedisWorkflowStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisWorkflowStore(ctx context.Context) *RedisWorkflowStore {
	internal := redisStore.GetRedisStore(ctx, config.RedisWorkflowStore)
	if internal == nil {
		return nil
	}
	return &RedisWorkflowStore{
		store:  internal,
		logger: logger_i.NewLogger("WorkflowStore"),
	}
}

func (s *RedisWorkflowStore) LoadWorkflowState(ctx context.Context, sessionId string) (workflowModel.WorkflowState, bool) {
	var state workflowModel.WorkflowState
	val, err := s.store.Get(ctx, workflowKeyPrefix+sessionId)
	if s.store.IsNil(err) || err != nil {
		return state, false
	}
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		s.logger.Error("Corrupt workflow state in Redis", "sessionId", sessionId, "error", err)
		return state, false
	}
	return state, true
}

func (s *RedisWorkflowStore) SaveWorkflowState(ctx context.Context, sessionId string, state workflowModel.WorkflowState) error {
	return s.setJSON(ctx, workflowKeyPrefix+sessionId, state)
}

func (s *RedisWorkflowStore) SaveBrief(ctx context.Context, sessionId string, brief briefModel.Brief) error {
	return s.setJSON(ctx, briefKeyPrefix+sessionId, brief)
}

func (s *RedisWorkflowStore) SaveMotivations(ctx context.Context, sessionId string, motivations []briefModel.Motivation) error {
	return s.setJSON(ctx, motivationsKeyPrefix+sessionId, motivations)
}

func (s *RedisWorkflowStore) SaveCopyVariants(ctx context.Context, sessionId string, variants []briefModel.CopyVariant) error {
	return s.setJSON(ctx, copyKeyPrefix+sessionId, variants)
}

func (s *RedisWorkflowStore) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, data, config.RedisWorkflowStoreTTL)
}

func TestWorkflowStore(store *redisStore.Store) *RedisWorkflowStore {
	return &RedisWorkflowStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
