package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/data/redisStore"
	"github.com/adforge/briefapi/internal/data/store"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/domain/workflowModel"
)

func newWorkflowStore(t *testing.T) (*store.RedisWorkflowStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestWorkflowStore(redisStore.NewTestStore(client)), mr
}

func TestRedisWorkflowStore_StateRoundtrip(t *testing.T) {
	wfStore, _ := newWorkflowStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	state := workflowModel.NewWorkflowState("session-77")
	state.CurrentStep = workflowModel.StepSelectMotivations
	state.BriefConfirmed = true
	state.Epoch = 4
	state.Motivations = []briefModel.Motivation{{Id: "m1", Text: "Belonging", Selected: true}}

	if err := wfStore.SaveWorkflowState(ctx, "session-77", state); err != nil {
		t.Fatalf("SaveWorkflowState failed: %v", err)
	}

	loaded, found := wfStore.LoadWorkflowState(ctx, "session-77")
	if !found {
		t.Fatal("State was saved but not found")
	}
	if loaded.CurrentStep != workflowModel.StepSelectMotivations {
		t.Errorf("CurrentStep = %v", loaded.CurrentStep)
	}
	if !loaded.BriefConfirmed || loaded.Epoch != 4 {
		t.Errorf("Flags lost in roundtrip: %+v", loaded)
	}
	if len(loaded.Motivations) != 1 || !loaded.Motivations[0].Selected {
		t.Errorf("Motivations lost in roundtrip: %+v", loaded.Motivations)
	}
}

func TestRedisWorkflowStore_MissingSession(t *testing.T) {
	wfStore, _ := newWorkflowStore(t)

	_, found := wfStore.LoadWorkflowState(context.Background(), "ghost")
	if found {
		t.Error("Expected found=false for an unknown session")
	}
}

func TestRedisWorkflowStore_CorruptPayload(t *testing.T) {
	wfStore, mr := newWorkflowStore(t)

	if err := mr.Set("wf:bad", "this is not json"); err != nil {
		t.Fatal(err)
	}
	_, found := wfStore.LoadWorkflowState(context.Background(), "bad")
	if found {
		t.Error("Corrupt payloads must behave like missing sessions")
	}
}

func TestRedisWorkflowStore_ArtifactWrites(t *testing.T) {
	wfStore, mr := newWorkflowStore(t)
	ctx := context.Background()

	brief := briefModel.Brief{Title: "Solstice", Objective: "Preorders", TargetAudience: "Runners"}
	if err := wfStore.SaveBrief(ctx, "s1", brief); err != nil {
		t.Fatalf("SaveBrief failed: %v", err)
	}
	if !mr.Exists("brief:s1") {
		t.Error("Brief key missing after SaveBrief")
	}

	if err := wfStore.SaveMotivations(ctx, "s1", []briefModel.Motivation{{Id: "m1"}}); err != nil {
		t.Fatalf("SaveMotivations failed: %v", err)
	}
	if !mr.Exists("motivations:s1") {
		t.Error("Motivations key missing")
	}

	if err := wfStore.SaveCopyVariants(ctx, "s1", []briefModel.CopyVariant{{Id: "c1"}}); err != nil {
		t.Fatalf("SaveCopyVariants failed: %v", err)
	}
	if !mr.Exists("copy:s1") {
		t.Error("Copy variants key missing")
	}
}
