package extract

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
)

// MockStructuredClient scripts the model boundary per call
type MockStructuredClient struct {
	OnComplete func(ctx context.Context, system string, user string) (string, error)
	CallCount  int32
}

func (m *MockStructuredClient) CompleteJSON(ctx context.Context, system string, user string) (string, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.OnComplete != nil {
		return m.OnComplete(ctx, system, user)
	}
	return "{}", nil
}

func TestPipeline_HappyPath(t *testing.T) {
	mock := &MockStructuredClient{
		OnComplete: func(ctx context.Context, system string, user string) (string, error) {
			return `{"title":"Solstice Launch","objective":"Drive preorders","key_messages":["Recycled","Fast"]}`, nil
		},
	}
	p := NewPipeline(mock)

	doc := briefModel.UploadedDocument{
		Data:      []byte("Title: Solstice Launch\nObjective: Drive preorders"),
		MediaType: "text/plain",
		Filename:  "brief.txt",
	}

	brief, err := p.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if brief.Title != "Solstice Launch" || brief.Objective != "Drive preorders" {
		t.Errorf("Brief = %+v", brief)
	}
	if brief.FromFallback {
		t.Error("Model-extracted brief must not be flagged as fallback")
	}
	if got := atomic.LoadInt32(&mock.CallCount); got != 1 {
		t.Errorf("Expected 1 model call for a single-chunk document, got %d", got)
	}
}

func TestPipeline_UnsupportedFormat(t *testing.T) {
	p := NewPipeline(nil)
	doc := briefModel.UploadedDocument{
		Data:      []byte{0x50, 0x4b, 0x03, 0x04},
		MediaType: "application/zip",
		Filename:  "archive.zip",
	}

	_, err := p.Run(context.Background(), doc)
	if !apperrors.IsUnsupportedFormat(err) {
		t.Errorf("Expected unsupported-format error, got %v", err)
	}
}

func TestPipeline_SizeLimit(t *testing.T) {
	p := NewPipeline(nil)
	doc := briefModel.UploadedDocument{
		Data:      make([]byte, config.MaxUploadBytes+1),
		MediaType: "text/plain",
		Filename:  "huge.txt",
	}

	_, err := p.Run(context.Background(), doc)
	if !apperrors.IsSizeLimit(err) {
		t.Errorf("Expected size-limit error, got %v", err)
	}
}

func TestPipeline_NoClientFallsBackToHeuristics(t *testing.T) {
	p := NewPipeline(nil)
	doc := briefModel.UploadedDocument{
		Data:      []byte("Title: Heuristic Launch\nObjective: Survive without a model"),
		MediaType: "text/plain",
		Filename:  "brief.txt",
	}

	brief, err := p.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Run must absorb model unavailability, got %v", err)
	}
	if !brief.FromFallback {
		t.Error("Brief extracted without a model must be flagged as fallback")
	}
	if brief.Title != "Heuristic Launch" {
		t.Errorf("Title = %q, want the heuristic extraction", brief.Title)
	}
}

func TestPipeline_AllModelCallsFailing(t *testing.T) {
	mock := &MockStructuredClient{
		OnComplete: func(ctx context.Context, system string, user string) (string, error) {
			return "", errors.New("model melted")
		},
	}
	p := NewPipeline(mock)
	doc := briefModel.UploadedDocument{
		Data:      []byte("Objective: Keep going when the model does not"),
		MediaType: "text/plain",
		Filename:  "brief.txt",
	}

	brief, err := p.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Total model failure must degrade, not error: %v", err)
	}
	if !brief.FromFallback {
		t.Error("Brief must be flagged as fallback when every chunk degraded")
	}
	if brief.Objective != "Keep going when the model does not" {
		t.Errorf("Objective = %q", brief.Objective)
	}
}

func TestPipeline_EmptyDocumentGivesEmptyFallbackBrief(t *testing.T) {
	p := NewPipeline(nil)
	doc := briefModel.UploadedDocument{
		Data:      []byte{},
		MediaType: "text/plain",
		Filename:  "empty.txt",
	}

	brief, err := p.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Empty document must not error: %v", err)
	}
	if !brief.FromFallback || !brief.IsEmpty() {
		t.Errorf("Expected an empty fallback brief, got %+v", brief)
	}
}

func TestPipeline_MultiChunkMergesInOrder(t *testing.T) {
	//two chunks: the mock answers differently depending on which chunk text it sees
	budgetChars := config.ChunkTokenBudget * config.CharsPerToken
	padding := strings.Repeat("lorem ipsum ", budgetChars/12)
	text := "Title: Opening Chunk\n" + padding + "\nBudget: $99k trailing detail"

	mock := &MockStructuredClient{
		OnComplete: func(ctx context.Context, system string, user string) (string, error) {
			if strings.Contains(user, "Opening Chunk") {
				return `{"title":"Opening Chunk"}`, nil
			}
			return `{"title":"Trailing Chunk","budget":"$99k"}`, nil
		},
	}
	p := NewPipeline(mock)
	doc := briefModel.UploadedDocument{Data: []byte(text), MediaType: "text/plain", Filename: "long.txt"}

	brief, err := p.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if brief.Title != "Opening Chunk" {
		t.Errorf("Title = %q, first chunk must win scalars", brief.Title)
	}
	if brief.Budget != "$99k" {
		t.Errorf("Budget = %q, later chunks must fill gaps", brief.Budget)
	}
	if calls := atomic.LoadInt32(&mock.CallCount); calls < 2 {
		t.Errorf("Expected at least 2 model calls, got %d", calls)
	}
}
