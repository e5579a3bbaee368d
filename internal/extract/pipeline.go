package extract

import (
	"context"
	"sync"
	"time"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/llm"
	"github.com/adforge/briefapi/internal/metrics"
	"github.com/adforge/briefapi/pkg/logger_i"
)

// Pipeline turns an uploaded document into a canonical brief. Aside from
// the model boundary it is a pure function of (bytes, configuration): safe
// to re-run on the same input. Every recoverable failure is absorbed down
// to heuristic extraction; only unsupported formats and oversized payloads
// reject the upload.
type Pipeline struct {
	client llm.StructuredClient
	logger *logger_i.Logger
}

func NewPipeline(client llm.StructuredClient) *Pipeline {
	return &Pipeline{
		client: client,
		logger: logger_i.NewLogger("Extraction Pipeline"),
	}
}

func (p *Pipeline) Run(ctx context.Context, doc briefModel.UploadedDocument) (briefModel.Brief, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("brief_extraction", time.Since(start)) }()

	if int64(len(doc.Data)) > config.MaxUploadBytes {
		return briefModel.Brief{}, apperrors.SizeLimit(int64(len(doc.Data)), config.MaxUploadBytes)
	}

	format := DetectFormat(doc.Filename, doc.MediaType)
	if format == briefModel.FormatUnknown {
		return briefModel.Brief{}, apperrors.UnsupportedFormat(doc.MediaType)
	}
	p.logger.Debug("Processing document", "filename", doc.Filename, "format", format)

	extracted := p.extractText(doc, format)
	if extracted.Text == "" {
		// nothing salvageable at all: an explicit empty fallback brief
		p.logger.Warn("No text salvaged from document", "filename", doc.Filename)
		metrics.IncrementExtractionFallback()
		return briefModel.Brief{FromFallback: true}, nil
	}

	chunks := ChunkText(extracted.Text, config.ChunkTokenBudget, config.ChunkOverlapTokens)
	p.logger.Debug("Processing document", "chunks", len(chunks), "tokens", EstimateTokens(extracted.Text))

	outcomes := p.extractChunks(ctx, chunks)

	anySuccess := false
	for _, outcome := range outcomes {
		if outcome.Source == briefModel.OutcomeSuccess {
			anySuccess = true
			break
		}
	}
	if !anySuccess {
		// every chunk failed the model path: the whole brief comes from the
		// heuristic extractor over the full text
		p.logger.Warn("All chunks fell back to heuristic extraction", "filename", doc.Filename)
		metrics.IncrementExtractionFallback()
		brief := HeuristicExtract(extracted.Text)
		brief.FromFallback = true
		return brief, nil
	}

	brief := MergeOutcomes(outcomes)
	return brief, nil
}

// extractText runs the format's extractor and salvages printable runs when
// the container is corrupt. Extractor failures never leave the pipeline.
func (p *Pipeline) extractText(doc briefModel.UploadedDocument, format briefModel.DocFormat) briefModel.ExtractedText {
	extractor, err := extractorFor(format)
	if err != nil {
		// detection already filtered unsupported formats; treat as salvage
		return briefModel.ExtractedText{Text: SalvageText(doc.Data), Format: format, Method: briefModel.MethodFallback}
	}

	text, err := extractor.extract(doc)
	if err != nil {
		p.logger.Error("Primary extraction failed, salvaging", "format", format, "error", err)
		return briefModel.ExtractedText{Text: SalvageText(doc.Data), Format: format, Method: briefModel.MethodFallback}
	}
	return briefModel.ExtractedText{Text: text, Format: format, Method: briefModel.MethodPrimary}
}

// extractChunks processes chunks with bounded parallelism. Chunks are
// independent until the merge; results land in their original slot so the
// merge order never depends on completion order. A chunk whose model call
// fails gets a per-chunk heuristic fallback, not the whole document.
func (p *Pipeline) extractChunks(ctx context.Context, chunks []briefModel.TextChunk) []briefModel.ChunkOutcome {
	outcomes := make([]briefModel.ChunkOutcome, len(chunks))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.ChunkWorkerLimit)

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk briefModel.TextChunk) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcomes[i] = p.extractOneChunk(ctx, chunk)
		}(i, chunk)
	}
	wg.Wait()
	return outcomes
}

func (p *Pipeline) extractOneChunk(ctx context.Context, chunk briefModel.TextChunk) briefModel.ChunkOutcome {
	if p.client != nil {
		brief, err := ExtractChunk(ctx, p.client, chunk.Text)
		if err == nil {
			return briefModel.ChunkOutcome{Index: chunk.Index, Source: briefModel.OutcomeSuccess, Brief: brief}
		}
		p.logger.Warn("Chunk model call failed, using heuristic fallback",
			"chunk", chunk.Index, "timeout", apperrors.IsAITimeout(err), "error", err)
	}

	metrics.IncrementExtractionFallback()
	return briefModel.ChunkOutcome{
		Index:  chunk.Index,
		Source: briefModel.OutcomeFallback,
		Brief:  HeuristicExtract(chunk.Text),
	}
}
