package extract

import (
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
)

// EstimateTokens approximates a tokenizer with a fixed chars-per-token
// ratio (config.CharsPerToken, 4 bytes per token, rounded up). The
// approximation is deliberate: it is deterministic and cheap, and chunk
// boundaries derived from it are stable enough to assert in tests.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + config.CharsPerToken - 1) / config.CharsPerToken
}

// ChunkText splits text into token-bounded windows. Each chunk estimates at
// most tokenBudget tokens and consecutive chunks share overlapTokens of
// trailing/leading context. Text within budget comes back as a single chunk
// with no overlap applied. Chunks fully cover the source text.
func ChunkText(text string, tokenBudget int, overlapTokens int) []briefModel.TextChunk {
	if text == "" {
		return nil
	}
	if EstimateTokens(text) <= tokenBudget {
		return []briefModel.TextChunk{{
			Index:         0,
			Text:          text,
			TokenEstimate: EstimateTokens(text),
		}}
	}

	budgetChars := tokenBudget * config.CharsPerToken
	overlapChars := overlapTokens * config.CharsPerToken
	stride := budgetChars - overlapChars

	var chunks []briefModel.TextChunk
	for start := 0; start < len(text); start += stride {
		end := start + budgetChars
		if end > len(text) {
			end = len(text)
		}
		span := text[start:end]
		chunks = append(chunks, briefModel.TextChunk{
			Index:         len(chunks),
			Text:          span,
			TokenEstimate: EstimateTokens(span),
			Overlap:       start > 0,
		})
		if end == len(text) {
			break
		}
	}
	return chunks
}
