package extract

import (
	"sort"
	"strings"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

// MergeOutcomes folds per-chunk partial briefs into one canonical brief.
// Outcomes are processed in original chunk order regardless of completion
// order; the merge only ever reads the partial brief payload, so success
// and fallback chunks are treated uniformly.
//
// Policy: scalar fields keep the first non-empty value (chunk 0 opens the
// document and conventionally states its subject up front); list fields are
// the union across chunks in first-seen order, deduplicated by trimmed
// case-insensitive equality.
func MergeOutcomes(outcomes []briefModel.ChunkOutcome) briefModel.Brief {
	sorted := make([]briefModel.ChunkOutcome, len(outcomes))
	copy(sorted, outcomes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	var merged briefModel.Brief
	for _, outcome := range sorted {
		if outcome.Source == briefModel.OutcomeFailed {
			continue
		}
		merged = mergeBrief(merged, outcome.Brief)
	}
	return merged
}

func mergeBrief(into briefModel.Brief, from briefModel.Brief) briefModel.Brief {
	mergeScalar(&into.Title, from.Title)
	mergeScalar(&into.Objective, from.Objective)
	mergeScalar(&into.TargetAudience, from.TargetAudience)
	mergeScalar(&into.ValueProposition, from.ValueProposition)
	mergeScalar(&into.Product, from.Product)
	mergeScalar(&into.Industry, from.Industry)
	mergeScalar(&into.Constraints, from.Constraints)
	mergeScalar(&into.Budget, from.Budget)
	mergeScalar(&into.Timeline, from.Timeline)

	into.KeyMessages = mergeList(into.KeyMessages, from.KeyMessages)
	into.Platforms = mergeList(into.Platforms, from.Platforms)
	return into
}

func mergeScalar(target *string, candidate string) {
	if strings.TrimSpace(*target) != "" {
		return
	}
	if strings.TrimSpace(candidate) != "" {
		*target = candidate
	}
}

func mergeList(existing []string, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[normalizeListItem(v)] = true
	}
	for _, v := range incoming {
		norm := normalizeListItem(v)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		existing = append(existing, strings.TrimSpace(v))
	}
	return existing
}

func normalizeListItem(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
