package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adforge/briefapi/internal/adapter/utils"
	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/llm"
	"github.com/adforge/briefapi/internal/metrics"
	"github.com/adforge/briefapi/pkg/logger_i"
)

const copySchema = `{"variants": ["string, one standalone piece of campaign copy"]}`

type copyPayload struct {
	Variants []string `json:"variants"`
}

// CopyGenerator produces a fixed number of copy variants per selected
// motivation. Variants reference their motivation, they don't own it: a
// replaced motivation set invalidates all of them.
type CopyGenerator struct {
	client llm.StructuredClient
	logger *logger_i.Logger
}

func NewCopyGenerator(client llm.StructuredClient) *CopyGenerator {
	return &CopyGenerator{
		client: client,
		logger: logger_i.NewLogger("Copy Generator"),
	}
}

func (g *CopyGenerator) Generate(ctx context.Context, brief briefModel.Brief, motivations []briefModel.Motivation) ([]briefModel.CopyVariant, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("copy_generation", time.Since(start)) }()

	var variants []briefModel.CopyVariant
	for _, motivation := range motivations {
		if !motivation.Selected {
			continue
		}
		generated, err := g.generateForMotivation(ctx, brief, motivation)
		if err != nil {
			return nil, err
		}
		variants = append(variants, generated...)
	}
	if len(variants) == 0 {
		return nil, apperrors.WorkflowState("no selected motivations to generate copy for")
	}
	return variants, nil
}

func (g *CopyGenerator) generateForMotivation(ctx context.Context, brief briefModel.Brief, motivation briefModel.Motivation) ([]briefModel.CopyVariant, error) {
	user := fmt.Sprintf(
		"Write %d distinct copy variants for the campaign brief and motivation below.\n"+
			"Answer with strict JSON matching this schema:\n%s\n\nBrief:\n%s\nMotivation: %s\nRationale: %s",
		config.CopyVariantsPerMotivation, copySchema, describeBrief(brief), motivation.Text, motivation.Rationale,
	)

	var payload copyPayload
	if err := llm.CompleteJSONInto(ctx, g.client, config.GenerationSystemContext, user, &payload); err != nil {
		return nil, err
	}

	var variants []briefModel.CopyVariant
	for _, text := range payload.Variants {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		variants = append(variants, briefModel.CopyVariant{
			Id:           utils.GetNewUUID(),
			MotivationId: motivation.Id,
			Text:         text,
			Variant:      len(variants) + 1,
		})
		if len(variants) == config.CopyVariantsPerMotivation {
			break
		}
	}
	if len(variants) == 0 {
		return nil, apperrors.MalformedResponse(errors.New("no usable copy variants in payload"))
	}
	return variants, nil
}
