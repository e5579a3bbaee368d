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

const motivationSchema = `{"motivations": [{"text": "string, one strategic motivation", "rationale": "string, why it fits the brief"}]}`

type motivationPayload struct {
	Motivations []struct {
		Text      string `json:"text"`
		Rationale string `json:"rationale"`
	} `json:"motivations"`
}

// MotivationGenerator produces selectable strategic motivations from a
// confirmed brief. Unlike extraction there is no heuristic substitute for
// generation, so failures surface as retryable job errors.
type MotivationGenerator struct {
	client llm.StructuredClient
	logger *logger_i.Logger
}

func NewMotivationGenerator(client llm.StructuredClient) *MotivationGenerator {
	return &MotivationGenerator{
		client: client,
		logger: logger_i.NewLogger("Motivation Generator"),
	}
}

func (g *MotivationGenerator) Generate(ctx context.Context, brief briefModel.Brief) ([]briefModel.Motivation, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("motivation_generation", time.Since(start)) }()

	user := fmt.Sprintf(
		"Propose %d distinct strategic motivations for the campaign brief below.\n"+
			"Answer with strict JSON matching this schema:\n%s\n\nBrief:\n%s",
		config.MotivationTargetCount, motivationSchema, describeBrief(brief),
	)

	var payload motivationPayload
	if err := llm.CompleteJSONInto(ctx, g.client, config.GenerationSystemContext, user, &payload); err != nil {
		return nil, err
	}

	var motivations []briefModel.Motivation
	for _, m := range payload.Motivations {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		motivations = append(motivations, briefModel.Motivation{
			Id:        utils.GetNewUUID(),
			Text:      text,
			Rationale: strings.TrimSpace(m.Rationale),
		})
	}
	if len(motivations) == 0 {
		return nil, apperrors.MalformedResponse(errors.New("no usable motivations in payload"))
	}
	return motivations, nil
}

func describeBrief(brief briefModel.Brief) string {
	var sb strings.Builder
	writeField := func(label string, value string) {
		if strings.TrimSpace(value) != "" {
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteString("\n")
		}
	}
	writeField("Title", brief.Title)
	writeField("Objective", brief.Objective)
	writeField("Target audience", brief.TargetAudience)
	writeField("Value proposition", brief.ValueProposition)
	writeField("Product", brief.Product)
	writeField("Industry", brief.Industry)
	if len(brief.KeyMessages) > 0 {
		writeField("Key messages", strings.Join(brief.KeyMessages, "; "))
	}
	if len(brief.Platforms) > 0 {
		writeField("Platforms", strings.Join(brief.Platforms, ", "))
	}
	writeField("Constraints", brief.Constraints)
	writeField("Budget", brief.Budget)
	writeField("Timeline", brief.Timeline)
	return sb.String()
}
