package extract

import (
	"context"
	"fmt"

	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/briefModel"
	"github.com/adforge/briefapi/internal/llm"
)

// briefSchema is the output contract sent with every extraction call. The
// model must answer with this shape and nothing else; wrapper artifacts are
// stripped before parsing.
const briefSchema = `{
  "title": "string, the campaign or brief title",
  "objective": "string, what the campaign must achieve",
  "target_audience": "string, who the campaign addresses",
  "value_proposition": "string, optional",
  "product": "string, optional",
  "industry": "string, optional",
  "key_messages": ["string, ordered"],
  "platforms": ["string, e.g. instagram, youtube"],
  "constraints": "string, optional",
  "budget": "string, optional",
  "timeline": "string, optional"
}`

// partialBrief is the wire shape of one chunk's extraction result. Fields
// absent from the chunk simply stay empty and lose to earlier chunks in the
// merge.
type partialBrief struct {
	Title            string   `json:"title"`
	Objective        string   `json:"objective"`
	TargetAudience   string   `json:"target_audience"`
	ValueProposition string   `json:"value_proposition"`
	Product          string   `json:"product"`
	Industry         string   `json:"industry"`
	KeyMessages      []string `json:"key_messages"`
	Platforms        []string `json:"platforms"`
	Constraints      string   `json:"constraints"`
	Budget           string   `json:"budget"`
	Timeline         string   `json:"timeline"`
}

func (p partialBrief) toBrief() briefModel.Brief {
	return briefModel.Brief{
		Title:            p.Title,
		Objective:        p.Objective,
		TargetAudience:   p.TargetAudience,
		ValueProposition: p.ValueProposition,
		Product:          p.Product,
		Industry:         p.Industry,
		KeyMessages:      p.KeyMessages,
		Platforms:        p.Platforms,
		Constraints:      p.Constraints,
		Budget:           p.Budget,
		Timeline:         p.Timeline,
	}
}

// ExtractChunk sends one chunk through the model boundary and parses the
// structured payload. Timeout and bounded retry live in the llm helper;
// the caller decides how to fall back on error.
func ExtractChunk(ctx context.Context, client llm.StructuredClient, chunkText string) (briefModel.Brief, error) {
	user := fmt.Sprintf(
		"Extract the creative-brief fields from the document text below.\n"+
			"Answer with strict JSON matching this schema, omitting fields the text does not state:\n%s\n\nDocument text:\n%s",
		briefSchema, chunkText,
	)

	var partial partialBrief
	if err := llm.CompleteJSONInto(ctx, client, config.ExtractionSystemContext, user, &partial); err != nil {
		return briefModel.Brief{}, err
	}
	return partial.toBrief(), nil
}
