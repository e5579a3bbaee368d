package llm

import "context"

// StructuredClient is the language-model extraction boundary: a single call
// taking prompt text plus a schema description and returning the raw model
// payload. Implementations live per provider; everything above this
// interface must keep working when it is unavailable.
type StructuredClient interface {
	CompleteJSON(ctx context.Context, system string, user string) (string, error)
}
