package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/config"
)

// CompleteJSONInto runs one structured call with an explicit timeout,
// strips wrapper artifacts from the payload and unmarshals it into out.
// A malformed payload is re-requested up to config.LLMMaxRetries times
// with backoff; timeouts are not retried here, the caller decides whether
// to fall back. Retry is capped by design, never open-ended.
func CompleteJSONInto(ctx context.Context, client StructuredClient, system string, user string, out any) error {
	if client == nil {
		return apperrors.AITimeout(errors.New("no model provider configured"))
	}

	var lastErr error
	for attempt := 0; attempt <= config.LLMMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.AITimeout(ctx.Err())
			case <-time.After(config.LLMRetryBackoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, config.LLMCallTimeout)
		raw, err := client.CompleteJSON(callCtx, system, user)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return apperrors.AITimeout(err)
			}
			lastErr = apperrors.MalformedResponse(err)
			continue
		}

		if err := ParseJSONPayload(raw, out); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// ParseJSONPayload strips known wrapper patterns (markdown code fences,
// leading narration before the first brace) and unmarshals what remains.
// Anything still unparsable is a malformed-response error, never a raw
// json error escaping to callers.
func ParseJSONPayload(raw string, out any) error {
	cleaned := StripCodeFences(raw)
	cleaned = sliceToJSONBody(cleaned)
	if cleaned == "" {
		return apperrors.MalformedResponse(errors.New("empty payload"))
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return apperrors.MalformedResponse(err)
	}
	return nil
}

// StripCodeFences removes a surrounding ``` or ```json fence if present.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		s = s[idx+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// sliceToJSONBody cuts the payload down to the outermost JSON object or
// array, tolerating narration the model wrapped around it.
func sliceToJSONBody(s string) string {
	objStart := strings.IndexAny(s, "{[")
	if objStart < 0 {
		return ""
	}
	var objEnd int
	if s[objStart] == '{' {
		objEnd = strings.LastIndex(s, "}")
	} else {
		objEnd = strings.LastIndex(s, "]")
	}
	if objEnd <= objStart {
		return ""
	}
	return s[objStart : objEnd+1]
}
