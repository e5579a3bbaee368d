package workflow

import (
	"github.com/adforge/briefapi/internal/apperrors"
)

func errSessionNotFound(sessionId string) error {
	return apperrors.NotFound("no workflow session " + sessionId)
}
