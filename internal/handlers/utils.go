package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/adforge/briefapi/internal/adapter"
	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/config"
	"github.com/adforge/briefapi/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateId(id string, traceId string) (result jobModel.Job, isFound bool) {
	if id == "" {
		logRH.Warn("Empty Job ID")
		return jobModel.Job{}, false
	}
	return GetJobStatus(id, traceId)
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY).(string))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// writeWorkflowError translates the error taxonomy into status codes:
// a transition attempted from the wrong step is a conflict, a session
// nobody has seen is a 404, everything else is the caller's fault.
func writeWorkflowError(w http.ResponseWriter, sessionId string, err error) {
	switch {
	case apperrors.IsWorkflowState(err):
		WriteErrorResponse(w, http.StatusConflict, sessionId, err.Error())
	case apperrors.IsNotFound(err):
		WriteErrorResponse(w, http.StatusNotFound, sessionId, err.Error())
	default:
		WriteErrorResponse(w, http.StatusBadRequest, sessionId, err.Error())
	}
}

func getTargetDirectory() (string, string) {
	root, err := os.Getwd()
	if err != nil {
		return "", "Storage Error"
	}

	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}
