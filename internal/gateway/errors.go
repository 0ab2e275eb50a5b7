package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dverbeek/mockmate/internal/interview"
	"github.com/dverbeek/mockmate/internal/provider"
)

// errorResponse is the JSON error payload shared by every endpoint.
type errorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// writeError sends the JSON error payload with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     msg,
		Timestamp: now().UTC().Format(time.RFC3339),
	})
}

// writePipelineError maps a pipeline failure to a status and a safe public
// message. Provider errors surface as upstream failures; anything
// unexpected becomes a generic 500 so internal detail never leaks.
func (g *Gateway) writePipelineError(w http.ResponseWriter, err error) {
	var stageErr *interview.StageError
	stage := "pipeline"
	if errors.As(err, &stageErr) {
		stage = string(stageErr.Stage)
	}
	g.metrics.RecordStageError(stage)

	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "speech provider is not configured")
	case errors.Is(err, provider.ErrEmptyText):
		writeError(w, http.StatusBadRequest, "text must not be blank")
	case errors.Is(err, provider.ErrRateLimit):
		writeError(w, http.StatusServiceUnavailable, "speech provider is rate limiting requests")
	case errors.Is(err, provider.ErrProviderDown), errors.Is(err, provider.ErrBadResponse):
		writeError(w, http.StatusBadGateway, "speech provider request failed")
	default:
		g.logger.Error("interview request failed", "stage", stage, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	g.logger.Warn("interview request failed", "stage", stage, "error", err)
}
