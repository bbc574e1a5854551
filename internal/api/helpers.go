package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/kettleworks/recipe-proxy/pkg/fetch"
	"github.com/kettleworks/recipe-proxy/pkg/upstream"
)

// validationError is the 400 response body: what was wrong plus, where
// helpful, an example of a valid call.
type validationError struct {
	Error   string `json:"error"`
	Example string `json:"example,omitempty"`
}

// upstreamError is the 502 response body, carrying the upstream
// diagnostics for the caller.
type upstreamError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// writeValidationError answers a request that failed presence checks.
// No cache or upstream interaction has happened at this point.
func writeValidationError(w http.ResponseWriter, message, example string) {
	writeJSON(w, http.StatusBadRequest, validationError{
		Error:   message,
		Example: example,
	})
}

// writeRawJSON writes an already-encoded JSON payload.
func writeRawJSON(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// writeFetchError maps an orchestrator failure to the inbound response:
// upstream failures become 502 with the upstream diagnostics, anything
// else a plain 500.
func writeFetchError(w http.ResponseWriter, err error) {
	var upErr *upstream.Error
	if errors.As(err, &upErr) {
		writeJSON(w, http.StatusBadGateway, upstreamError{
			Error:   "upstream request failed",
			Details: upErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, upstreamError{
		Error:   "internal error",
		Details: err.Error(),
	})
}

// writeResult annotates and writes an orchestrator result.
func writeResult(w http.ResponseWriter, result *fetch.Result) {
	annotated, err := result.Annotated()
	if err != nil {
		writeFetchError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, annotated)
}
