package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"autodevstack/internal/aiservice"
	"autodevstack/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// degradedStatus maps the failure behind a degraded AI result to a status.
// Upstream Hub statuses are not forwarded: any remote failure is a 502.
func degradedStatus(err error) int {
	switch {
	case aiservice.IsMissingToken(err):
		return http.StatusServiceUnavailable
	case err == nil:
		return http.StatusBadGateway
	}
	var he HTTPError
	if errors.As(err, &he) && he.StatusCode() == http.StatusTooManyRequests {
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}
