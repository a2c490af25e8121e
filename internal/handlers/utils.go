package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/credon/authserver/types"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

// ErrorResponse is the envelope for all error replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

func withPrincipal(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, user)
}

// PrincipalFromContext returns the authenticated user attached by the
// access gate.
func PrincipalFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextPrincipalKey).(types.User)
	return user, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
