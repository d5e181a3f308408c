package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"triforge-backend/pkg/auth"
)

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// resolveUserID picks the effective user for a request. A verified bearer
// identity always wins, then the user_id supplied in the body, and finally
// a fresh UUID so anonymous callers still get an isolated conversation.
func resolveUserID(r *http.Request, bodyUserID string) string {
	if user, err := auth.GetUserFromContext(r.Context()); err == nil && user.UserID != "" {
		return user.UserID
	}
	if trimmed := strings.TrimSpace(bodyUserID); trimmed != "" {
		return trimmed
	}
	return uuid.New().String()
}

// callerUserID resolves the user for read endpoints that take no body: the
// bearer identity when present, otherwise an explicit user_id query
// parameter. Empty means the caller identified nobody.
func callerUserID(r *http.Request) string {
	if user, err := auth.GetUserFromContext(r.Context()); err == nil && user.UserID != "" {
		return user.UserID
	}
	return strings.TrimSpace(r.URL.Query().Get("user_id"))
}
