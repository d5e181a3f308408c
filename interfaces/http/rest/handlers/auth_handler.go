package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/commands"
	"triforge-backend/application/commands/bus"
	"triforge-backend/application/ports"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/pkg/auth"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/pkg/utils"
)

// AuthHandler handles login, token refresh, and session introspection
type AuthHandler struct {
	users      *auth.UserStore
	tokens     *auth.JWTService
	commandBus *bus.CommandBus
	sessions   ports.SessionStore
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	users *auth.UserStore,
	tokens *auth.JWTService,
	commandBus *bus.CommandBus,
	sessions ports.SessionStore,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		tokens:     tokens,
		commandBus: commandBus,
		sessions:   sessions,
		errors:     errorHandler,
		logger:     logger,
	}
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for refreshing tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserInfo describes the authenticated user inside a token response
type UserInfo struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	TokenType    string    `json:"token_type"`
	UserInfo     *UserInfo `json:"user_info,omitempty"`
}

// SessionResponse describes the caller's current session
type SessionResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
	IsActive  bool   `json:"is_active"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, ok := h.users.Authenticate(req.Username, req.Password)
	if !ok {
		h.logger.Warn("Login rejected", zap.String("username", req.Username))
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	// Logging in warms up the user's conversation session so the first
	// generation call does not race session creation.
	if uid, err := valueobjects.NewUserIDFromString(user.ID); err == nil {
		if err := h.sessions.Update(r.Context(), uid, func(*aggregates.Session) error { return nil }); err != nil {
			h.logger.Warn("Failed to initialize session on login",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("username", user.Username))

	respondJSON(h.logger, w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    "Bearer",
		UserInfo: &UserInfo{
			UserID:   user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	})
}

// Refresh handles POST /api/v1/auth/refresh. A valid refresh token is
// exchanged for a brand new pair, rotating the refresh token as well.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	claims, err := h.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, ok := h.users.Lookup(claims.Username)
	if !ok {
		// The account was removed since the token was issued.
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		TokenType:    "Bearer",
	})
}

// Logout handles POST /api/v1/auth/logout. Logging out drops the user's
// conversation memory along with the client-side tokens.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cmd := commands.ClearSessionCommand{UserID: user.UserID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.logger.Info("User logged out", zap.String("user_id", user.UserID))

	respondJSON(h.logger, w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	issuedAt := claims.IssuedAt.Time
	respondJSON(h.logger, w, http.StatusOK, SessionResponse{
		SessionID: fmt.Sprintf("session_%s_%d", claims.UserID, issuedAt.Unix()),
		UserID:    claims.UserID,
		Email:     claims.Email,
		Username:  claims.Username,
		CreatedAt: issuedAt.UTC().Format(time.RFC3339),
		ExpiresAt: claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
		IsActive:  true,
	})
}

// Validate handles POST /api/v1/auth/validate
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.GetClaimsFromContext(r.Context())
	if err != nil {
		h.errors.HandleStatus(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"valid":      true,
		"user_id":    claims.UserID,
		"username":   claims.Username,
		"email":      claims.Email,
		"expires_at": claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	})
}
