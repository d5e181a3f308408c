package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"triforge-backend/pkg/auth"
	pkgerrors "triforge-backend/pkg/errors"
)

// RequireAuth validates the bearer access token and stores the caller's
// identity in the request context. Requests without a valid token are
// rejected.
func RequireAuth(tokens *auth.JWTService, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "Missing authentication token")
				return
			}

			claims, err := tokens.ValidateAccessToken(token)
			if err != nil {
				logger.Warn("Rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				respondUnauthorized(w, unauthorizedMessage(err))
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID:   claims.UserID,
				Username: claims.Username,
				Email:    claims.Email,
			})
			ctx = auth.SetClaimsInContext(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the caller's identity when a valid access token is
// present and passes the request through untouched otherwise. Handlers fall
// back to the body user_id, then to a fresh UUID per request.
func OptionalAuth(tokens *auth.JWTService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if claims, err := tokens.ValidateAccessToken(token); err == nil {
					ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
						UserID:   claims.UserID,
						Username: claims.Username,
						Email:    claims.Email,
					})
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies a per-client sliding window. Authenticated callers are
// limited by user ID, anonymous ones by client IP, so it must run after the
// auth middleware to see the resolved identity. A nil limiter disables the
// middleware.
func RateLimit(limiter auth.RateLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				key = "user:" + user.UserID
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Error("Rate limiter error", zap.Error(err))
				respondError(w, http.StatusInternalServerError, string(pkgerrors.ErrorTypeInternal), "Internal server error")
				return
			}
			if !allowed {
				respondError(w, http.StatusTooManyRequests, string(pkgerrors.ErrorTypeRateLimit), "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken pulls the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(header)
}

// clientIP extracts the client IP address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	case errors.Is(err, auth.ErrWrongTokenType):
		return "Wrong token type"
	default:
		return "Invalid token"
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondError(w, http.StatusUnauthorized, string(pkgerrors.ErrorTypeUnauthorized), message)
}

// respondError writes the same JSON error shape the application's error
// handler produces, so middleware rejections look identical to handler ones.
func respondError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"type":    errType,
		"message": message,
	})
}
