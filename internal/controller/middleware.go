// internal/controller/middleware.go
package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/reviewloop/reviewloop-backend/internal/auth"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated business id set by RequireAutomation.
func UserID(r *http.Request) int {
	id, _ := r.Context().Value(userIDKey).(int)
	return id
}

// AuthMiddleware resolves the bearer token to a user and checks the
// plan entitlement. Missing/unknown token is 401; a free plan is 403
// with the reason spelled out. These are the only non-200 responses the
// automation API produces besides 400.
type AuthMiddleware struct {
	Sessions    auth.SessionResolver
	Entitlement auth.EntitlementChecker
}

func (m *AuthMiddleware) RequireAutomation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		userID, err := m.Sessions.Resolve(r.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("session resolution failed")
			writeError(w, http.StatusUnauthorized, "session lookup failed")
			return
		}
		if userID == 0 {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		ent, err := m.Entitlement.Check(userID)
		if err != nil {
			log.Error().Err(err).Int("user_id", userID).Msg("entitlement check failed")
			writeError(w, http.StatusForbidden, "could not verify subscription")
			return
		}
		if !ent.HasAccess {
			writeError(w, http.StatusForbidden, ent.Reason)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// writeJSON emits the 200 success envelope: per-job failure is data in
// the payload, not a transport-level error.
func writeJSON(w http.ResponseWriter, payload map[string]interface{}) {
	payload["success"] = true
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   reason,
	})
}
