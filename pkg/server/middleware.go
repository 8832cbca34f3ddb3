package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratamaditya/ucap/pkg/errorsx"
	"github.com/pratamaditya/ucap/pkg/store"
)

type contextKey string

const userKey contextKey = "user"

// currentUser returns the authenticated user placed by withUser.
func currentUser(r *http.Request) store.User {
	u, _ := r.Context().Value(userKey).(store.User)
	return u
}

// withUser authenticates the bearer token and stores the user on the
// request context.
func (s *Server) withUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.users.UserByToken(r.Context(), token)
		if err != nil {
			if errorsx.HasReason(err, errorsx.ReasonUnauthenticated) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			s.logger.Error("user lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// withFeature enforces the entitlement gate before the handler runs.
func (s *Server) withFeature(feature string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		ok, err := s.access.HasAccess(r.Context(), user.ID, feature)
		if err != nil {
			s.logger.Error("entitlement check failed", "feature", feature, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !ok {
			writeError(w, http.StatusForbidden, "feature not available on current plan")
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}
