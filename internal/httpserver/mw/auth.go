package mw

import (
	"context"
	"net/http"
	"strings"

	"github.com/ssRohan-32/link-organizer/internal/auth"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/session"
)

type userIDKey struct{}

// UserID returns the authenticated user's id stored by Authenticate.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// Authenticate resolves the request's user. In local mode every request
// maps to the fixed local user. Otherwise a valid bearer token is
// required and its subject becomes the request user.
func Authenticate(svc *auth.Service, localMode bool, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if localMode {
				next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), session.LocalUserID)))
				return
			}

			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := svc.UserID(token)
			if err != nil {
				log.Debug("rejected bearer token", logger.Error(err))
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
