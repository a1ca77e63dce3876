package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/handlers"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	// Local mode has no accounts; every request is the local user.
	if d.LocalMode || d.Auth == nil {
		return
	}

	limited := r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             5,
			RefillPerIPPerMin: 10,
			MaxEntries:        10_000,
			SweepInterval:     time.Minute,
			IdleTTL:           15 * time.Minute,
			TrustProxy:        d.TrustProxy,
		}),
	)
	limited.Post("/auth/signup", handlers.SignUp(d))
	limited.Post("/auth/login", handlers.SignIn(d))
}
