package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/handlers"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	restricted := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	restricted.Get("/healthz", handlers.Healthz(d))
	restricted.Get("/infra", handlers.Infra(d))
}
