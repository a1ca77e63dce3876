package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/handlers"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/mw"
)

func init() { Register(registerCourses) }

func registerCourses(r chi.Router, d deps.Deps) {
	authed := r.With(
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.Authenticate(d.Auth, d.LocalMode, d.Logger),
	)

	authed.Route("/courses", func(r chi.Router) {
		r.Get("/", handlers.ListCourses(d))
		r.Post("/", handlers.CreateCourse(d))
		r.Get("/{courseID}", handlers.GetCourse(d))
		r.Delete("/{courseID}", handlers.DeleteCourse(d))

		r.Post("/{courseID}/folders", handlers.CreateFolder(d))
		r.Delete("/{courseID}/folders/{folder}", handlers.DeleteFolder(d))

		r.Post("/{courseID}/folders/{folder}/links", handlers.CreateLink(d))
		r.Delete("/{courseID}/folders/{folder}/links/{index}", handlers.DeleteLink(d))
	})

	authed.Post("/undo", handlers.Undo(d))
	authed.Get("/undo", handlers.PendingUndo(d))
	authed.Get("/notices", handlers.Notices(d))
}
