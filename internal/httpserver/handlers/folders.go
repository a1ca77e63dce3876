package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
)

type createFolderRequest struct {
	Name string `json:"name"`
}

// CreateFolder appends a folder to a course.
func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		var req createFolderRequest
		if !decodeBody(w, r, &req) {
			return
		}

		courseID := chi.URLParam(r, "courseID")
		if err := sess.Exec.AddFolder(r.Context(), courseID, req.Name); err != nil {
			writeDomainError(w, err)
			return
		}

		course, ok := sess.Exec.Course(courseID)
		if !ok {
			writeError(w, http.StatusNotFound, "course not found")
			return
		}
		writeJSON(w, http.StatusOK, viewCourse(course))
	}
}

// DeleteFolder removes a folder with its links and arms the undo slot.
func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		err := sess.Exec.DeleteFolder(r.Context(), chi.URLParam(r, "courseID"), chi.URLParam(r, "folder"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
