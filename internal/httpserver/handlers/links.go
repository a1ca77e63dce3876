package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
)

type createLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// folderParam returns the folder path segment with escapes resolved.
// Folder names routinely contain spaces.
func folderParam(r *http.Request) string {
	raw := chi.URLParam(r, "folder")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// CreateLink appends a link to a folder.
func CreateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		var req createLinkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Title == "" || req.URL == "" {
			writeError(w, http.StatusBadRequest, "title and url are required")
			return
		}

		courseID := chi.URLParam(r, "courseID")
		link := domain.Link{Title: req.Title, URL: req.URL}
		if err := sess.Exec.AddLink(r.Context(), courseID, folderParam(r), link); err != nil {
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

// DeleteLink removes the link at the given position and arms the undo
// slot.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || index < 0 {
			writeError(w, http.StatusBadRequest, "invalid link index")
			return
		}

		err = sess.Exec.DeleteLink(r.Context(), chi.URLParam(r, "courseID"), folderParam(r), index)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
