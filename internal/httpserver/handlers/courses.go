package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
)

type createCourseRequest struct {
	Name string `json:"name"`
}

type coursesResponse struct {
	Courses []courseView `json:"courses"`
}

// ListCourses returns the caller's courses in creation order.
func ListCourses(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		courses := sess.Exec.Courses()
		views := make([]courseView, 0, len(courses))
		for _, c := range courses {
			views = append(views, viewCourse(c))
		}
		writeJSON(w, http.StatusOK, coursesResponse{Courses: views})
	}
}

// GetCourse returns a single course by id.
func GetCourse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		course, ok := sess.Exec.Course(chi.URLParam(r, "courseID"))
		if !ok {
			writeError(w, http.StatusNotFound, "course not found")
			return
		}
		writeJSON(w, http.StatusOK, viewCourse(course))
	}
}

// CreateCourse adds a course. The response carries the id the course is
// known by right away; a background confirmation may replace it with a
// permanent one, which the course list reflects once done.
func CreateCourse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		var req createCourseRequest
		if !decodeBody(w, r, &req) {
			return
		}

		course, err := sess.Exec.AddCourse(r.Context(), req.Name)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		// Accepted, not Created: the remote confirmation runs in the
		// background and may still replace the id or roll back.
		writeJSON(w, http.StatusAccepted, viewCourse(course))
	}
}

// DeleteCourse removes a course and arms the undo slot.
func DeleteCourse(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		if err := sess.Exec.DeleteCourse(r.Context(), chi.URLParam(r, "courseID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
