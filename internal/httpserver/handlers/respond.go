package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ssRohan-32/link-organizer/internal/auth"
	"github.com/ssRohan-32/link-organizer/internal/domain"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/mw"
	"github.com/ssRohan-32/link-organizer/internal/logger"
	"github.com/ssRohan-32/link-organizer/internal/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps well-known domain errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateName):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// requestSession resolves the caller's session, hydrating it on first
// use. Responds itself on failure and returns nil.
func requestSession(d deps.Deps, w http.ResponseWriter, r *http.Request) *session.Session {
	userID := mw.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}

	sess, err := d.Sessions.Get(r.Context(), userID)
	if err != nil {
		d.Logger.Error("failed to open session",
			logger.String("user_id", userID),
			logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return nil
	}
	sess.Touch()
	return sess
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// courseView is the wire shape of a course. Link lists marshal in
// insertion order per folder.
type courseView struct {
	ID      string                   `json:"id"`
	Name    string                   `json:"name"`
	Folders []string                 `json:"folders"`
	Links   map[string][]domain.Link `json:"links"`
}

func viewCourse(c *domain.Course) courseView {
	return courseView{
		ID:      c.ID,
		Name:    c.Name,
		Folders: c.Folders,
		Links:   c.Links,
	}
}
