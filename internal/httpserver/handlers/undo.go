package handlers

import (
	"net/http"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
)

type undoResponse struct {
	Restored bool `json:"restored"`
}

type pendingUndoResponse struct {
	Pending   bool      `json:"pending"`
	Kind      string    `json:"kind,omitempty"`
	DeletedAt time.Time `json:"deleted_at,omitempty"`
}

// Undo restores the most recent deletion if its window has not expired.
// Restored is false when there is nothing to undo.
func Undo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		restored, err := sess.Exec.Undo(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, undoResponse{Restored: restored})
	}
}

// PendingUndo reports whether a deletion is still undoable.
func PendingUndo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		pd, ok := sess.Exec.PendingUndo()
		if !ok {
			writeJSON(w, http.StatusOK, pendingUndoResponse{Pending: false})
			return
		}
		writeJSON(w, http.StatusOK, pendingUndoResponse{
			Pending:   true,
			Kind:      string(pd.Kind),
			DeletedAt: pd.DeletedAt,
		})
	}
}
