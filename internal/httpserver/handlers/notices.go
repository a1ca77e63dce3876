package handlers

import (
	"net/http"

	"github.com/ssRohan-32/link-organizer/internal/executor"
	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
)

type noticesResponse struct {
	Notices []executor.Notice `json:"notices"`
}

// Notices drains and returns the warnings accumulated by background
// remote syncs since the last call.
func Notices(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := requestSession(d, w, r)
		if sess == nil {
			return
		}

		notices := sess.DrainNotices()
		if notices == nil {
			notices = []executor.Notice{}
		}
		writeJSON(w, http.StatusOK, noticesResponse{Notices: notices})
	}
}
