package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Mode     string `json:"mode,omitempty"`
	Sessions *int   `json:"sessions,omitempty"`
	Impact   string `json:"impact,omitempty"`
	Error    string `json:"error,omitempty"`
}

type infraResponse struct {
	StorageMode string                     `json:"storage_mode"`
	Components  map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		sessionCount := d.Sessions.Count()

		components := map[string]componentStatus{
			"sessions": {
				OK:       true,
				Sessions: &sessionCount,
			},
			"storage": checkStorage(d),
		}

		mode := "remote"
		if d.LocalMode {
			mode = "local"
		} else if !components["storage"].OK {
			mode = "degraded"
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			StorageMode: mode,
			Components:  components,
		})
	}
}

func checkStorage(d deps.Deps) componentStatus {
	if d.LocalMode {
		return componentStatus{
			OK:     true,
			Mode:   "local-file",
			Impact: "single-user",
		}
	}

	if d.RedisClient == nil {
		return componentStatus{
			OK:    false,
			Mode:  "degraded",
			Error: "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "sync-failing",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "redis",
	}
}
