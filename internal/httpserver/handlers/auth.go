package handlers

import (
	"net/http"

	"github.com/ssRohan-32/link-organizer/internal/httpserver/deps"
	"github.com/ssRohan-32/link-organizer/internal/logger"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// SignUp registers a new account and returns a bearer token.
func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		token, err := d.Auth.SignUp(r.Context(), req.Email, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		d.Logger.Info("user signed up", logger.String("email", req.Email))
		writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
	}
}

// SignIn verifies credentials and returns a bearer token.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		token, err := d.Auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tokenResponse{Token: token})
	}
}
