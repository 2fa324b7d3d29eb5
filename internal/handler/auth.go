package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"dskcredit/internal/service"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func LoginHandler(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := authSvc.Authenticate(req.Password); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAdminDisabled):
				http.Error(w, "invalid password", http.StatusUnauthorized)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		token, err := authSvc.IssueToken()
		if err != nil {
			slog.Error("token generation failed", "error", err)
			http.Error(w, "token generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Authorization", "Bearer "+token)
		render.JSON(w, r, loginResponse{Token: token})
	}
}
