package controllers

import (
	"net/http"

	"github.com/monoshelf/monoshelf-backend/api/middleware"
	"github.com/monoshelf/monoshelf-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if login := middleware.LoginFromContext(r.Context()); login != "" {
			payload["login"] = login
		}
		responses.WriteSuccess(w, payload)
	}
}
