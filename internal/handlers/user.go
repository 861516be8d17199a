package handlers

import (
	"net/http"

	"github.com/PickAim/jarvis-backend/internal/handlers/render"
	"github.com/PickAim/jarvis-backend/internal/handlers/userctx"
	"github.com/PickAim/jarvis-backend/internal/models"
)

func handleUserMe() http.Handler {
	type response struct {
		ID        int64            `json:"id"`
		Privilege models.Privilege `json:"privilege"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := userctx.FromContext(r.Context())
		render.JSON(w, response{ID: user.ID, Privilege: user.Privilege})
	})
}
