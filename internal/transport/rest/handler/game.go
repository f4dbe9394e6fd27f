package handler

import (
	"buzz/internal/service"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// GameHandler serves the read-only game catalog
type GameHandler struct {
	gameSvc *service.GameService
}

func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// List handles GET /games with an optional ?category= filter
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameSvc.ListGames(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// Get handles GET /games/{slug}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameSvc.GetGame(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// Categories handles GET /categories
func (h *GameHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.gameSvc.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
