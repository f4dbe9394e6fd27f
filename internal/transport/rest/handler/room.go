package handler

import (
	"buzz/internal/model"
	"buzz/internal/service"
	"buzz/internal/transport/rest/middleware"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

// RoomHandler handles the room operation surface
type RoomHandler struct {
	roomSvc *service.RoomService
}

func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoomRequest is the body for POST /rooms. GameConfig is decoded
// per game type by the service.
type CreateRoomRequest struct {
	GameType   model.GameType  `json:"game_type"`
	NumPlayers int             `json:"num_players"`
	GameConfig json.RawMessage `json:"game_config"`
}

// ChatRequest is the body for POST /rooms/{code}/chat
type ChatRequest struct {
	Text string `json:"text"`
}

// Create handles POST /rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), user, req.GameType, req.NumPlayers, req.GameConfig)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Get handles GET /rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	room, err := h.roomSvc.GetRoom(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// Join handles POST /rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	room, err := h.roomSvc.JoinRoom(r.Context(), mux.Vars(r)["code"], user)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// ToggleReady handles POST /rooms/{code}/ready
func (h *RoomHandler) ToggleReady(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	room, err := h.roomSvc.ToggleReady(r.Context(), mux.Vars(r)["code"], user)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// Leave handles POST /rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	code := mux.Vars(r)["code"]

	room, err := h.roomSvc.LeaveRoom(r.Context(), code, user)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	if room == nil {
		// Last player left; the room is gone.
		writeJSON(w, http.StatusOK, map[string]string{"code": code, "status": "deleted"})
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// Start handles POST /rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	room, err := h.roomSvc.StartGame(r.Context(), mux.Vars(r)["code"], user)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// Restart handles POST /rooms/{code}/restart
func (h *RoomHandler) Restart(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	room, err := h.roomSvc.RestartGame(r.Context(), mux.Vars(r)["code"], user)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// Chat handles POST /rooms/{code}/chat
func (h *RoomHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	room, err := h.roomSvc.PostChat(r.Context(), mux.Vars(r)["code"], user, req.Text)
	if err != nil {
		writeRoomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room.SanitizedFor(user.ID))
}

// writeRoomError translates the service error taxonomy into HTTP
// responses: validation -> 400/403, not-found -> 404, conflict -> 409,
// everything else -> opaque 500.
func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrNotInRoom),
		errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotHost):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGameAlreadyStarted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnsupportedGameType),
		errors.Is(err, service.ErrBadPlayerCount),
		errors.Is(err, service.ErrMissingGameConfig),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrRoomNotJoinable),
		errors.Is(err, service.ErrNotAllReady),
		errors.Is(err, service.ErrRoomNotFilled),
		errors.Is(err, service.ErrRoleCountMismatch),
		errors.Is(err, service.ErrEmptyLocationPool),
		errors.Is(err, model.ErrMafiaTooFewPlayers),
		errors.Is(err, model.ErrMafiaNoMafia),
		errors.Is(err, model.ErrMafiaTooFewCivilians),
		errors.Is(err, model.ErrMafiaSpecialRoles),
		errors.Is(err, model.ErrMafiaNegativeCount),
		errors.Is(err, model.ErrSpyfallNoSpies),
		errors.Is(err, model.ErrSpyfallTooManySpies):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
