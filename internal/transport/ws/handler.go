package ws

import (
	"buzz/internal/service"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Close codes for rejected connections
const (
	CloseNoToken      = 4001
	CloseInvalidToken = 4002
	CloseRoomNotFound = 4004
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS for ws is handled by the token requirement
	},
}

// Handler upgrades and registers room connections
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	roomSvc *service.RoomService
	log     *slog.Logger
}

func NewHandler(hub *Hub, authSvc *service.AuthService, roomSvc *service.RoomService, log *slog.Logger) *Handler {
	return &Handler{hub: hub, authSvc: authSvc, roomSvc: roomSvc, log: log}
}

// RoomWS handles GET /ws/{code}?token=. The token is validated before the
// connection enters the registry; rejected connections are closed with a
// distinct code per failure. On success the server immediately pushes one
// room_update with the full current room.
func (h *Handler) RoomWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		closeWith(wsConn, CloseNoToken, "missing token")
		return
	}

	user, err := h.authSvc.VerifyToken(r.Context(), token)
	if err != nil {
		closeWith(wsConn, CloseInvalidToken, "invalid token")
		return
	}

	room, err := h.roomSvc.GetRoom(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			closeWith(wsConn, CloseRoomNotFound, "room not found")
		} else {
			h.log.Error("room lookup failed during ws connect", "code", code, "error", err)
			closeWith(wsConn, websocket.CloseInternalServerErr, "internal error")
		}
		return
	}

	conn := &Connection{
		RoomCode: code,
		UserID:   user.ID,
		Send:     make(chan []byte, 256),
	}
	h.hub.Register(conn)
	h.log.Info("room connection opened", "code", code, "user", user.ID)

	// Full resync on connect: the client never needs to poll or replay.
	// Routed through the hub so delivery is serialized with eviction.
	h.hub.SendToUser(code, user.ID, service.EventRoomUpdate, room.SanitizedFor(user.ID))

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func closeWith(wsConn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = wsConn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	wsConn.Close()
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read error", "room", conn.RoomCode, "error", err)
			}
			break
		}
		// Inbound frames are accepted but not acted upon; all room
		// mutations go through the REST surface.
		h.log.Debug("inbound ws message ignored", "room", conn.RoomCode, "user", conn.UserID, "bytes", len(data))
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
