package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection is one live client in a room, tagged with its authenticated
// user id before registration
type Connection struct {
	RoomCode string
	UserID   string
	Send     chan []byte
}

type outbound struct {
	roomCode string
	userID   string // empty targets the whole room
	message  *Message
}

// Hub is the connection registry: one set of connections per room, with
// message-type discrimination left to the payload. Dead peers are evicted
// on the first failed delivery and never retried.
type Hub struct {
	log *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Connection]struct{}

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *outbound
}

func NewHub(log *slog.Logger) *Hub {
	h := &Hub{
		log:        log,
		rooms:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *outbound, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.rooms[conn.RoomCode] == nil {
				h.rooms[conn.RoomCode] = make(map[*Connection]struct{})
			}
			h.rooms[conn.RoomCode][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("connection registered", "room", conn.RoomCode, "user", conn.UserID)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.drop(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// drop removes a connection; safe to call for an already-removed one.
// Caller holds h.mu.
func (h *Hub) drop(conn *Connection) {
	conns, ok := h.rooms[conn.RoomCode]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	close(conn.Send)
	if len(conns) == 0 {
		delete(h.rooms, conn.RoomCode)
	}
	h.log.Debug("connection removed", "room", conn.RoomCode, "user", conn.UserID)
}

func (h *Hub) deliver(msg *outbound) {
	data, err := json.Marshal(msg.message)
	if err != nil {
		h.log.Error("failed to marshal ws message", "type", msg.message.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.rooms[msg.roomCode]
	if len(conns) == 0 {
		if msg.userID != "" {
			h.log.Debug("no live connection for user", "room", msg.roomCode, "user", msg.userID)
		}
		return
	}

	matched := false
	for conn := range conns {
		if msg.userID != "" && conn.UserID != msg.userID {
			continue
		}
		matched = true
		select {
		case conn.Send <- data:
		default:
			// Peer is not draining its buffer; evict it so one dead
			// connection never stalls the rest of the room.
			h.drop(conn)
		}
	}
	if !matched && msg.userID != "" {
		h.log.Debug("no live connection for user", "room", msg.roomCode, "user", msg.userID)
	}
}

// Register adds a connection to its room's set
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection; idempotent
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToRoom sends a message to every connection in a room
// (implements service.Broadcaster)
func (h *Hub) BroadcastToRoom(roomCode string, msgType string, payload any) {
	h.enqueue(roomCode, "", msgType, payload)
}

// SendToUser sends a message to the connections in a room tagged with the
// user id (implements service.Broadcaster)
func (h *Hub) SendToUser(roomCode, userID string, msgType string, payload any) {
	h.enqueue(roomCode, userID, msgType, payload)
}

func (h *Hub) enqueue(roomCode, userID, msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal ws payload", "type", msgType, "error", err)
		return
	}
	h.broadcast <- &outbound{
		roomCode: roomCode,
		userID:   userID,
		message:  &Message{Type: msgType, Payload: data},
	}
}
