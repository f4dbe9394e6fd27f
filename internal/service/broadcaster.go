package service

// Broadcaster is the live-connection fan-out used after every successful
// room mutation (implemented by the ws hub; interface avoids an import
// cycle).
type Broadcaster interface {
	// BroadcastToRoom delivers the event to every connection in the room.
	BroadcastToRoom(roomCode string, msgType string, payload any)
	// SendToUser delivers the event only to the room connections tagged
	// with the user id. No live connection for the user is a no-op.
	SendToUser(roomCode, userID string, msgType string, payload any)
}

// Event types pushed over room connections
const (
	EventRoomUpdate  = "room_update"
	EventGameStarted = "game_started"
	EventRoleInfo    = "role_info"
	EventRoomDeleted = "room_deleted"
)
