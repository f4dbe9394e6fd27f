package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newConn(room, user string) *Connection {
	return &Connection{RoomCode: room, UserID: user, Send: make(chan []byte, 8)}
}

func recvMessage(t *testing.T, conn *Connection) *Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		if !ok {
			t.Fatal("send channel closed while waiting for a message")
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("malformed frame %q: %v", data, err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no message within 1s")
		return nil
	}
}

func TestHubBroadcastReachesWholeRoom(t *testing.T) {
	hub := newTestHub()
	a1 := newConn("AB12", "u1")
	a2 := newConn("AB12", "u2")
	other := newConn("CD34", "u3")
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(other)

	hub.BroadcastToRoom("AB12", "room_update", map[string]string{"code": "AB12"})

	for _, conn := range []*Connection{a1, a2} {
		msg := recvMessage(t, conn)
		if msg.Type != "room_update" {
			t.Errorf("type = %q, want room_update", msg.Type)
		}
	}

	// The other room must only ever see its own traffic.
	hub.BroadcastToRoom("CD34", "room_update", map[string]string{"code": "CD34"})
	msg := recvMessage(t, other)
	var payload map[string]string
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["code"] != "CD34" {
		t.Errorf("connection in CD34 received a frame for %q", payload["code"])
	}
}

func TestHubSendToUserTargetsOnlyThatUser(t *testing.T) {
	hub := newTestHub()
	u1 := newConn("AB12", "u1")
	u2 := newConn("AB12", "u2")
	hub.Register(u1)
	hub.Register(u2)

	hub.SendToUser("AB12", "u1", "role_info", map[string]string{"role": "mafia"})
	if msg := recvMessage(t, u1); msg.Type != "role_info" {
		t.Errorf("type = %q, want role_info", msg.Type)
	}

	// The next frame u2 sees must be the broadcast, not the targeted send.
	hub.BroadcastToRoom("AB12", "room_update", nil)
	if msg := recvMessage(t, u2); msg.Type == "role_info" {
		t.Error("targeted role_info leaked to another user")
	}
}

func TestHubSendToAbsentUserIsNoop(t *testing.T) {
	hub := newTestHub()
	u1 := newConn("AB12", "u1")
	hub.Register(u1)

	hub.SendToUser("AB12", "ghost", "role_info", nil)
	hub.SendToUser("ZZ99", "u1", "role_info", nil)

	hub.BroadcastToRoom("AB12", "room_update", nil)
	if msg := recvMessage(t, u1); msg.Type != "room_update" {
		t.Errorf("type = %q, want room_update", msg.Type)
	}
}

func TestHubEvictsStalledConnection(t *testing.T) {
	hub := newTestHub()
	stalled := &Connection{RoomCode: "AB12", UserID: "u1", Send: make(chan []byte)}
	healthy := newConn("AB12", "u2")
	hub.Register(stalled)
	hub.Register(healthy)

	// Nobody drains stalled.Send, so the first delivery evicts it while
	// the healthy connection still gets the frame.
	hub.BroadcastToRoom("AB12", "room_update", nil)
	if msg := recvMessage(t, healthy); msg.Type != "room_update" {
		t.Errorf("type = %q, want room_update", msg.Type)
	}

	select {
	case _, ok := <-stalled.Send:
		if ok {
			t.Error("stalled connection received a frame instead of being dropped")
		}
	case <-time.After(time.Second):
		t.Error("stalled connection's send channel was not closed")
	}

	// The room keeps working after the eviction.
	hub.BroadcastToRoom("AB12", "room_update", nil)
	recvMessage(t, healthy)
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub := newTestHub()
	conn := newConn("AB12", "u1")
	hub.Register(conn)

	hub.Unregister(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Error("unexpected frame on an unregistered connection")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on unregister")
	}

	// A broadcast into the now-empty room must not block or panic.
	hub.BroadcastToRoom("AB12", "room_update", nil)
}
