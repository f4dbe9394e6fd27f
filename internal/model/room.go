package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GameType string

const (
	GameMafia   GameType = "mafia"
	GameSpyfall GameType = "spyfall"
)

type RoomState string

const (
	RoomLobby  RoomState = "lobby"
	RoomInGame RoomState = "in_game"
)

type ReadyState string

const (
	PlayerReady    ReadyState = "ready"
	PlayerNotReady ReadyState = "not_ready"
)

const (
	MinRoomPlayers = 4
	MaxRoomPlayers = 12
)

// Player is embedded in a Room. Nickname/full name/email are denormalized
// copies of the user record, refreshed on every room fetch.
type Player struct {
	UserID   string     `json:"user_id" bson:"user_id"`
	Nickname string     `json:"nickname,omitempty" bson:"nickname,omitempty"`
	FullName string     `json:"full_name,omitempty" bson:"full_name,omitempty"`
	Email    string     `json:"email,omitempty" bson:"email,omitempty"`
	State    ReadyState `json:"state" bson:"state"`
}

// ChatMessage is one entry of a room's append-only chat log
type ChatMessage struct {
	UserID string    `json:"user_id" bson:"user_id"`
	Text   string    `json:"text" bson:"text"`
	SentAt time.Time `json:"sent_at" bson:"sent_at"`
}

// Room is the aggregate root of the lobby core
type Room struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code        string             `json:"code" bson:"code"`
	GameType    GameType           `json:"game_type" bson:"game_type"`
	RoomState   RoomState          `json:"room_state" bson:"room_state"`
	NumPlayers  int                `json:"num_players" bson:"num_players"`
	Players     []Player           `json:"players" bson:"players"`
	Host        string             `json:"host" bson:"host"`
	GameConfig  GameConfig         `json:"game_config" bson:"game_config"`
	ChatHistory []ChatMessage      `json:"chat_history" bson:"chat_history"`
	CanStart    bool               `json:"can_start" bson:"can_start"`
	GameState   *GameState         `json:"game_state,omitempty" bson:"game_state,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
}

// FindPlayer returns the embedded player for a user id, or nil
func (r *Room) FindPlayer(userID string) *Player {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return &r.Players[i]
		}
	}
	return nil
}

// SanitizedFor returns a copy of the room whose game state hides every
// role except the viewer's own. An empty viewer id hides all roles, which
// is what room-wide broadcasts use.
func (r *Room) SanitizedFor(viewerID string) *Room {
	if r.GameState == nil {
		return r
	}
	out := *r
	out.GameState = r.GameState.SanitizedFor(viewerID)
	return &out
}

// GameConfig is the game-type-specific room configuration. Exactly one
// variant is set, matching the room's game type.
type GameConfig struct {
	Mafia   *MafiaConfig   `json:"mafia,omitempty" bson:"mafia,omitempty"`
	Spyfall *SpyfallConfig `json:"spyfall,omitempty" bson:"spyfall,omitempty"`
}

// GameState is the per-game sub-document created at start and cleared at
// restart. Like GameConfig, exactly one variant is set.
type GameState struct {
	Mafia   *MafiaGameState   `json:"mafia,omitempty" bson:"mafia,omitempty"`
	Spyfall *SpyfallGameState `json:"spyfall,omitempty" bson:"spyfall,omitempty"`
}

// SanitizedFor returns a deep copy with every role_info removed except the
// viewer's own
func (g *GameState) SanitizedFor(viewerID string) *GameState {
	out := &GameState{}
	if g.Mafia != nil {
		out.Mafia = g.Mafia.sanitizedFor(viewerID)
	}
	if g.Spyfall != nil {
		out.Spyfall = g.Spyfall.sanitizedFor(viewerID)
	}
	return out
}

// RoleInfoFor returns the assigned role payload for a user, or nil if the
// user holds no role in this state
func (g *GameState) RoleInfoFor(userID string) any {
	if g.Mafia != nil {
		for _, p := range g.Mafia.Players {
			if p.UserID == userID && p.RoleInfo != nil {
				return p.RoleInfo
			}
		}
	}
	if g.Spyfall != nil {
		for _, p := range g.Spyfall.Players {
			if p.UserID == userID && p.RoleInfo != nil {
				return p.RoleInfo
			}
		}
	}
	return nil
}

// MafiaRoles holds the configured count per mafia role
type MafiaRoles struct {
	Mafia    int `json:"mafia" bson:"mafia"`
	Civilian int `json:"civilian" bson:"civilian"`
	Doctor   int `json:"doctor,omitempty" bson:"doctor,omitempty"`
	Police   int `json:"police,omitempty" bson:"police,omitempty"`
}

// Total is the number of players the configuration accounts for
func (r MafiaRoles) Total() int {
	return r.Mafia + r.Civilian + r.Doctor + r.Police
}

type MafiaConfig struct {
	Roles     MafiaRoles `json:"roles" bson:"roles"`
	Moderator bool       `json:"moderator,omitempty" bson:"moderator,omitempty"`
}

var (
	ErrMafiaTooFewPlayers   = errors.New("mafia game requires at least 4 players")
	ErrMafiaNoMafia         = errors.New("at least 1 mafia required")
	ErrMafiaTooFewCivilians = errors.New("at least 2 civilians required")
	ErrMafiaSpecialRoles    = errors.New("special roles not allowed in games with 5 or fewer players")
	ErrMafiaNegativeCount   = errors.New("role counts must be non-negative")
)

// Validate checks the mafia role distribution rules, reporting the first
// broken rule
func (c *MafiaConfig) Validate() error {
	r := c.Roles
	if r.Mafia < 0 || r.Civilian < 0 || r.Doctor < 0 || r.Police < 0 {
		return ErrMafiaNegativeCount
	}
	if r.Total() < 4 {
		return ErrMafiaTooFewPlayers
	}
	if r.Mafia < 1 {
		return ErrMafiaNoMafia
	}
	if r.Civilian < 2 {
		return ErrMafiaTooFewCivilians
	}
	if r.Total() <= 5 && (r.Doctor > 0 || r.Police > 0) {
		return ErrMafiaSpecialRoles
	}
	return nil
}

type SpyfallConfig struct {
	SpyCount           int      `json:"spyCount" bson:"spyCount"`
	RoundMinutes       int      `json:"roundMinutes" bson:"roundMinutes"`
	UseCustomLocations bool     `json:"useCustomLocations,omitempty" bson:"useCustomLocations,omitempty"`
	CustomLocations    []string `json:"customLocations,omitempty" bson:"customLocations,omitempty"`
}

var (
	ErrSpyfallNoSpies      = errors.New("at least 1 spy required")
	ErrSpyfallTooManySpies = errors.New("spy count must be less than the player count")
)

// Validate checks the spyfall configuration against the room capacity
func (c *SpyfallConfig) Validate(numPlayers int) error {
	if c.SpyCount < 1 {
		return ErrSpyfallNoSpies
	}
	if c.SpyCount >= numPlayers {
		return ErrSpyfallTooManySpies
	}
	return nil
}
