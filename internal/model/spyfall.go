package model

import "time"

type SpyfallRole string

const (
	RoleSpy     SpyfallRole = "spy"
	RoleRegular SpyfallRole = "regular"
)

// SpyfallRoleInfo is the secret payload for one player. Location and its
// image are set for regular players only; spies get neither.
type SpyfallRoleInfo struct {
	Role          SpyfallRole `json:"role" bson:"role"`
	Location      string      `json:"location,omitempty" bson:"location,omitempty"`
	LocationImage string      `json:"location_image,omitempty" bson:"location_image,omitempty"`
	Description   string      `json:"description" bson:"description"`
}

// SpyfallPlayer is one role-tagged player inside the spyfall game state
type SpyfallPlayer struct {
	UserID   string           `json:"user_id" bson:"user_id"`
	Nickname string           `json:"nickname" bson:"nickname"`
	RoleInfo *SpyfallRoleInfo `json:"role_info,omitempty" bson:"role_info,omitempty"`
}

// SpyfallGameState is the spyfall variant of a room's game_state. The
// location is kept at the top level for moderation; sanitized copies drop
// it along with the roles.
type SpyfallGameState struct {
	Players      []SpyfallPlayer `json:"players" bson:"players"`
	Location     string          `json:"location,omitempty" bson:"location,omitempty"`
	RoundEndTime time.Time       `json:"round_end_time" bson:"round_end_time"`
}

func (s *SpyfallGameState) sanitizedFor(viewerID string) *SpyfallGameState {
	out := *s
	out.Location = ""
	out.Players = make([]SpyfallPlayer, len(s.Players))
	for i, p := range s.Players {
		if p.UserID != viewerID {
			p.RoleInfo = nil
		}
		out.Players[i] = p
	}
	return &out
}
