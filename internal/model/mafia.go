package model

type MafiaRole string

const (
	RoleMafia    MafiaRole = "mafia"
	RoleCivilian MafiaRole = "civilian"
	RoleDoctor   MafiaRole = "doctor"
	RolePolice   MafiaRole = "police"
)

// MafiaRoleInfo is the secret payload delivered to one player. Teammates
// is populated for mafia members only and lists the other mafiosi.
type MafiaRoleInfo struct {
	Role        MafiaRole `json:"role" bson:"role"`
	Description string    `json:"description" bson:"description"`
	Teammates   []string  `json:"teammates,omitempty" bson:"teammates,omitempty"`
}

// MafiaRoleDescriptions maps each role to its static briefing text
var MafiaRoleDescriptions = map[MafiaRole]string{
	RoleMafia:    "You are a member of the Mafia. Work with your fellow mafiosi to eliminate the citizens.",
	RoleCivilian: "You are a Civilian. Use your wit and observation to identify the Mafia members.",
	RoleDoctor:   "You are the Doctor. You can save one person each night from being eliminated.",
	RolePolice:   "You are the Police Officer. You can investigate one person each night to determine if they are Mafia.",
}

// MafiaPlayer is one role-tagged player inside the mafia game state
type MafiaPlayer struct {
	UserID               string         `json:"user_id" bson:"user_id"`
	Nickname             string         `json:"nickname" bson:"nickname"`
	RoleInfo             *MafiaRoleInfo `json:"role_info,omitempty" bson:"role_info,omitempty"`
	IsAlive              bool           `json:"is_alive" bson:"is_alive"`
	VotedBy              []string       `json:"voted_by" bson:"voted_by"`
	ProtectedByDoctor    bool           `json:"protected_by_doctor" bson:"protected_by_doctor"`
	InvestigatedByPolice bool           `json:"investigated_by_police" bson:"investigated_by_police"`
}

type MafiaPhase string

const (
	PhaseNight MafiaPhase = "night"
	PhaseDay   MafiaPhase = "day"
)

// MafiaGameState is the mafia variant of a room's game_state
type MafiaGameState struct {
	Phase             MafiaPhase        `json:"phase" bson:"phase"`
	Round             int               `json:"round" bson:"round"`
	Players           []MafiaPlayer     `json:"players" bson:"players"`
	EliminatedPlayers []string          `json:"eliminated_players" bson:"eliminated_players"`
	Votes             map[string]string `json:"votes" bson:"votes"`
	NightActions      map[string]string `json:"night_actions" bson:"night_actions"`
}

func (s *MafiaGameState) sanitizedFor(viewerID string) *MafiaGameState {
	out := *s
	out.Players = make([]MafiaPlayer, len(s.Players))
	for i, p := range s.Players {
		if p.UserID != viewerID {
			p.RoleInfo = nil
		}
		out.Players[i] = p
	}
	return &out
}
