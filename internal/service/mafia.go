package service

import (
	"buzz/internal/model"
	"math/rand"
	"time"
)

// MafiaEngine partitions a room's players into mafia roles. Pure apart
// from its rng, which is injectable for deterministic tests.
type MafiaEngine struct {
	rng *rand.Rand
}

func NewMafiaEngine() *MafiaEngine {
	return &MafiaEngine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func NewMafiaEngineWithRand(rng *rand.Rand) *MafiaEngine {
	return &MafiaEngine{rng: rng}
}

// AssignRoles shuffles the configured role multiset and assigns it to the
// players positionally. Teammates are computed after the full assignment
// so each mafia member sees every other mafioso regardless of order.
func (e *MafiaEngine) AssignRoles(room *model.Room) ([]model.MafiaPlayer, error) {
	if room.GameConfig.Mafia == nil {
		return nil, ErrMissingGameConfig
	}
	counts := room.GameConfig.Mafia.Roles
	if counts.Total() != len(room.Players) {
		return nil, ErrRoleCountMismatch
	}

	roles := make([]model.MafiaRole, 0, counts.Total())
	for role, n := range map[model.MafiaRole]int{
		model.RoleMafia:    counts.Mafia,
		model.RoleCivilian: counts.Civilian,
		model.RoleDoctor:   counts.Doctor,
		model.RolePolice:   counts.Police,
	} {
		for i := 0; i < n; i++ {
			roles = append(roles, role)
		}
	}
	e.rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	assigned := make([]model.MafiaPlayer, len(room.Players))
	var mafiosi []string
	for i, p := range room.Players {
		role := roles[i]
		if role == model.RoleMafia {
			mafiosi = append(mafiosi, p.Nickname)
		}
		assigned[i] = model.MafiaPlayer{
			UserID:   p.UserID,
			Nickname: p.Nickname,
			RoleInfo: &model.MafiaRoleInfo{
				Role:        role,
				Description: model.MafiaRoleDescriptions[role],
			},
			IsAlive: true,
			VotedBy: []string{},
		}
	}

	for i := range assigned {
		info := assigned[i].RoleInfo
		if info.Role != model.RoleMafia {
			continue
		}
		teammates := make([]string, 0, len(mafiosi)-1)
		for _, name := range mafiosi {
			if name != assigned[i].Nickname {
				teammates = append(teammates, name)
			}
		}
		info.Teammates = teammates
	}

	return assigned, nil
}

// NewGameState builds the initial mafia game state for freshly assigned
// players
func (e *MafiaEngine) NewGameState(players []model.MafiaPlayer) *model.GameState {
	return &model.GameState{
		Mafia: &model.MafiaGameState{
			Phase:             model.PhaseNight,
			Round:             1,
			Players:           players,
			EliminatedPlayers: []string{},
			Votes:             map[string]string{},
			NightActions:      map[string]string{},
		},
	}
}
