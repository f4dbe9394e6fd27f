package service

import (
	"buzz/internal/model"
	"fmt"
	"math/rand"
	"time"
)

const spyDescription = "You are the Spy! Try to figure out the location while avoiding detection."

// SpyfallEngine assigns spy/regular roles and picks the round location.
// fixedRoundMinutes pins every round to a constant length; 0 honors the
// room's configured roundMinutes.
type SpyfallEngine struct {
	rng               *rand.Rand
	fixedRoundMinutes int
	now               func() time.Time
}

func NewSpyfallEngine(fixedRoundMinutes int) *SpyfallEngine {
	return &SpyfallEngine{
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
		fixedRoundMinutes: fixedRoundMinutes,
		now:               time.Now,
	}
}

func NewSpyfallEngineWithRand(rng *rand.Rand, fixedRoundMinutes int, now func() time.Time) *SpyfallEngine {
	return &SpyfallEngine{rng: rng, fixedRoundMinutes: fixedRoundMinutes, now: now}
}

// AssignRoles picks a location from the candidate pool, makes the first
// spyCount shuffled players spies and reveals the location to the rest.
// The tagged list is shuffled once more so its order carries no signal
// about who the spies are.
func (e *SpyfallEngine) AssignRoles(room *model.Room, game *model.Game) ([]model.SpyfallPlayer, string, error) {
	if room.GameConfig.Spyfall == nil {
		return nil, "", ErrMissingGameConfig
	}
	cfg := room.GameConfig.Spyfall

	pool := make([]string, 0, len(game.Locations))
	if cfg.UseCustomLocations && len(cfg.CustomLocations) > 0 {
		pool = append(pool, cfg.CustomLocations...)
	} else {
		for name := range game.Locations {
			pool = append(pool, name)
		}
	}
	if len(pool) == 0 {
		return nil, "", ErrEmptyLocationPool
	}
	location := pool[e.rng.Intn(len(pool))]
	locationImage := game.Locations[location]

	spyCount := cfg.SpyCount
	if spyCount >= len(room.Players) {
		return nil, "", ErrRoleCountMismatch
	}

	players := make([]model.Player, len(room.Players))
	copy(players, room.Players)
	e.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	assigned := make([]model.SpyfallPlayer, 0, len(players))
	for i, p := range players {
		info := &model.SpyfallRoleInfo{}
		if i < spyCount {
			info.Role = model.RoleSpy
			info.Description = spyDescription
		} else {
			info.Role = model.RoleRegular
			info.Location = location
			info.LocationImage = locationImage
			info.Description = fmt.Sprintf("You are at the %s. Find the spy!", location)
		}
		assigned = append(assigned, model.SpyfallPlayer{
			UserID:   p.UserID,
			Nickname: p.Nickname,
			RoleInfo: info,
		})
	}

	// Hide spy positions from the list order as well.
	e.rng.Shuffle(len(assigned), func(i, j int) {
		assigned[i], assigned[j] = assigned[j], assigned[i]
	})

	return assigned, location, nil
}

// NewGameState builds the initial spyfall game state. The round length
// comes from the engine's fixed override when set, else from the room's
// configured roundMinutes.
func (e *SpyfallEngine) NewGameState(players []model.SpyfallPlayer, location string, cfgRoundMinutes int) *model.GameState {
	minutes := e.fixedRoundMinutes
	if minutes == 0 {
		minutes = cfgRoundMinutes
	}
	return &model.GameState{
		Spyfall: &model.SpyfallGameState{
			Players:      players,
			Location:     location,
			RoundEndTime: e.now().UTC().Add(time.Duration(minutes) * time.Minute),
		},
	}
}
