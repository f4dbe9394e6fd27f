package service

import (
	"buzz/internal/cache"
	"buzz/internal/model"
	"buzz/internal/repository"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// RoomService is the state machine governing a room's lifecycle. Every
// mutation is a targeted store update followed by a re-read of canonical
// state and exactly one broadcast.
type RoomService struct {
	rooms       repository.RoomRepo
	users       repository.UserRepo
	gameSvc     *GameService
	codes       cache.RoomCache
	mafia       *MafiaEngine
	spyfall     *SpyfallEngine
	broadcaster Broadcaster
	log         *slog.Logger
}

func NewRoomService(
	rooms repository.RoomRepo,
	users repository.UserRepo,
	gameSvc *GameService,
	codes cache.RoomCache,
	mafia *MafiaEngine,
	spyfall *SpyfallEngine,
	log *slog.Logger,
) *RoomService {
	return &RoomService{
		rooms:   rooms,
		users:   users,
		gameSvc: gameSvc,
		codes:   codes,
		mafia:   mafia,
		spyfall: spyfall,
		log:     log,
	}
}

// SetBroadcaster injects the live-connection fan-out (the ws hub)
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom validates the game config, generates a unique code and
// persists a lobby room with the creator as sole player and host
func (s *RoomService) CreateRoom(ctx context.Context, user *model.User, gameType model.GameType, numPlayers int, rawConfig json.RawMessage) (*model.Room, error) {
	if numPlayers < model.MinRoomPlayers || numPlayers > model.MaxRoomPlayers {
		return nil, ErrBadPlayerCount
	}
	if len(rawConfig) == 0 {
		return nil, ErrMissingGameConfig
	}

	var config model.GameConfig
	switch gameType {
	case model.GameMafia:
		var mafia model.MafiaConfig
		if err := json.Unmarshal(rawConfig, &mafia); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingGameConfig, err)
		}
		if err := mafia.Validate(); err != nil {
			return nil, err
		}
		config.Mafia = &mafia
	case model.GameSpyfall:
		var spyfall model.SpyfallConfig
		if err := json.Unmarshal(rawConfig, &spyfall); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingGameConfig, err)
		}
		if spyfall.SpyCount == 0 {
			spyfall.SpyCount = 1
		}
		if err := spyfall.Validate(numPlayers); err != nil {
			return nil, err
		}
		config.Spyfall = &spyfall
	default:
		return nil, ErrUnsupportedGameType
	}

	code, err := s.generateRoomCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	room := &model.Room{
		Code:       code,
		GameType:   gameType,
		RoomState:  model.RoomLobby,
		NumPlayers: numPlayers,
		Players: []model.Player{{
			UserID:   user.ID,
			Nickname: user.Nickname,
			FullName: user.FullName,
			Email:    user.Email,
			State:    model.PlayerNotReady,
		}},
		Host:        user.ID,
		GameConfig:  config,
		ChatHistory: []model.ChatMessage{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.rooms.Insert(ctx, room); err != nil {
		s.releaseCode(ctx, code)
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.log.Info("room created", "code", code, "game", gameType, "host", user.ID)
	return room, nil
}

// GetRoom fetches a room with the players' denormalized user fields
// refreshed from the user collection
func (s *RoomService) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	return s.fetchRoom(ctx, code)
}

// JoinRoom appends the user to the room. Joining a room you are already
// in is a no-op that returns the current room without broadcasting.
func (s *RoomService) JoinRoom(ctx context.Context, code string, user *model.User) (*model.Room, error) {
	room, err := s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.FindPlayer(user.ID) != nil {
		return room, nil
	}

	player := model.Player{
		UserID:   user.ID,
		Nickname: user.Nickname,
		FullName: user.FullName,
		Email:    user.Email,
		State:    model.PlayerNotReady,
	}
	modified, err := s.rooms.PushPlayer(ctx, code, player)
	if err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}
	if modified == 0 {
		// The guarded push missed; re-read to classify why.
		room, err = s.fetchRoom(ctx, code)
		if err != nil {
			return nil, err
		}
		if room.FindPlayer(user.ID) != nil {
			return room, nil
		}
		if len(room.Players) >= room.NumPlayers {
			return nil, ErrRoomFull
		}
		return nil, ErrRoomNotJoinable
	}

	room, err = s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	s.broadcastRoom(room)
	return room, nil
}

// ToggleReady flips the caller's ready state
func (s *RoomService) ToggleReady(ctx context.Context, code string, user *model.User) (*model.Room, error) {
	room, err := s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	player := room.FindPlayer(user.ID)
	if player == nil {
		return nil, ErrNotInRoom
	}

	next := model.PlayerReady
	if player.State == model.PlayerReady {
		next = model.PlayerNotReady
	}
	if _, err := s.rooms.SetPlayerState(ctx, code, user.ID, next); err != nil {
		return nil, fmt.Errorf("failed to update ready state: %w", err)
	}

	room, err = s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	s.broadcastRoom(room)
	return room, nil
}

// LeaveRoom removes the caller. The room is deleted when its last player
// leaves; otherwise the host role falls to the earliest-joined remaining
// player.
func (s *RoomService) LeaveRoom(ctx context.Context, code string, user *model.User) (*model.Room, error) {
	room, err := s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.FindPlayer(user.ID) == nil {
		return nil, ErrNotInRoom
	}
	wasHost := room.Host == user.ID

	modified, err := s.rooms.PullPlayer(ctx, code, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to leave room: %w", err)
	}
	if modified == 0 {
		return nil, ErrNotInRoom
	}

	room, err = s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(room.Players) == 0 {
		if err := s.rooms.Delete(ctx, code); err != nil {
			return nil, fmt.Errorf("failed to delete empty room: %w", err)
		}
		s.releaseCode(ctx, code)
		s.log.Info("room deleted", "code", code)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToRoom(code, EventRoomDeleted, map[string]string{"code": code})
		}
		return nil, nil
	}

	if wasHost {
		if err := s.rooms.SetHost(ctx, code, room.Players[0].UserID); err != nil {
			return nil, fmt.Errorf("failed to reassign host: %w", err)
		}
		room, err = s.fetchRoom(ctx, code)
		if err != nil {
			return nil, err
		}
	}
	s.broadcastRoom(room)
	return room, nil
}

// StartGame validates the start preconditions, runs the role assignment
// engine for the room's game type and atomically transitions the room to
// in_game. Roles reach each player over a targeted per-user send; the
// room-wide broadcast carries a game state with every role redacted.
func (s *RoomService) StartGame(ctx context.Context, code string, user *model.User) (*model.Room, error) {
	room, err := s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Host != user.ID {
		return nil, ErrNotHost
	}
	if len(room.Players) != room.NumPlayers {
		return nil, ErrRoomNotFilled
	}
	for _, p := range room.Players {
		if p.State != model.PlayerReady {
			return nil, ErrNotAllReady
		}
	}

	var state *model.GameState
	switch room.GameType {
	case model.GameMafia:
		players, err := s.mafia.AssignRoles(room)
		if err != nil {
			return nil, err
		}
		state = s.mafia.NewGameState(players)
	case model.GameSpyfall:
		game, err := s.gameSvc.GetGame(ctx, string(model.GameSpyfall))
		if err != nil {
			return nil, err
		}
		players, location, err := s.spyfall.AssignRoles(room, game)
		if err != nil {
			return nil, err
		}
		cfgMinutes := 0
		if room.GameConfig.Spyfall != nil {
			cfgMinutes = room.GameConfig.Spyfall.RoundMinutes
		}
		state = s.spyfall.NewGameState(players, location, cfgMinutes)
	default:
		return nil, ErrUnsupportedGameType
	}

	modified, err := s.rooms.BeginGame(ctx, code, state)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	if modified == 0 {
		return nil, ErrGameAlreadyStarted
	}

	room, err = s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	s.log.Info("game started", "code", code, "game", room.GameType)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, EventGameStarted, room.SanitizedFor(""))
		if room.GameState != nil {
			for _, p := range room.Players {
				if info := room.GameState.RoleInfoFor(p.UserID); info != nil {
					s.broadcaster.SendToUser(code, p.UserID, EventRoleInfo, map[string]any{
						"user_id":   p.UserID,
						"role_info": info,
					})
				}
			}
		}
	}
	return room, nil
}

// RestartGame returns an in-game room to the lobby: game state cleared,
// every player back to not_ready, membership untouched
func (s *RoomService) RestartGame(ctx context.Context, code string, user *model.User) (*model.Room, error) {
	room, err := s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Host != user.ID {
		return nil, ErrNotHost
	}

	if err := s.rooms.ResetGame(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	room, err = s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	s.log.Info("game restarted", "code", code)
	s.broadcastRoom(room)
	return room, nil
}

// PostChat appends a chat line to the room's history
func (s *RoomService) PostChat(ctx context.Context, code string, user *model.User, text string) (*model.Room, error) {
	room, err := s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.FindPlayer(user.ID) == nil {
		return nil, ErrNotInRoom
	}

	msg := model.ChatMessage{UserID: user.ID, Text: text, SentAt: time.Now().UTC()}
	if err := s.rooms.AppendChat(ctx, code, msg); err != nil {
		return nil, fmt.Errorf("failed to append chat message: %w", err)
	}

	room, err = s.fetchRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	s.broadcastRoom(room)
	return room, nil
}

// fetchRoom reads canonical room state and refreshes each player's
// denormalized user fields; the embedded copies are only a cache
func (s *RoomService) fetchRoom(ctx context.Context, code string) (*model.Room, error) {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if len(room.Players) > 0 {
		ids := make([]string, len(room.Players))
		for i, p := range room.Players {
			ids[i] = p.UserID
		}
		users, err := s.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to enrich players: %w", err)
		}
		for i := range room.Players {
			if u, ok := users[room.Players[i].UserID]; ok {
				room.Players[i].Nickname = u.Nickname
				room.Players[i].FullName = u.FullName
				room.Players[i].Email = u.Email
			}
		}
	}
	return room, nil
}

func (s *RoomService) broadcastRoom(room *model.Room) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(room.Code, EventRoomUpdate, room.SanitizedFor(""))
}

func (s *RoomService) releaseCode(ctx context.Context, code string) {
	if err := s.codes.ReleaseCode(ctx, code); err != nil {
		s.log.Warn("failed to release room code", "code", code, "error", err)
	}
}

const (
	codeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeDigits  = "23456789"
	codeChars   = codeLetters + codeDigits
	codeLen     = 4
)

// generateRoomCode draws 4-char codes by rejection sampling: a draw is
// kept only if it contains at least one letter and one digit, is unused
// in the store and wins the Redis reservation.
func (s *RoomService) generateRoomCode(ctx context.Context) (string, error) {
	for attempts := 0; attempts < 50; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, codeLen)
		hasLetter, hasDigit := false, false
		for i := range code {
			c := codeChars[int(b[i])%len(codeChars)]
			code[i] = c
			if c >= '0' && c <= '9' {
				hasDigit = true
			} else {
				hasLetter = true
			}
		}
		if !hasLetter || !hasDigit {
			continue
		}
		codeStr := string(code)

		exists, err := s.rooms.CodeExists(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}

		reserved, err := s.codes.ReserveCode(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if reserved {
			return codeStr, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code")
}
