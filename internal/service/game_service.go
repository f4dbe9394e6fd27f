package service

import (
	"buzz/internal/cache"
	"buzz/internal/model"
	"buzz/internal/repository"
	"context"
	"fmt"
	"log/slog"
)

// GameService is the read-only catalog of playable games
type GameService struct {
	games repository.GameRepo
	cache cache.GameCache
	log   *slog.Logger
}

func NewGameService(games repository.GameRepo, gameCache cache.GameCache, log *slog.Logger) *GameService {
	return &GameService{games: games, cache: gameCache, log: log}
}

func (s *GameService) ListGames(ctx context.Context, category string) ([]model.Game, error) {
	return s.games.List(ctx, category)
}

// GetGame returns the catalog entry for a slug, serving from cache when
// possible. Cache failures degrade to a Mongo read.
func (s *GameService) GetGame(ctx context.Context, slug string) (*model.Game, error) {
	if cached, err := s.cache.Get(ctx, slug); err != nil {
		s.log.Warn("game cache read failed", "slug", slug, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	game, err := s.games.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %q: %w", slug, err)
	}
	if game == nil {
		return nil, ErrGameNotFound
	}

	if err := s.cache.Set(ctx, game); err != nil {
		s.log.Warn("game cache write failed", "slug", slug, "error", err)
	}
	return game, nil
}

func (s *GameService) Categories(ctx context.Context) ([]string, error) {
	return s.games.Categories(ctx)
}
