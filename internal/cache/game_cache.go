package cache

import (
	"buzz/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const gameTTL = 10 * time.Minute

// GameCache keeps catalog entries hot in Redis so spyfall starts do not
// hit Mongo for the location pool every time
type GameCache interface {
	Get(ctx context.Context, slug string) (*model.Game, error)
	Set(ctx context.Context, game *model.Game) error
}

type gameCache struct {
	rdb *redis.Client
}

func NewGameCache(rdb *redis.Client) GameCache {
	return &gameCache{rdb: rdb}
}

func gameKey(slug string) string {
	return fmt.Sprintf("game:%s", slug)
}

// Get returns the cached game, or nil on a miss
func (c *gameCache) Get(ctx context.Context, slug string) (*model.Game, error) {
	raw, err := c.rdb.Get(ctx, gameKey(slug)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var game model.Game
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *gameCache) Set(ctx context.Context, game *model.Game) error {
	raw, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, gameKey(game.Slug), raw, gameTTL).Err()
}
