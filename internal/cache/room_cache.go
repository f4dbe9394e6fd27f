package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RoomCache reserves room codes in Redis so two racing creates can never
// both claim the same code. Reservations live until the room is deleted.
type RoomCache interface {
	ReserveCode(ctx context.Context, code string) (bool, error)
	ReleaseCode(ctx context.Context, code string) error
	CodeExists(ctx context.Context, code string) (bool, error)
}

type roomCache struct {
	rdb *redis.Client
}

func NewRoomCache(rdb *redis.Client) RoomCache {
	return &roomCache{rdb: rdb}
}

func codeKey(code string) string {
	return fmt.Sprintf("room:code:%s", code)
}

func (c *roomCache) ReserveCode(ctx context.Context, code string) (bool, error) {
	return c.rdb.SetNX(ctx, codeKey(code), 1, 0).Result()
}

func (c *roomCache) ReleaseCode(ctx context.Context, code string) error {
	return c.rdb.Del(ctx, codeKey(code)).Err()
}

func (c *roomCache) CodeExists(ctx context.Context, code string) (bool, error) {
	n, err := c.rdb.Exists(ctx, codeKey(code)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
