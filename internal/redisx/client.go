package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	_ = r.WithTimeout(2 * time.Second)
	return r
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// InvalidateOrderList: best-effort, cache miss berikutnya isi ulang dari DB.
func InvalidateOrderList(ctx context.Context, rdb *redis.Client) {
	_ = rdb.Del(ctx, KeyOrderList).Err()
}
