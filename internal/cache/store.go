// Package cache はシリアライズ済みの値をTTL付きで保持する。
// バックエンドはメモリ(LRU)かRedis。
package cache

import (
	"context"
	"errors"
	"time"
)

// 1件でmaxBytesを超える値
var ErrValueTooLarge = errors.New("cache: value too large")

type Store interface {
	// 無い/期限切れは (nil, false, nil)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// 削除した件数を返す
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
