package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/singleflight"
)

// echo.Logger / gommon の *log.Logger どちらでも渡せる
type Logger interface {
	Warnf(format string, args ...interface{})
}

type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// Cache は Store の上に JSON シリアライズ、既定TTL、
// 同一キーの同時ミスのまとめ、世代による無効化を載せる。
type Cache struct {
	store  Store
	ttl    time.Duration
	logger Logger

	group singleflight.Group

	// Invalidate のたびに進む。書き込みは世代が変わっていない時だけ。
	mu  sync.RWMutex
	gen uint64

	hits   atomic.Uint64
	misses atomic.Uint64
}

type Option func(*Cache)

func WithLogger(l Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(store Store, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    ttl,
		logger: log.New("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ヒットしたら dst に復元して true
// バックエンドのエラーはミス扱い
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warnf("cache get %q: %v", key, err)
		c.misses.Add(1)
		return false, nil
	}
	if !ok {
		c.misses.Add(1)
		return false, nil
	}

	if err := json.Unmarshal(b, dst); err != nil {
		// 壊れた値は捨てる
		_ = c.store.Delete(ctx, key)
		c.misses.Add(1)
		return false, err
	}

	c.hits.Add(1)
	return true, nil
}

// 既定TTLで保存。バックエンドのエラーはログだけ。
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.put(ctx, key, b)
	return nil
}

func (c *Cache) put(ctx context.Context, key string, b []byte) {
	if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
		c.logger.Warnf("cache set %q: %v", key, err)
	}
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warnf("cache delete %q: %v", key, err)
	}
}

// prefix で始まる全キーを消す。
// 戻った後に始まった読み出しは、無効化前の値を見ない。
func (c *Cache) Invalidate(ctx context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if _, err := c.store.DeletePrefix(ctx, prefix); err != nil {
		c.logger.Warnf("cache invalidate %q: %v", prefix, err)
	}
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// 取得時の世代のままなら保存
func (c *Cache) storeIfCurrent(ctx context.Context, key string, gen uint64, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		c.logger.Warnf("cache encode %q: %v", key, err)
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.gen != gen {
		return
	}
	c.put(ctx, key, b)
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// GetOrCompute はヒットならその値、ミスなら producer の結果を返して保存する。
// producer がエラーなら何も保存しない。
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, producer func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if ok, _ := c.Get(ctx, key, &out); ok {
		return out, nil
	}

	gen := c.generation()
	flight := key + "#" + strconv.FormatUint(gen, 10)

	v, err, _ := c.group.Do(flight, func() (any, error) {
		val, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		c.storeIfCurrent(ctx, key, gen, val)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
