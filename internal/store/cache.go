package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tomaszg/debtcrusher/internal/domain"
)

const snapshotKey = "debtcrusher:snapshot"

// Snapshot is the locally mirrored session state used when the remote
// store is unreachable or empty.
type Snapshot struct {
	Debts    []domain.Debt    `json:"debts"`
	Payments []domain.Payment `json:"payments"`
	Jar      domain.Jar       `json:"jar"`
}

// SnapshotCache mirrors the session state outside the remote store.
type SnapshotCache interface {
	LoadSnapshot(ctx context.Context) (Snapshot, bool)
	SaveSnapshot(ctx context.Context, snap Snapshot) error
}

// RedisCache keeps the snapshot in Redis as a single JSON value.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: rdb}
}

func (r *RedisCache) LoadSnapshot(ctx context.Context) (Snapshot, bool) {
	val, err := r.client.Get(ctx, snapshotKey).Result()
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

func (r *RedisCache) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.client.Set(ctx, snapshotKey, body, 0).Err()
}

// MemoryCache is an in-process SnapshotCache used in tests and when no
// Redis address is configured.
type MemoryCache struct {
	snap Snapshot
	set  bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (m *MemoryCache) LoadSnapshot(ctx context.Context) (Snapshot, bool) {
	return m.snap, m.set
}

func (m *MemoryCache) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	m.snap = snap
	m.set = true
	return nil
}
