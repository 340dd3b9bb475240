package repository

//go:generate mockgen -source=game_cache.go -destination=mocks/mock_game_cache.go -package=mocks

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	catalogKeyPrefix = "catalog:games:"
	catalogGenKey    = "catalog:generation"
)

// GameCache holds a copy of the catalog listing. The database stays the
// source of truth.
//
// Listings are stored per generation. InvalidateCatalog advances the
// generation, so a listing read from the database before an invalidation is
// written under a generation nobody reads anymore.
type GameCache interface {
	// GetCatalog returns the current generation and, when present, the
	// listing cached for it.
	GetCatalog(ctx context.Context) (games []models.Game, gen int64, ok bool, err error)
	// SetCatalog stores games for gen unless a listing for gen exists.
	SetCatalog(ctx context.Context, gen int64, games []models.Game) error
	InvalidateCatalog(ctx context.Context) error
}

type redisGameCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameCache creates a Redis-based GameCache whose entries expire after ttl.
func NewGameCache(rdb *redis.Client, ttl time.Duration) GameCache {
	return &redisGameCache{rdb: rdb, ttl: ttl}
}

func catalogKey(gen int64) string {
	return catalogKeyPrefix + strconv.FormatInt(gen, 10)
}

// GetCatalog returns the cached listing for the current generation.
func (c *redisGameCache) GetCatalog(ctx context.Context) ([]models.Game, int64, bool, error) {
	ctx, span := tracer.Start(ctx, "GameCache.GetCatalog")
	defer span.End()

	gen, err := c.rdb.Get(ctx, catalogGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("failed to get catalog generation from redis: %w", err)
	}
	span.SetAttributes(attribute.Int64("catalog.generation", gen))

	data, err := c.rdb.Get(ctx, catalogKey(gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil
		}
		return nil, gen, false, fmt.Errorf("failed to get catalog from redis: %w", err)
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, gen, false, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return games, gen, true, nil
}

// SetCatalog stores the listing under gen with SET NX.
func (c *redisGameCache) SetCatalog(ctx context.Context, gen int64, games []models.Game) error {
	ctx, span := tracer.Start(ctx, "GameCache.SetCatalog")
	defer span.End()
	span.SetAttributes(attribute.Int64("catalog.generation", gen))

	data, err := json.Marshal(games)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := c.rdb.SetNX(ctx, catalogKey(gen), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog in redis: %w", err)
	}
	return nil
}

// InvalidateCatalog advances the generation and drops the listing it replaces.
func (c *redisGameCache) InvalidateCatalog(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "GameCache.InvalidateCatalog")
	defer span.End()

	gen, err := c.rdb.Incr(ctx, catalogGenKey).Result()
	if err != nil {
		return fmt.Errorf("failed to advance catalog generation: %w", err)
	}
	span.SetAttributes(attribute.Int64("catalog.generation", gen))

	if err := c.rdb.Del(ctx, catalogKey(gen-1)).Err(); err != nil {
		return fmt.Errorf("failed to drop stale catalog: %w", err)
	}
	return nil
}

type noopGameCache struct{}

// NewNoopGameCache returns a GameCache that never holds anything. It is used
// when no Redis address is configured.
func NewNoopGameCache() GameCache {
	return noopGameCache{}
}

func (noopGameCache) GetCatalog(context.Context) ([]models.Game, int64, bool, error) {
	return nil, 0, false, nil
}

func (noopGameCache) SetCatalog(context.Context, int64, []models.Game) error {
	return nil
}

func (noopGameCache) InvalidateCatalog(context.Context) error {
	return nil
}
