package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/logger"

	"lottoapi/internal/models"
)

const drawSetCacheKey = "lottoapi:draws:all"

// CachedDrawRepository decorates a DrawRepository with a redis cache
// of the full descending-date draw set, the hot path of the no-date
// batch check. Draws are immutable once ingested, so a short TTL plus
// invalidation on Create keeps the cache honest. Redis failures fall
// through to the backing store.
type CachedDrawRepository struct {
	DrawRepository
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedDrawRepository(inner DrawRepository, rdb *redis.Client, ttl time.Duration) *CachedDrawRepository {
	return &CachedDrawRepository{DrawRepository: inner, rdb: rdb, ttl: ttl}
}

func (r *CachedDrawRepository) GetAll(ctx context.Context) ([]models.Draw, error) {
	cached, err := r.rdb.Get(ctx, drawSetCacheKey).Bytes()
	if err == nil {
		var draws []models.Draw
		if err := json.Unmarshal(cached, &draws); err == nil {
			return draws, nil
		}
		logger.Infof("Discarding undecodable draw-set cache entry")
	} else if err != redis.Nil {
		logger.Errorf("Redis read for draw set failed, falling back to database: %v", err)
	}
	return r.Warm(ctx)
}

// Warm fetches the draw set from the backing store and rewrites the
// cache entry.
func (r *CachedDrawRepository) Warm(ctx context.Context) ([]models.Draw, error) {
	draws, err := r.DrawRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(draws); err == nil {
		if err := r.rdb.Set(ctx, drawSetCacheKey, encoded, r.ttl).Err(); err != nil {
			logger.Errorf("Redis write for draw set failed: %v", err)
		}
	}
	return draws, nil
}

func (r *CachedDrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	if err := r.DrawRepository.Create(ctx, draw); err != nil {
		return err
	}
	if err := r.rdb.Del(ctx, drawSetCacheKey).Err(); err != nil {
		logger.Errorf("Redis invalidation after draw ingest failed: %v", err)
	}
	return nil
}
