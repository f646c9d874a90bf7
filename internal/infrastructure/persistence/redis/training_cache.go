package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
)

// CachedTrainingRepository decorates a training.Repository with a Redis
// cache for the two hot read paths: point lookup and per-user listing.
// Every write goes to the inner repository first and then invalidates the
// affected keys. Cache errors are logged and fall through to the inner
// repository, so a Redis outage only costs latency.
type CachedTrainingRepository struct {
	inner  training.Repository
	cache  *Cache
	logger *slog.Logger
}

// NewCachedTrainingRepository wraps the inner repository with the cache.
func NewCachedTrainingRepository(inner training.Repository, cache *Cache, logger *slog.Logger) *CachedTrainingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedTrainingRepository{inner: inner, cache: cache, logger: logger}
}

func trainingKey(id int64) string {
	return fmt.Sprintf("training:id:%d", id)
}

func userTrainingsKey(userID int64) string {
	return fmt.Sprintf("training:user:%d", userID)
}

// Insert writes through and invalidates the owner's listing.
func (r *CachedTrainingRepository) Insert(ctx context.Context, t *training.Training) (*training.Training, error) {
	saved, err := r.inner.Insert(ctx, t)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, trainingKey(saved.ID), userTrainingsKey(saved.UserID))
	return saved, nil
}

// FindByID serves from cache when possible.
func (r *CachedTrainingRepository) FindByID(ctx context.Context, id int64) (*training.Training, error) {
	var cached training.Training
	err := r.cache.GetJSON(ctx, trainingKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("training cache read failed", "key", trainingKey(id), "error", err)
	}

	t, err := r.inner.FindByID(ctx, id)
	if err != nil || t == nil {
		return t, err
	}
	if err := r.cache.SetJSON(ctx, trainingKey(id), t); err != nil {
		r.logger.Warn("training cache write failed", "key", trainingKey(id), "error", err)
	}
	return t, nil
}

// FindAll is a passthrough; the full listing is not worth caching.
func (r *CachedTrainingRepository) FindAll(ctx context.Context) ([]*training.Training, error) {
	return r.inner.FindAll(ctx)
}

// FindByUser serves the per-user listing from cache when possible.
func (r *CachedTrainingRepository) FindByUser(ctx context.Context, userID int64) ([]*training.Training, error) {
	key := userTrainingsKey(userID)

	var cached []*training.Training
	err := r.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("training cache read failed", "key", key, "error", err)
	}

	ts, err := r.inner.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.SetJSON(ctx, key, ts); err != nil {
		r.logger.Warn("training cache write failed", "key", key, "error", err)
	}
	return ts, nil
}

// FindEndedAfter is a passthrough; threshold queries do not repeat enough
// to cache.
func (r *CachedTrainingRepository) FindEndedAfter(ctx context.Context, threshold time.Time) ([]*training.Training, error) {
	return r.inner.FindEndedAfter(ctx, threshold)
}

// FindByActivity is a passthrough.
func (r *CachedTrainingRepository) FindByActivity(ctx context.Context, activity training.ActivityType) ([]*training.Training, error) {
	return r.inner.FindByActivity(ctx, activity)
}

// Save writes through and invalidates both affected keys.
func (r *CachedTrainingRepository) Save(ctx context.Context, t *training.Training) (*training.Training, error) {
	saved, err := r.inner.Save(ctx, t)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, trainingKey(saved.ID), userTrainingsKey(saved.UserID))
	return saved, nil
}

func (r *CachedTrainingRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("training cache invalidation failed", "keys", keys, "error", err)
	}
}
