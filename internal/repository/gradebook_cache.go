package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/classmark/gradebook/internal/config"
	"github.com/classmark/gradebook/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// GradebookCache keeps each student's computed gradebook in Redis. Cache
// failures are logged and treated as misses; the database stays the source
// of truth. A per-student generation counter guards writes so a gradebook
// loaded before an invalidation is never stored after it.
type GradebookCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// generationTTL only has to outlive a single gradebook load.
const generationTTL = 24 * time.Hour

var errStaleGeneration = errors.New("gradebook generation changed")

// NewGradebookCache creates a GradebookCache. A nil client or zero ttl
// disables caching.
func NewGradebookCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *GradebookCache {
	return &GradebookCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "gradebook_cache").Logger(),
	}
}

func (c *GradebookCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// Get returns the cached gradebook for studentID, if present.
func (c *GradebookCache) Get(ctx context.Context, studentID string) (*model.StudentGradebook, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, config.CacheKey.StudentGradebookKey(studentID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("student", studentID).Msg("Gradebook cache read failed")
		}
		return nil, false
	}

	var gb model.StudentGradebook
	if err := json.Unmarshal(data, &gb); err != nil {
		c.log.Warn().Err(err).Str("student", studentID).Msg("Discarding corrupt gradebook cache entry")
		return nil, false
	}
	return &gb, true
}

// Generation returns the student's current invalidation count. ok is false
// when caching is disabled or Redis cannot be read.
func (c *GradebookCache) Generation(ctx context.Context, studentID string) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}
	gen, err := c.rdb.Get(ctx, config.CacheKey.StudentGradebookGenerationKey(studentID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.log.Warn().Err(err).Str("student", studentID).Msg("Gradebook generation read failed")
		return 0, false
	}
	return gen, true
}

// Set stores a freshly computed gradebook if the student's generation still
// equals generation. It reports whether the gradebook was stored.
func (c *GradebookCache) Set(ctx context.Context, studentID string, generation int64, gb *model.StudentGradebook) bool {
	if !c.enabled() {
		return false
	}
	data, err := json.Marshal(gb)
	if err != nil {
		c.log.Warn().Err(err).Msg("Marshal gradebook failed")
		return false
	}

	genKey := config.CacheKey.StudentGradebookGenerationKey(studentID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, config.CacheKey.StudentGradebookKey(studentID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
		return true
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return false
	default:
		c.log.Warn().Err(err).Str("student", studentID).Msg("Gradebook cache write failed")
		return false
	}
}

// Invalidate drops the cached gradebooks of the given students and bumps
// their generations.
func (c *GradebookCache) Invalidate(ctx context.Context, studentIDs ...string) {
	if !c.enabled() || len(studentIDs) == 0 {
		return
	}
	pipe := c.rdb.TxPipeline()
	for _, id := range studentIDs {
		genKey := config.CacheKey.StudentGradebookGenerationKey(id)
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, config.CacheKey.StudentGradebookKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Int("students", len(studentIDs)).Msg("Gradebook cache invalidation failed")
	}
}
