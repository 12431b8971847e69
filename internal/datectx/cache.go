package datectx

import (
	"context"

	"github.com/julienv/daygate/pkg/logger"
	"github.com/julienv/daygate/pkg/redis"
)

// CachedHolidaySource decorates a HolidaySource with a redis cache. Holiday
// calendars change rarely, so entries live for a day. Cache failures fall
// through to the wrapped source.
type CachedHolidaySource struct {
	src    HolidaySource
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedHolidaySource wraps src with cache.
func NewCachedHolidaySource(src HolidaySource, cache *redis.Cache, log *logger.Logger) *CachedHolidaySource {
	return &CachedHolidaySource{
		src:    src,
		cache:  cache,
		logger: log.WithField("module", "holiday_cache"),
	}
}

// PublicHolidays returns the cached list when present, otherwise fetches
// and populates the cache.
func (c *CachedHolidaySource) PublicHolidays(ctx context.Context, year int, country string) ([]Holiday, error) {
	key := redis.HolidayKey(country, year)

	var cached []Holiday
	if found, err := c.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	holidays, err := c.src.PublicHolidays(ctx, year, country)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, holidays, redis.TTLDaily); err != nil {
		c.logger.WithError(err).Warn("Failed to cache holiday list")
	}

	return holidays, nil
}
