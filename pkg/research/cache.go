package research

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/store"
)

const (
	// DefaultTTL is how long a cached profile is reused.
	DefaultTTL = 7 * 24 * time.Hour
	// DefaultKeyPrefix namespaces redis keys.
	DefaultKeyPrefix = "job-assistant:research:"
)

// Cache stores company profiles between runs.
type Cache interface {
	Get(ctx context.Context, company string) (profile jobs.CompanyProfile, found bool, err error)
	Put(ctx context.Context, company string, profile jobs.CompanyProfile) (err error)
}

// FileCache keeps one JSON file per company.
type FileCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewFileCache creates a file cache under dir. ttl <= 0 uses DefaultTTL.
func NewFileCache(dir string, ttl time.Duration) (cache *FileCache, err error) {
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create research cache directory: %s", dir)
		return cache, err
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cache = &FileCache{dir: dir, ttl: ttl, now: time.Now}

	return cache, err
}

func (c *FileCache) path(company string) (path string) {
	path = filepath.Join(c.dir, Slug(company)+".json")
	return path
}

// Get returns a cached profile that is younger than the TTL.
func (c *FileCache) Get(ctx context.Context, company string) (profile jobs.CompanyProfile, found bool, err error) {
	if Slug(company) == "" {
		return profile, found, err
	}

	var data []byte
	data, err = os.ReadFile(c.path(company))
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
		}
		return profile, found, err
	}

	err = json.Unmarshal(data, &profile)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse cached profile for %s", company)
		return profile, found, err
	}

	if c.now().Sub(profile.FetchedAt) > c.ttl {
		profile = jobs.CompanyProfile{}
		return profile, found, err
	}

	found = true

	return profile, found, err
}

// Put writes the profile under company, replacing any older copy.
func (c *FileCache) Put(ctx context.Context, company string, profile jobs.CompanyProfile) (err error) {
	if Slug(company) == "" {
		err = errors.New("cannot cache a profile without a company name")
		return err
	}

	err = store.WriteJSON(c.path(company), profile)
	if err != nil {
		err = errors.Wrapf(err, "failed to write cached profile for %s", company)
		return err
	}

	return err
}

// RedisCache keeps profiles in redis with a server-side expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the redis server at rawURL (redis://host:port/db).
func NewRedisCache(rawURL string, ttl time.Duration) (cache *RedisCache, err error) {
	var opts *redis.Options
	opts, err = redis.ParseURL(rawURL)
	if err != nil {
		err = errors.Wrap(err, "invalid redis url")
		return cache, err
	}

	cache = NewRedisCacheWithClient(redis.NewClient(opts), ttl)

	return cache, err
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) (cache *RedisCache) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache = &RedisCache{client: client, prefix: DefaultKeyPrefix, ttl: ttl}
	return cache
}

func (c *RedisCache) key(company string) (key string) {
	key = c.prefix + Slug(company)
	return key
}

// Get returns the cached profile if redis still has it.
func (c *RedisCache) Get(ctx context.Context, company string) (profile jobs.CompanyProfile, found bool, err error) {
	var data []byte
	data, err = c.client.Get(ctx, c.key(company)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = nil
			return profile, found, err
		}
		err = errors.Wrapf(err, "failed to read cached profile for %s", company)
		return profile, found, err
	}

	err = json.Unmarshal(data, &profile)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse cached profile for %s", company)
		return profile, found, err
	}

	found = true

	return profile, found, err
}

// Put stores the profile under company with the cache TTL.
func (c *RedisCache) Put(ctx context.Context, company string, profile jobs.CompanyProfile) (err error) {
	var data []byte
	data, err = json.Marshal(profile)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal profile")
		return err
	}

	err = c.client.Set(ctx, c.key(company), data, c.ttl).Err()
	if err != nil {
		err = errors.Wrapf(err, "failed to cache profile for %s", company)
		return err
	}

	return err
}

// Close releases the redis connection pool.
func (c *RedisCache) Close() (err error) {
	err = c.client.Close()
	return err
}

// Profiler produces a company profile.
type Profiler interface {
	Research(ctx context.Context, company string) (profile jobs.CompanyProfile)
}

// CachedResearcher consults a cache before researching.
type CachedResearcher struct {
	researcher Profiler
	cache      Cache
	logger     *slog.Logger
}

// NewCachedResearcher wraps researcher with cache.
func NewCachedResearcher(researcher Profiler, cache Cache, logger *slog.Logger) (cached *CachedResearcher) {
	if logger == nil {
		logger = slog.Default()
	}
	cached = &CachedResearcher{researcher: researcher, cache: cache, logger: logger}
	return cached
}

// Lookup returns a profile for company, from cache unless refresh is set.
// Only complete profiles are written to the cache. Cache errors are logged, never returned.
func (c *CachedResearcher) Lookup(ctx context.Context, company string, refresh bool) (profile jobs.CompanyProfile) {
	if !refresh {
		cached, found, err := c.cache.Get(ctx, company)
		if err != nil {
			c.logger.Warn("research cache read failed", "company", company, "error", err)
		} else if found {
			c.logger.Debug("using cached research", "company", company, "fetched_at", cached.FetchedAt)
			profile = cached
			return profile
		}
	}

	profile = c.researcher.Research(ctx, company)

	if !profile.Complete() {
		return profile
	}

	err := c.cache.Put(ctx, company, profile)
	if err != nil {
		c.logger.Warn("research cache write failed", "company", company, "error", err)
	}

	return profile
}

// NoCache never finds anything and discards writes.
type NoCache struct{}

// Get always misses.
func (NoCache) Get(ctx context.Context, company string) (profile jobs.CompanyProfile, found bool, err error) {
	return profile, found, err
}

// Put does nothing.
func (NoCache) Put(ctx context.Context, company string, profile jobs.CompanyProfile) (err error) {
	return err
}
