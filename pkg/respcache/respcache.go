// Package respcache is a process-wide TTL cache for upstream API
// responses, keyed by a fingerprint of the request shape. Credential
// parameters are excluded from keys so they never leak into logs or
// shared state.
package respcache

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache stores responses with a per-entry TTL. Expired entries behave
// as misses on the next lookup.
type Cache struct {
	store *cache.Cache
}

// New creates an empty cache. Entries carry their own TTL; the janitor
// sweeps expired ones every 10 minutes.
func New() *Cache {
	return &Cache{
		store: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// Get returns the cached value for key, or false when absent or expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores value under key for ttl. A ttl <= 0 means the value is
// never cached.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.store.Set(key, value, ttl)
}

// Key builds a deterministic fingerprint from a path and its query
// parameters, sorted by name. Parameter names listed in secrets are
// excluded so two requests differing only by credential produce the
// same key.
func Key(path string, params url.Values, secrets ...string) string {
	secretSet := make(map[string]struct{}, len(secrets))
	for _, s := range secrets {
		secretSet[s] = struct{}{}
	}

	names := make([]string, 0, len(params))
	for name := range params {
		if _, ok := secretSet[name]; ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.Join(params[name], ","))
	}
	return b.String()
}
