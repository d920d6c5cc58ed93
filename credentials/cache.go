package credentials

import (
	"sync"
	"time"
)

// DefaultCacheTTL defines how long credentials read from profile files are reused.
const DefaultCacheTTL = 15 * time.Minute

// Cache keeps credentials resolved from profile files, keyed by profile name.
// A Cache is owned by one filesystem instance, it is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	creds      *Credentials
	expiration time.Time
}

// NewCache creates an empty cache. A ttl <= 0 keeps entries until Clear.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns a copy of the cached credentials for profile.
func (c *Cache) Get(profile string) (*Credentials, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[profile]
	if !exists {
		return nil, false
	}

	if !entry.expiration.IsZero() && !c.now().Before(entry.expiration) {
		entry.creds.Wipe()
		delete(c.entries, profile)
		return nil, false
	}

	return entry.creds.Clone(), true
}

// Put stores a copy of creds for profile.
func (c *Cache) Put(profile string, creds *Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, exists := c.entries[profile]; exists {
		old.creds.Wipe()
	}

	entry := &cacheEntry{creds: creds.Clone()}
	if c.ttl > 0 {
		entry.expiration = c.now().Add(c.ttl)
	}
	c.entries[profile] = entry
}

// Len returns the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear wipes and drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for profile, entry := range c.entries {
		entry.creds.Wipe()
		delete(c.entries, profile)
	}
}
