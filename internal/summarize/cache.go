package summarize

import "sync"

// cache memoizes summaries by fingerprint for the duration of a run, so an
// item retried after a delivery failure does not spend the budget twice.
type cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func newCache() *cache {
	return &cache{entries: make(map[string]string)}
}

func (c *cache) get(fingerprint string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[fingerprint]
	return v, ok
}

func (c *cache) set(fingerprint, summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = summary
}
