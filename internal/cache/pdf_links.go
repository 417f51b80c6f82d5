// Package cache holds the in-process memo of resolved bulletin PDF links.
package cache

import "sync"

// PdfLinks maps (stock code, bulletin id) to a resolved PDF URL.
// Entries are write-once and never expire for the lifetime of the process.
type PdfLinks struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewPdfLinks builds an empty cache.
func NewPdfLinks() *PdfLinks {
	return &PdfLinks{entries: make(map[string]string)}
}

// Key joins the composite cache key.
func Key(stockCode, bulletinID string) string {
	return stockCode + ":" + bulletinID
}

// Get returns the cached URL for the pair, if any.
func (c *PdfLinks) Get(stockCode, bulletinID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.entries[Key(stockCode, bulletinID)]
	return u, ok
}

// PutIfAbsent stores url unless an entry already exists, and returns the stored value.
func (c *PdfLinks) PutIfAbsent(stockCode, bulletinID, url string) string {
	key := Key(stockCode, bulletinID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = url
	return url
}

// Len reports the number of cached links.
func (c *PdfLinks) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
