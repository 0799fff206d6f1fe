package middleware

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheHeader tells clients whether a response came from the cache
const CacheHeader = "X-Cache"

type cacheEntry struct {
	Content     []byte
	ContentType string
	Expiration  time.Time
}

// ResponseCache keeps successful GET responses in memory
type ResponseCache struct {
	mu         sync.RWMutex
	items      map[string]cacheEntry
	expiration time.Duration
	hits       uint64
	misses     uint64
	purges     uint64
	generation uint64 // bumped by Purge
}

// NewResponseCache creates a cache whose entries live for expiration
func NewResponseCache(expiration time.Duration) *ResponseCache {
	if expiration <= 0 {
		expiration = 30 * time.Second
	}
	return &ResponseCache{
		items:      make(map[string]cacheEntry),
		expiration: expiration,
	}
}

// cacheKey hashes the path with its sorted query parameters
func cacheKey(c *gin.Context) string {
	queryParams := c.Request.URL.Query()
	queryKeys := make([]string, 0, len(queryParams))
	for key := range queryParams {
		queryKeys = append(queryKeys, key)
	}
	sort.Strings(queryKeys)

	var b strings.Builder
	b.WriteString(c.Request.URL.Path)
	b.WriteString("?")
	for _, key := range queryKeys {
		values := queryParams[key]
		sort.Strings(values)
		for _, value := range values {
			b.WriteString(key + "=" + value + "&")
		}
	}

	hasher := md5.New()
	hasher.Write([]byte(b.String()))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Cache serves GET requests from the cache and stores 200 responses
func (rc *ResponseCache) Cache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)

		rc.mu.RLock()
		entry, found := rc.items[key]
		rc.mu.RUnlock()

		if found && entry.Expiration.After(time.Now()) {
			rc.mu.Lock()
			rc.hits++
			rc.mu.Unlock()
			c.Header(CacheHeader, "HIT")
			c.Data(http.StatusOK, entry.ContentType, entry.Content)
			c.Abort()
			return
		}

		rc.mu.Lock()
		rc.misses++
		generation := rc.generation
		rc.mu.Unlock()

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer
		c.Header(CacheHeader, "MISS")

		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		rc.mu.Lock()
		// a purge during the handler means the body may predate a write
		if rc.generation == generation {
			rc.items[key] = cacheEntry{
				Content:     writer.body.Bytes(),
				ContentType: writer.Header().Get("Content-Type"),
				Expiration:  time.Now().Add(rc.expiration),
			}
		}
		rc.mu.Unlock()
	}
}

// PurgeOnWrite clears the cache after every successful mutating request
func (rc *ResponseCache) PurgeOnWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() < http.StatusBadRequest {
			rc.Purge()
		}
	}
}

// Purge removes every entry
func (rc *ResponseCache) Purge() {
	rc.mu.Lock()
	rc.items = make(map[string]cacheEntry)
	rc.purges++
	rc.generation++
	rc.mu.Unlock()
}

// CleanExpired removes expired entries
func (rc *ResponseCache) CleanExpired() {
	now := time.Now()

	rc.mu.Lock()
	defer rc.mu.Unlock()

	for key, entry := range rc.items {
		if entry.Expiration.Before(now) {
			delete(rc.items, key)
		}
	}
}

// Run cleans expired entries every interval until ctx is done
func (rc *ResponseCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rc.CleanExpired()
		}
	}
}

// Stats returns counters and the current entries
func (rc *ResponseCache) Stats() map[string]interface{} {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	items := make([]map[string]interface{}, 0, len(rc.items))
	for key, entry := range rc.items {
		items = append(items, map[string]interface{}{
			"key":        key,
			"size":       len(entry.Content),
			"expiration": entry.Expiration.Format(time.RFC3339),
			"expired":    entry.Expiration.Before(time.Now()),
		})
	}

	return map[string]interface{}{
		"total_items": len(rc.items),
		"ttl":         rc.expiration.String(),
		"hits":        rc.hits,
		"misses":      rc.misses,
		"purges":      rc.purges,
		"items":       items,
	}
}

// responseWriter copies the response body while writing it
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write writes to the client and to the buffer
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// WriteString writes to the client and to the buffer
func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
