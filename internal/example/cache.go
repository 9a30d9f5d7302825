package example

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCacheSize bounds the number of memoized completions.
const DefaultCacheSize = 128

type batchKey struct{}

// WithBatch tags ctx with a batch index. Completions for different batches
// never share a cache entry even when their prompts are identical.
func WithBatch(ctx context.Context, batch int) context.Context {
	return context.WithValue(ctx, batchKey{}, batch)
}

func batchFrom(ctx context.Context) int {
	if batch, ok := ctx.Value(batchKey{}).(int); ok {
		return batch
	}
	return -1
}

// CachedCompleter memoizes completions by prompt so identical requests hit the model once.
type CachedCompleter struct {
	inner     Completer
	namespace string
	cache     *lru.Cache
}

// NewCachedCompleter wraps inner with an LRU cache. namespace separates models.
func NewCachedCompleter(inner Completer, namespace string, size int) (*CachedCompleter, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedCompleter{inner: inner, namespace: namespace, cache: cache}, nil
}

// Complete returns a cached completion or calls the inner completer. Errors are not cached.
func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(c.namespace, batchFrom(ctx), prompt)
	if value, ok := c.cache.Get(key); ok {
		return value.(string), nil
	}
	text, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

// Len reports the number of cached completions.
func (c *CachedCompleter) Len() int {
	return c.cache.Len()
}

func cacheKey(namespace string, batch int, prompt string) string {
	sum := sha256.Sum256([]byte(namespace + "\x00" + strconv.Itoa(batch) + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
