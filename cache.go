package gridbase

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CacheManager accesses the platform cache service.
type CacheManager struct {
	fetcher *fetcher
}

// CacheSetOptions contains optional parameters for SetWithOptions.
type CacheSetOptions struct {
	// TTLSeconds expires the entry after the given number of seconds.
	// Zero stores the entry without expiry.
	TTLSeconds int
}

// Get retrieves the value stored under key and decodes it into dest, which
// must be a pointer. Missing keys report IsNotFound.
func (m *CacheManager) Get(ctx context.Context, key string, dest interface{}) error {
	query := url.Values{}
	query.Set("key", key)
	return m.fetcher.get(ctx, "/_api/rest/v1/cache", query, dest)
}

// Set stores a JSON-serializable value under key without expiry.
func (m *CacheManager) Set(ctx context.Context, key string, value interface{}) error {
	return m.SetWithOptions(ctx, key, value, nil)
}

// SetWithOptions stores a value under key with additional options.
//
// Example:
//
//	err := client.Cache().SetWithOptions(ctx, "session:abc", data,
//	    &gridbase.CacheSetOptions{TTLSeconds: 300})
func (m *CacheManager) SetWithOptions(ctx context.Context, key string, value interface{}, opts *CacheSetOptions) error {
	body := map[string]interface{}{
		"key":   key,
		"value": value,
	}
	if opts != nil && opts.TTLSeconds > 0 {
		body["ttl"] = opts.TTLSeconds
	}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/cache", body)
}

// Delete removes the entry stored under key. Deleting a missing key is not
// an error.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	body := map[string]interface{}{"key": key}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/cache/delete", body)
}

// Increment atomically adds delta to the number stored under key, creating
// it at zero when absent, and returns the new value.
func (m *CacheManager) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	body := map[string]interface{}{
		"key":       key,
		"increment": delta,
	}
	var resp struct {
		Value int64 `json:"value"`
	}
	if err := m.fetcher.post(ctx, "/_api/rest/v1/cache/increment", body, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Decrement atomically subtracts delta from the number stored under key and
// returns the new value.
func (m *CacheManager) Decrement(ctx context.Context, key string, delta int64) (int64, error) {
	body := map[string]interface{}{
		"key":       key,
		"decrement": delta,
	}
	var resp struct {
		Value int64 `json:"value"`
	}
	if err := m.fetcher.post(ctx, "/_api/rest/v1/cache/decrement", body, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Expire sets the remaining time-to-live of the entry stored under key.
func (m *CacheManager) Expire(ctx context.Context, key string, ttlSeconds int) error {
	body := map[string]interface{}{
		"key": key,
		"ttl": ttlSeconds,
	}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/cache/expire", body)
}

// GetMultiple retrieves several keys concurrently, one request per key, and
// returns the raw values of the keys that exist. Missing keys are left out
// of the result; any other failure aborts the whole call.
func (m *CacheManager) GetMultiple(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	results := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			var value json.RawMessage
			if err := m.Get(gctx, key, &value); err != nil {
				if IsNotFound(err) {
					return nil
				}
				return err
			}
			mu.Lock()
			results[key] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
