package gridbase

import (
	"fmt"
	"sync"
)

// Client is the entry point of the SDK. It validates its configuration
// once, owns the single shared fetcher, and hands out lazily created,
// memoized managers for each platform service. All managers share the same
// fetcher, so session and header state is consistent across the whole
// client. Client is safe for concurrent use.
//
// Example:
//
//	client, err := gridbase.New(gridbase.DefaultConfig().
//	    WithBaseURL("https://myapp.gridbase.io").
//	    WithClientKey("client-key"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if err := client.RestoreSession(); err != nil {
//	    log.Printf("no stored session: %v", err)
//	}
type Client struct {
	config  *Config
	fetcher *fetcher

	mu       sync.Mutex
	closed   bool
	auth     *AuthManager
	endpoint *EndpointManager
	db       *DatabaseManager
	cache    *CacheManager
	queue    *QueueManager
	task     *TaskManager
	storage  *StorageManager
}

// New creates a client from the given configuration. The configuration is
// validated synchronously; a missing or non-http(s) base URL fails here,
// before any network call. If config is nil, DefaultConfig() is used (and
// fails validation, since it has no base URL or client key).
func New(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	f, err := newFetcher(config)
	if err != nil {
		return nil, err
	}

	return &Client{
		config:  config,
		fetcher: f,
	}, nil
}

// Auth returns the authentication manager.
func (c *Client) Auth() *AuthManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.auth == nil {
		c.auth = &AuthManager{fetcher: c.fetcher}
	}
	return c.auth
}

// Endpoint returns the manager for invoking app endpoints.
func (c *Client) Endpoint() *EndpointManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.endpoint == nil {
		c.endpoint = &EndpointManager{fetcher: c.fetcher}
	}
	return c.endpoint
}

// DB returns the database manager.
func (c *Client) DB() *DatabaseManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		c.db = &DatabaseManager{fetcher: c.fetcher}
	}
	return c.db
}

// Cache returns the cache manager.
func (c *Client) Cache() *CacheManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		c.cache = &CacheManager{fetcher: c.fetcher}
	}
	return c.cache
}

// Queue returns the message queue manager.
func (c *Client) Queue() *QueueManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queue == nil {
		c.queue = &QueueManager{fetcher: c.fetcher}
	}
	return c.queue
}

// Task returns the scheduled task manager.
func (c *Client) Task() *TaskManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		c.task = &TaskManager{fetcher: c.fetcher}
	}
	return c.task
}

// Storage returns the storage manager.
func (c *Client) Storage() *StorageManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storage == nil {
		c.storage = &StorageManager{fetcher: c.fetcher}
	}
	return c.storage
}

// Session returns a copy of the active session, or nil when no session has
// been installed.
func (c *Client) Session() *Session {
	return c.fetcher.Session()
}

// RestoreSession reads a previously persisted session from the configured
// storage adapter and installs it, so authenticated calls work without a
// fresh sign-in. It is a no-op when no adapter is configured or nothing is
// stored. Expired sessions are discarded instead of installed.
func (c *Client) RestoreSession() error {
	if c.config.LocalStorage == nil {
		return nil
	}
	raw, ok := c.config.LocalStorage.GetItem(sessionStorageKey)
	if !ok {
		return nil
	}
	session, err := decodeSession(raw)
	if err != nil {
		c.config.LocalStorage.RemoveItem(sessionStorageKey)
		return fmt.Errorf("stored session is not decodable: %w", err)
	}
	if session.Expired() {
		c.config.LocalStorage.RemoveItem(sessionStorageKey)
		return nil
	}

	// Install directly; SetSession would re-persist the same blob.
	c.fetcher.mu.Lock()
	c.fetcher.session = session
	c.fetcher.mu.Unlock()
	return nil
}

// Close releases the client's transport resources. The client should not be
// used after Close. Close is safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.fetcher.close()
	return nil
}
