package gridbase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the configuration for a Gridbase client. BaseURL and
// ClientKey are required, everything else has sensible defaults.
//
// Configuration is built with the fluent builder pattern:
//
//	cfg := gridbase.DefaultConfig().
//	    WithBaseURL("https://myapp.gridbase.io").
//	    WithClientKey("client-key").
//	    WithAPIKey("api-key").
//	    WithTimeout(10 * time.Second)
//
//	client, err := gridbase.New(cfg)
type Config struct {
	// BaseURL is the environment base URL of the app. It must be an
	// absolute http or https URL; construction fails otherwise.
	BaseURL string

	// ClientKey identifies the app client and is sent on every request.
	ClientKey string

	// APIKey is an optional master key sent as a bearer token. Required
	// only for operations the platform restricts to server-side callers.
	APIKey string

	// SigningKey is an optional shared secret. When set, every request
	// carries an HMAC-SHA256 signature of its method and path.
	SigningKey string

	// LocalStorage is an optional key-value adapter used to persist the
	// session across client instances. When nil, sessions live only in
	// memory.
	LocalStorage LocalStorage

	// Timeout is the HTTP request timeout applied by the shared transport.
	// Per-call deadlines can be set through context.Context.
	// Default: 30s
	Timeout time.Duration

	// Headers are custom headers included in all requests.
	Headers map[string]string

	// TransportConfig holds connection pooling settings.
	TransportConfig TransportConfig

	// Logger receives one debug event per request. Default: zerolog.Nop().
	Logger zerolog.Logger
}

// TransportConfig holds HTTP connection pool settings for the shared
// transport.
type TransportConfig struct {
	// MaxIdleConns controls the maximum number of idle connections.
	// Default: 100
	MaxIdleConns int

	// MaxConnsPerHost controls the maximum connections per host.
	// Default: 10
	MaxConnsPerHost int

	// IdleConnTimeout is how long an idle connection is kept open.
	// Default: 90s
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config with defaults filled in. BaseURL and
// ClientKey must still be provided before constructing a client.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		TransportConfig: TransportConfig{
			MaxIdleConns:    100,
			MaxConnsPerHost: 10,
			IdleConnTimeout: 90 * time.Second,
		},
		Headers: make(map[string]string),
		Logger:  zerolog.Nop(),
	}
}

// WithBaseURL sets the environment base URL.
func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}

// WithClientKey sets the client key sent on every request.
func (c *Config) WithClientKey(key string) *Config {
	c.ClientKey = key
	return c
}

// WithAPIKey sets the optional master API key.
func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

// WithSigningKey sets the optional request signing secret.
func (c *Config) WithSigningKey(key string) *Config {
	c.SigningKey = key
	return c
}

// WithLocalStorage sets the adapter used to persist sessions.
func (c *Config) WithLocalStorage(storage LocalStorage) *Config {
	c.LocalStorage = storage
	return c
}

// WithTimeout sets the request timeout for all operations.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithHeader adds a custom header to be sent with all requests.
//
// Example:
//
//	cfg := gridbase.DefaultConfig().
//	    WithHeader("X-Tenant-Id", "tenant-123")
func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// WithLogger sets the logger used for per-request debug events.
func (c *Config) WithLogger(logger zerolog.Logger) *Config {
	c.Logger = logger
	return c
}

// Validate checks the configuration and fills defaults for missing values.
// It is called automatically by New.
//
// Returns an error wrapping ErrInvalidConfig when the base URL is missing,
// not absolute, not http(s), or when the client key is missing.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base URL is not a valid URL: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: base URL scheme must be http or https, got %q", ErrInvalidConfig, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: base URL must have a host", ErrInvalidConfig)
	}
	if c.ClientKey == "" {
		return fmt.Errorf("%w: client key is required", ErrInvalidConfig)
	}

	// Normalize once so path joining stays simple.
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.TransportConfig.MaxIdleConns <= 0 {
		c.TransportConfig.MaxIdleConns = 100
	}
	if c.TransportConfig.MaxConnsPerHost <= 0 {
		c.TransportConfig.MaxConnsPerHost = 10
	}
	if c.TransportConfig.IdleConnTimeout <= 0 {
		c.TransportConfig.IdleConnTimeout = 90 * time.Second
	}
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	return nil
}
