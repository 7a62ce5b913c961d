package gridbase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid https URL",
			config:  DefaultConfig().WithBaseURL("https://myapp.gridbase.io").WithClientKey("ck"),
			wantErr: false,
		},
		{
			name:    "valid http URL",
			config:  DefaultConfig().WithBaseURL("http://localhost:8080").WithClientKey("ck"),
			wantErr: false,
		},
		{
			name:    "missing base URL",
			config:  DefaultConfig().WithClientKey("ck"),
			wantErr: true,
		},
		{
			name:    "non-http scheme",
			config:  DefaultConfig().WithBaseURL("ftp://bad").WithClientKey("ck"),
			wantErr: true,
		},
		{
			name:    "relative URL",
			config:  DefaultConfig().WithBaseURL("/just/a/path").WithClientKey("ck"),
			wantErr: true,
		},
		{
			name:    "missing client key",
			config:  DefaultConfig().WithBaseURL("https://myapp.gridbase.io"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateNormalizesBaseURL(t *testing.T) {
	cfg := DefaultConfig().WithBaseURL("https://myapp.gridbase.io/").WithClientKey("ck")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://myapp.gridbase.io", cfg.BaseURL)
}

func TestConfig_ValidateFillsDefaults(t *testing.T) {
	cfg := &Config{
		BaseURL:   "https://myapp.gridbase.io",
		ClientKey: "ck",
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.TransportConfig.MaxIdleConns)
	assert.Equal(t, 10, cfg.TransportConfig.MaxConnsPerHost)
	assert.Equal(t, 90*time.Second, cfg.TransportConfig.IdleConnTimeout)
	assert.NotNil(t, cfg.Headers)
}

func TestConfig_BuilderChain(t *testing.T) {
	cfg := DefaultConfig().
		WithBaseURL("https://myapp.gridbase.io").
		WithClientKey("ck").
		WithAPIKey("ak").
		WithSigningKey("sk").
		WithTimeout(5*time.Second).
		WithHeader("X-Tenant-Id", "t1")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ak", cfg.APIKey)
	assert.Equal(t, "sk", cfg.SigningKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "t1", cfg.Headers["X-Tenant-Id"])
}
