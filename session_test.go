package gridbase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return token
}

func TestSession_ExpiredByServerExpiry(t *testing.T) {
	live := &Session{Token: "opaque", ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.Expired())

	stale := &Session{Token: "opaque", ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, stale.Expired())
}

func TestSession_ExpiredByTokenClaim(t *testing.T) {
	live := &Session{Token: signedToken(t, time.Now().Add(time.Hour))}
	assert.False(t, live.Expired())

	stale := &Session{Token: signedToken(t, time.Now().Add(-time.Minute))}
	assert.True(t, stale.Expired())
}

func TestSession_OpaqueTokenNeverExpires(t *testing.T) {
	s := &Session{Token: "not-a-jwt"}
	assert.False(t, s.Expired())
}

func TestSession_EncodeDecodeRoundTrip(t *testing.T) {
	original := &Session{
		Token:     "tok",
		UserID:    "u1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UserAgent: "gridbase-go",
	}

	encoded, err := encodeSession(original)
	require.NoError(t, err)

	decoded, err := decodeSession(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRestoreSession_DiscardsExpiredSession(t *testing.T) {
	storage := newMemoryStorage()
	encoded, err := encodeSession(&Session{Token: "tok", ExpiresAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	storage.SetItem(sessionStorageKey, encoded)

	client, err := New(testConfig("https://myapp.gridbase.io").WithLocalStorage(storage))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.RestoreSession())
	assert.Nil(t, client.Session())

	_, ok := storage.GetItem(sessionStorageKey)
	assert.False(t, ok, "expired session should be removed from storage")
}
