package gridbase

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionStorageKey is the key the SDK uses when persisting the session
// through the configured LocalStorage adapter.
const sessionStorageKey = "gridbase.session"

// Session is the opaque session issued by the platform auth service after a
// successful sign-in or token grant. The token is attached to every request
// once the session is installed on the client.
type Session struct {
	// Token is the opaque session token.
	Token string `json:"token"`
	// UserID is the id of the user the session belongs to.
	UserID string `json:"userId,omitempty"`
	// CreatedAt is when the session was issued.
	CreatedAt time.Time `json:"createdAt,omitempty"`
	// ExpiresAt is when the session expires. Zero when the server did not
	// report an expiry; in that case the token itself is consulted.
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	// UserAgent is the client user agent recorded at sign-in.
	UserAgent string `json:"userAgent,omitempty"`
}

// Expired reports whether the session is past its expiry. When the server
// did not report an expiry, the token is decoded as a JWT (without
// signature verification, the server remains the authority) and the exp
// claim is used. Sessions with no discoverable expiry are considered live.
func (s *Session) Expired() bool {
	expiry := s.ExpiresAt
	if expiry.IsZero() {
		var claims jwt.RegisteredClaims
		parser := jwt.NewParser(jwt.WithoutClaimsValidation())
		if _, _, err := parser.ParseUnverified(s.Token, &claims); err != nil {
			return false
		}
		if claims.ExpiresAt == nil {
			return false
		}
		expiry = claims.ExpiresAt.Time
	}
	return time.Now().After(expiry)
}

// LocalStorage is the pluggable key-value collaborator used to persist the
// session across client instances. The SDK treats the stored value as an
// opaque blob. Implementations must be safe for concurrent use.
type LocalStorage interface {
	// GetItem returns the stored value for key and whether it was present.
	GetItem(key string) (string, bool)
	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string)
	// RemoveItem deletes the value stored under key, if any.
	RemoveItem(key string)
}

// encodeSession serializes a session for the storage adapter.
func encodeSession(s *Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeSession parses a session previously written by encodeSession.
func decodeSession(raw string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, err
	}
	return &s, nil
}
