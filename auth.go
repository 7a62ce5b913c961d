package gridbase

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// User is a member of the app's authentication service.
type User struct {
	ID            string    `json:"_id"`
	Provider      string    `json:"provider,omitempty"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	ProfilePicURL string    `json:"profilePicture,omitempty"`
	EmailVerified bool      `json:"emailVerified,omitempty"`
	SignUpAt      time.Time `json:"signUpAt,omitempty"`
	LastLoginAt   time.Time `json:"lastLoginAt,omitempty"`
}

// authGrant is the response shape of sign-up, sign-in and token grants.
type authGrant struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// AuthManager groups the operations of the platform authentication service.
// Successful sign-in and token grant calls install the returned session on
// the shared dispatcher (and persist it through the storage adapter when
// one is configured); SignOut clears it. Those are the only places the SDK
// interprets payload semantics - the dispatcher itself stays transport-only.
type AuthManager struct {
	fetcher *fetcher
}

// SignUpWithEmail creates a new user with an email/password credential.
// Depending on the app's email confirmation settings the returned session
// may be nil until the address is verified. When a session is returned it
// is installed on the client.
func (m *AuthManager) SignUpWithEmail(ctx context.Context, email, password string, name ...string) (*User, *Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	if len(name) > 0 && name[0] != "" {
		body["name"] = name[0]
	}

	var grant authGrant
	if err := m.fetcher.post(ctx, "/_api/rest/v1/auth/signup-email", body, &grant); err != nil {
		return nil, nil, err
	}
	if grant.Session != nil {
		m.fetcher.SetSession(grant.Session)
	}
	return grant.User, grant.Session, nil
}

// SignInWithEmail signs a user in with an email/password credential and
// installs the returned session on the client.
//
// Example:
//
//	user, session, err := client.Auth().SignInWithEmail(ctx, "bob@example.com", "secret")
//	if gridbase.IsUnauthorized(err) {
//	    // wrong credentials
//	}
func (m *AuthManager) SignInWithEmail(ctx context.Context, email, password string) (*User, *Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var grant authGrant
	if err := m.fetcher.post(ctx, "/_api/rest/v1/auth/signin-email", body, &grant); err != nil {
		return nil, nil, err
	}
	if grant.Session != nil {
		m.fetcher.SetSession(grant.Session)
	}
	return grant.User, grant.Session, nil
}

// GetAuthGrant exchanges an access token (issued by an OAuth redirect, a
// magic link or an email verification flow) for the user and a session, and
// installs the session on the client.
func (m *AuthManager) GetAuthGrant(ctx context.Context, accessToken string) (*User, *Session, error) {
	query := url.Values{}
	query.Set("key", accessToken)

	var grant authGrant
	if err := m.fetcher.get(ctx, "/_api/rest/v1/auth/grant", query, &grant); err != nil {
		return nil, nil, err
	}
	if grant.Session != nil {
		m.fetcher.SetSession(grant.Session)
	}
	return grant.User, grant.Session, nil
}

// SignOut invalidates the active session on the server and clears it from
// the client and the storage adapter.
func (m *AuthManager) SignOut(ctx context.Context) error {
	session := m.fetcher.Session()
	if session == nil {
		return ErrNoSession
	}

	body := map[string]interface{}{"token": session.Token}
	if err := m.fetcher.postDiscard(ctx, "/_api/rest/v1/auth/signout", body); err != nil {
		return err
	}
	m.fetcher.ClearSession()
	return nil
}

// SignOutAll invalidates every session of the signed-in user, including the
// active one, which is also cleared from the client.
func (m *AuthManager) SignOutAll(ctx context.Context) error {
	if m.fetcher.Session() == nil {
		return ErrNoSession
	}
	if err := m.fetcher.postDiscard(ctx, "/_api/rest/v1/auth/signout-all", nil); err != nil {
		return err
	}
	m.fetcher.ClearSession()
	return nil
}

// GetAllSessions lists the active sessions of the signed-in user.
func (m *AuthManager) GetAllSessions(ctx context.Context) ([]Session, error) {
	if m.fetcher.Session() == nil {
		return nil, ErrNoSession
	}
	var sessions []Session
	if err := m.fetcher.get(ctx, "/_api/rest/v1/auth/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetUserFromDB fetches the signed-in user's record from the server, which
// may be fresher than the one returned at sign-in.
func (m *AuthManager) GetUserFromDB(ctx context.Context) (*User, error) {
	if m.fetcher.Session() == nil {
		return nil, ErrNoSession
	}
	var user User
	if err := m.fetcher.get(ctx, "/_api/rest/v1/auth/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the signed-in user's password after verifying the
// current one.
func (m *AuthManager) ChangePassword(ctx context.Context, newPassword, oldPassword string) error {
	if m.fetcher.Session() == nil {
		return ErrNoSession
	}
	body := map[string]interface{}{
		"newPassword": newPassword,
		"oldPassword": oldPassword,
	}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/auth/change-pwd", body)
}

// SendResetPwdEmail sends the password reset email to the given address.
func (m *AuthManager) SendResetPwdEmail(ctx context.Context, email string) error {
	body := map[string]interface{}{"email": email}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/auth/send-reset", body)
}

// ResetPwdWithToken sets a new password using the access token delivered by
// the reset email.
func (m *AuthManager) ResetPwdWithToken(ctx context.Context, accessToken, newPassword string) error {
	query := url.Values{}
	query.Set("key", accessToken)
	body := map[string]interface{}{"newPassword": newPassword}
	return m.fetcher.Send(ctx, http.MethodPost, "/_api/rest/v1/auth/reset-pwd", &requestOptions{
		body:    body,
		query:   query,
		resolve: ResolveNone,
	}, nil)
}

// SendMagicLinkEmail sends a one-time sign-in link to the given address.
// The link carries an access token redeemable with GetAuthGrant.
func (m *AuthManager) SendMagicLinkEmail(ctx context.Context, email string) error {
	body := map[string]interface{}{"email": email}
	return m.fetcher.postDiscard(ctx, "/_api/rest/v1/auth/send-magic", body)
}
