package aoraclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Account is a credential record on the service.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is the public profile attached to an account. Video posts reference
// users, not accounts.
type User struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAccount registers a new account, signs it in, and creates the public
// profile with a generated initials avatar. The three remote steps are not
// transactional: if a later step fails the earlier ones are left in place and
// the error reports the step that failed.
func (c *Client) CreateAccount(ctx context.Context, username, email, password string) (User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return User{}, newError(KindValidation, "username, email and password are required", nil)
	}

	var created struct {
		Account Account `json:"account"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/accounts", nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &created)
	if err != nil {
		return User{}, newError(KindAccountCreation, "failed to register account", err)
	}

	if _, err := c.SignIn(ctx, email, password); err != nil {
		return User{}, newError(KindAccountCreation, "failed to sign in new account", err)
	}

	var profile struct {
		Profile User `json:"profile"`
	}
	err = c.doJSON(ctx, http.MethodPost, "/api/v1/users", nil, map[string]string{
		"username":  username,
		"email":     email,
		"avatarUrl": c.avatarURL(username),
	}, &profile)
	if err != nil {
		c.logger.Warn("account registered without profile", "email", email, "error", err)
		return User{}, newError(KindAccountCreation, "failed to create user profile", err)
	}

	return profile.Profile, nil
}

// SignIn exchanges credentials for a session and stores it on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, newError(KindValidation, "email and password are required", nil)
	}

	var resp struct {
		Tokens Session `json:"tokens"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/sessions", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return Session{}, newError(KindAuthentication, "sign in failed", err)
	}

	c.setSession(resp.Tokens)
	return resp.Tokens, nil
}

// RefreshSession rotates the stored token pair.
func (c *Client) RefreshSession(ctx context.Context) (Session, error) {
	session, ok := c.Session()
	if !ok {
		return Session{}, newError(KindAuthentication, "no active session", nil)
	}

	var resp struct {
		Tokens Session `json:"tokens"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/v1/sessions/refresh", nil, map[string]string{
		"refreshToken": session.RefreshToken,
	}, &resp)
	if err != nil {
		return Session{}, newError(KindAuthentication, "failed to refresh session", err)
	}

	c.setSession(resp.Tokens)
	return resp.Tokens, nil
}

// SignOut revokes the stored session on the service and forgets it locally.
func (c *Client) SignOut(ctx context.Context) error {
	session, ok := c.Session()
	if !ok {
		return newError(KindSignOut, "no active session", nil)
	}

	err := c.doJSON(ctx, http.MethodDelete, "/api/v1/sessions", nil, map[string]string{
		"refreshToken": session.RefreshToken,
	}, nil)
	if err != nil {
		return newError(KindSignOut, "sign out failed", err)
	}

	c.clearSession()
	return nil
}

// CurrentUser fetches the profile of the signed-in account. Without a session,
// or when the account has no profile, the error kind is KindNotFound.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	if _, ok := c.Session(); !ok {
		return User{}, newError(KindNotFound, "no active session", nil)
	}

	var resp struct {
		Profile User `json:"profile"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/me", nil, nil, &resp)
	if err != nil {
		var remote *apiError
		if errors.As(err, &remote) && (remote.Status == http.StatusNotFound || remote.Status == http.StatusUnauthorized) {
			return User{}, newError(KindNotFound, "no current user", err)
		}
		return User{}, newError(KindFetch, "failed to load current user", err)
	}
	return resp.Profile, nil
}

func (c *Client) avatarURL(username string) string {
	return c.endpoint + "/api/v1/avatars/initials?name=" + url.QueryEscape(username)
}
