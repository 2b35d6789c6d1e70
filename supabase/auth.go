// ABOUTME: GoTrue password sign-in, sign-out, token refresh, and auth-state events
// ABOUTME: Implements auth.Provider and feeds the bearer token to row requests
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"

	"github.com/harperreed/pitch/auth"
)

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         authUser `json:"user"`
}

type authUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u authUser) identity() *auth.Identity {
	return &auth.Identity{ID: u.ID, Email: u.Email, FullName: metadataName(u.UserMetadata)}
}

// accessClaims are the GoTrue access-token claims we read.
type accessClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

func metadataName(meta map[string]any) string {
	name, _ := meta["full_name"].(string)
	return strings.TrimSpace(name)
}

// identityFromToken reads the identity out of the access token. The
// signature is not checked here; the backend verifies it on every request.
func identityFromToken(access string) (*auth.Identity, error) {
	var claims accessClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(access, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("access token has no subject")
	}
	return &auth.Identity{
		ID:       claims.Subject,
		Email:    claims.Email,
		FullName: metadataName(claims.UserMetadata),
	}, nil
}

func (c *Client) toOAuth(resp tokenResponse) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresIn > 0 {
		tok.Expiry = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return tok
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*auth.Identity, error) {
	var resp tokenResponse
	err := c.do(ctx, c.plain, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, &auth.Error{Kind: auth.KindInvalidCredentials, Message: firstNonEmpty(apiErr.Message, "Invalid login credentials"), Err: err}
		}
		return nil, &auth.Error{Kind: auth.KindProvider, Message: fmt.Sprintf("failed to sign in: %v", err), Err: err}
	}

	ident := resp.User.identity()
	if ident.ID == "" {
		if ident, err = identityFromToken(resp.AccessToken); err != nil {
			return nil, &auth.Error{Kind: auth.KindProvider, Message: err.Error(), Err: err}
		}
	}

	c.setSession(c.toOAuth(resp), ident)
	c.logger.Info("signed in", "user_id", ident.ID)
	c.emit(ident)
	return ident, nil
}

// SignOut revokes the session remotely when possible and always clears it locally.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.ensureLoaded()
	tok := c.token
	c.mu.Unlock()

	if tok != nil {
		err := c.do(ctx, c.plain, request{
			method: http.MethodPost,
			path:   "/auth/v1/logout",
			bearer: tok.AccessToken,
		}, nil)
		if err != nil {
			c.logger.Warn("remote sign-out failed", "err", err)
		}
	}

	c.setSession(nil, nil)
	c.emit(nil)
	return nil
}

// CurrentSession returns the signed-in identity, refreshing an expired token.
func (c *Client) CurrentSession(ctx context.Context) (*auth.Identity, error) {
	tok, err := c.validToken(ctx)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}

	c.mu.Lock()
	ident := c.ident
	c.mu.Unlock()
	if ident != nil {
		return ident, nil
	}

	ident, err = identityFromToken(tok.AccessToken)
	if err != nil {
		c.logger.Debug("falling back to user endpoint", "err", err)
		if ident, err = c.User(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.ident = ident
	c.mu.Unlock()
	return ident, nil
}

// User asks the backend who the current token belongs to.
func (c *Client) User(ctx context.Context) (*auth.Identity, error) {
	tok, err := c.validToken(ctx)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	var user authUser
	if err := c.do(ctx, c.plain, request{method: http.MethodGet, path: "/auth/v1/user", bearer: tok.AccessToken}, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user.identity(), nil
}

func (c *Client) OnAuthStateChange(fn func(*auth.Identity)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.changes[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.changes, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ident *auth.Identity) {
	c.mu.Lock()
	fns := make([]func(*auth.Identity), 0, len(c.changes))
	for _, fn := range c.changes {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ident)
	}
}

func (c *Client) setSession(tok *oauth2.Token, ident *auth.Identity) {
	c.mu.Lock()
	c.token = tok
	c.ident = ident
	c.loaded = true
	c.mu.Unlock()

	var err error
	if tok == nil {
		err = c.tokens.Clear()
	} else {
		err = c.tokens.Save(tok)
	}
	if err != nil {
		c.logger.Warn("failed to persist session", "err", err)
	}
}

// ensureLoaded reads the persisted token once. Caller holds c.mu.
func (c *Client) ensureLoaded() {
	if c.loaded {
		return
	}
	c.loaded = true
	tok, err := c.tokens.Load()
	if err != nil {
		c.logger.Warn("ignoring unreadable session", "err", err)
		return
	}
	c.token = tok
}

// validToken returns a usable session token, refreshing it when expired.
// It returns nil, nil when there is no session.
func (c *Client) validToken(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	c.ensureLoaded()
	tok := c.token
	c.mu.Unlock()

	if tok == nil || tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		c.logger.Info("session expired")
		c.setSession(nil, nil)
		c.emit(nil)
		return nil, nil
	}

	var resp tokenResponse
	err := c.do(ctx, c.plain, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": tok.RefreshToken},
	}, &resp)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			return nil, fmt.Errorf("failed to refresh session: %w", err)
		}
		c.logger.Warn("session refresh rejected", "err", err)
		c.setSession(nil, nil)
		c.emit(nil)
		return nil, nil
	}

	fresh := c.toOAuth(resp)
	var ident *auth.Identity
	if resp.User.ID != "" {
		ident = resp.User.identity()
	}
	c.setSession(fresh, ident)
	c.logger.Debug("session refreshed")
	return fresh, nil
}

// tokenSource authorizes row requests with the session token, or the anon
// key when signed out.
type tokenSource struct {
	c *Client
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.c.validToken(context.Background())
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return &oauth2.Token{AccessToken: s.c.anonKey, TokenType: "Bearer"}, nil
	}
	return tok, nil
}
