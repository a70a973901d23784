package client

import (
	"context"
	"strings"
	"sync"
)

// User is the authenticated identity returned by the server.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the single source of truth for who is logged in. It is
// written only through SignIn, SignUp and Logout; consumers read it
// through User/Authenticated/IsAdmin or react through Subscribe.
type Session struct {
	client *Client

	mu      sync.RWMutex
	user    *User
	nextSub int
	subs    map[int]func(*User)
}

func NewSession(c *Client) *Session {
	return &Session{client: c, subs: make(map[int]func(*User))}
}

// SignIn obtains a credential pair, persists it, then fetches and sets
// the current identity. Any failure leaves the session unauthenticated
// and comes back as an error value. Concurrent calls are not
// deduplicated; the last identity fetch to resolve wins.
func (s *Session) SignIn(ctx context.Context, username, password string) error {
	var tokens tokenResponse
	err := s.client.postJSON(ctx, "auth/login/", map[string]string{
		"username": username,
		"password": password,
	}, &tokens)
	if err != nil {
		return err
	}
	if err := s.client.Tokens.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return err
	}
	var user User
	if err := s.client.getJSON(ctx, meEndpoint, &user); err != nil {
		return err
	}
	s.setUser(&user)
	return nil
}

// SignUp registers, then runs the same login sequence as SignIn. The
// two phases are not transactional: if login fails after a successful
// registration the account exists but the session stays
// unauthenticated, and the caller should retry SignIn.
func (s *Session) SignUp(ctx context.Context, email, password, username string) error {
	err := s.client.postJSON(ctx, "auth/register/", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	if err != nil {
		return err
	}
	return s.SignIn(ctx, username, password)
}

// Logout clears the session and the token store synchronously. It does
// not wait for, or require, any server acknowledgment.
func (s *Session) Logout() {
	_ = s.client.Tokens.ClearTokens()
	s.setUser(nil)
}

// Refresh exchanges the stored refresh token for a new credential pair.
func (s *Session) Refresh(ctx context.Context) error {
	refresh, ok := s.client.Tokens.RefreshToken()
	if !ok {
		return &APIError{StatusCode: 401, Detail: "no refresh token"}
	}
	var tokens tokenResponse
	err := s.client.postJSON(ctx, "auth/refresh/", map[string]string{"refresh": refresh}, &tokens)
	if err != nil {
		return err
	}
	return s.client.Tokens.SetTokens(tokens.AccessToken, tokens.RefreshToken)
}

// Restore probes a stored token against the identity endpoint, e.g.
// after a process restart. A stale token leaves the session signed out
// without triggering the unauthorized teardown (the identity check is
// exempt).
func (s *Session) Restore(ctx context.Context) error {
	if _, ok := s.client.Tokens.AccessToken(); !ok {
		return nil
	}
	var user User
	if err := s.client.getJSON(ctx, meEndpoint, &user); err != nil {
		return err
	}
	s.setUser(&user)
	return nil
}

func (s *Session) setUser(u *User) {
	s.mu.Lock()
	s.user = u
	subs := make([]func(*User), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(u)
	}
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether the session user's role is admin, compared
// case-insensitively.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && strings.EqualFold(s.user.Role, "admin")
}

// Subscribe registers fn to run whenever the session user changes (the
// navigation hook for sign-in and teardown). Returns a cancel func.
func (s *Session) Subscribe(fn func(*User)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
