package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/crglab/rmsctl/internal/gateway"
)

// User is the resolved, caller-facing representation of the logged-in
// principal. Destroyed on logout; mutated only by a successful login or a
// profile refresh.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`

	// Degraded is set when the role could not be confirmed by the backend
	// and was defaulted from incomplete token claims. Consumers should
	// refuse privileged operations for a degraded session.
	Degraded bool `json:"-"`
}

// FullName returns the display name, falling back to the username.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// Login failure messages, one per error class.
const (
	msgInvalidCredentials = "Invalid username or password."
	msgInvalidRequest     = "Invalid request. Please check your input."
	msgServerError        = "Server error. Please try again later."
	msgNetworkError       = "Network error. Please check your connection."
	msgLoginFailed        = "Login failed. Please check your credentials."
)

// LoginError carries a classified, human-readable login failure. It is the
// only error Login returns; callers present Message directly.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// Session is the single source of truth for who is logged in. Construct one
// at application start and pass it to whatever needs it; it owns the
// credential lifecycle together with the gateway's 401 handling.
type Session struct {
	store *Store
	gw    *gateway.Gateway

	mu      sync.RWMutex
	user    *User
	loading bool
}

// New creates a session bound to the store and gateway. The session
// subscribes to gateway invalidation so the in-memory user is dropped the
// moment any request reports the credential invalid.
func New(store *Store, gw *gateway.Gateway) *Session {
	s := &Session{store: store, gw: gw}
	gw.OnSessionInvalidated(func() {
		s.setUser(nil)
	})
	return s
}

// CurrentUser returns the resolved user, or nil when logged out.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether Initialize or Login is in flight. It always
// settles to false, whatever the outcome.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Initialize restores the session from durable storage. No credential means
// logged out. A credential that fails to decode is cleared and treated as
// logged out; Initialize never surfaces that as an error.
func (s *Session) Initialize(ctx context.Context) (*User, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	cred, err := s.store.Load()
	if err != nil {
		if err != ErrNoCredential {
			log.Warn().Err(err).Msg("stored credential unreadable, clearing session")
			if clearErr := s.store.Clear(); clearErr != nil {
				log.Error().Err(clearErr).Msg("failed to clear stored credential")
			}
		}
		s.setUser(nil)
		return nil, nil
	}

	claims, err := DecodeAccessToken(cred.Access)
	if err != nil {
		log.Warn().Err(err).Msg("stored credential failed to decode, clearing session")
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear stored credential")
		}
		s.setUser(nil)
		return nil, nil
	}

	user := s.resolveUser(ctx, claims)
	s.setUser(user)

	log.Debug().
		Int64("user_id", user.ID).
		Str("role", user.Role).
		Msg("session restored")

	return user, nil
}

// Login authenticates against the backend token endpoint, persists the
// issued credential and resolves the user. Failures are returned as a
// *LoginError with one of four message classes; Login never panics through
// this boundary.
func (s *Session) Login(ctx context.Context, username, password string) (*User, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	// A stale credential from a previous session must not leak into this one.
	if err := s.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear stale credential")
	}
	s.setUser(nil)

	var cred Credential
	body := map[string]string{"username": username, "password": password}
	if err := s.gw.Post(ctx, "/api/token/", body, &cred); err != nil {
		log.Debug().Err(err).Str("username", username).Msg("login rejected")
		return nil, classifyLoginError(err)
	}

	if err := s.store.Save(&cred); err != nil {
		return nil, &LoginError{Message: msgServerError, Err: fmt.Errorf("persist credential: %w", err)}
	}

	claims, err := DecodeAccessToken(cred.Access)
	if err != nil {
		// The backend issued a token we cannot read; treat as its failure.
		if clearErr := s.store.Clear(); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear undecodable credential")
		}
		return nil, &LoginError{Message: msgServerError, Err: err}
	}

	user := s.resolveUser(ctx, claims)
	s.setUser(user)

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role).
		Str("fingerprint", truncate(Fingerprint(cred.Access), 12)).
		Msg("login succeeded")

	return user, nil
}

// Logout clears the in-memory user and the persisted credential. Pure local
// operation: no network call, no navigation.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear credential on logout")
	}
	s.setUser(nil)

	log.Info().Msg("logged out")
}

// resolveUser turns decoded claims into the authoritative user record via an
// ordered candidate chain: the users endpoint by subject id, then the profile
// endpoint, then the token's own claims. The chain always produces a user;
// the claims fallback is best effort and flagged as degraded when the role
// had to be defaulted.
func (s *Session) resolveUser(ctx context.Context, claims *AccessClaims) *User {
	var attempts []gateway.Attempt[*User]

	if id := claims.SubjectID(); id != 0 {
		path := fmt.Sprintf("/rms/users/%d/", id)
		attempts = append(attempts, gateway.Attempt[*User]{
			Name: path,
			Call: func(ctx context.Context) (*User, error) {
				var u User
				if err := s.gw.Get(ctx, path, &u); err != nil {
					return nil, err
				}
				return &u, nil
			},
		})
	}

	attempts = append(attempts, gateway.Attempt[*User]{
		Name: "/rms/auth/profile/",
		Call: func(ctx context.Context) (*User, error) {
			var u User
			if err := s.gw.Get(ctx, "/rms/auth/profile/", &u); err != nil {
				return nil, err
			}
			return &u, nil
		},
	})

	user, err := gateway.TryInOrder(ctx, "resolve session user", attempts...)
	if err != nil {
		log.Warn().Err(err).Msg("user lookup unavailable, falling back to token claims")
		user = &User{
			ID:        claims.SubjectID(),
			Username:  claims.Username,
			Email:     claims.Email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Role:      claims.Role,
		}
	}

	if user.Role == "" {
		// The backend record and token both failed to state a role. Default
		// to the least privileged one, loudly: a head or admin whose profile
		// endpoint is unreachable would otherwise be silently demoted.
		user.Role = RoleStaff
		user.Degraded = true
		log.Warn().
			Int64("user_id", user.ID).
			Msg("role unavailable, defaulting to staff for a degraded session")
	}

	return user
}

func (s *Session) setUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func classifyLoginError(err error) *LoginError {
	status := gateway.StatusOf(err)
	switch {
	case status == http.StatusUnauthorized:
		return &LoginError{Message: msgInvalidCredentials, Err: err}
	case status == http.StatusBadRequest:
		return &LoginError{Message: msgInvalidRequest, Err: err}
	case status >= http.StatusInternalServerError:
		return &LoginError{Message: msgServerError, Err: err}
	case status == 0:
		// No response at all.
		return &LoginError{Message: msgNetworkError, Err: err}
	default:
		return &LoginError{Message: msgLoginFailed, Err: err}
	}
}
