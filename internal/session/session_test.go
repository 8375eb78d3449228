package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crglab/rmsctl/internal/gateway"
)

func newTestSession(t *testing.T, handler http.Handler) (*Session, *Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := newTestStore(t)
	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL}, store)
	require.NoError(t, err)

	return New(store, gw), store
}

func freshToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	return signToken(t, &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   userID,
		Username: "alice",
		Email:    "alice@example.com",
		Role:     role,
	})
}

func tokenHandler(t *testing.T, access string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body["username"])

		json.NewEncoder(w).Encode(Credential{Access: access, Refresh: "refresh-token"})
	}
}

func TestInitialize(t *testing.T) {
	t.Run("no credential means logged out", func(t *testing.T) {
		sess, _ := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		user, err := sess.Initialize(context.Background())
		require.NoError(t, err)
		require.Nil(t, user)
		require.Nil(t, sess.CurrentUser())
		require.False(t, sess.Loading())
	})

	t.Run("repeat initialization is idempotent", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(User{ID: 7, Username: "alice", Role: RoleHead})
		})

		sess, store := newTestSession(t, mux)
		require.NoError(t, store.Save(&Credential{Access: freshToken(t, 7, RoleHead), Refresh: "r"}))

		first, err := sess.Initialize(context.Background())
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := sess.Initialize(context.Background())
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("corrupt credential is cleared, not surfaced", func(t *testing.T) {
		sess, store := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0600))

		user, err := sess.Initialize(context.Background())
		require.NoError(t, err)
		require.Nil(t, user)

		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("expired token is cleared, not surfaced", func(t *testing.T) {
		sess, store := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))

		expired := signToken(t, &AccessClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
			UserID: 7,
		})
		require.NoError(t, store.Save(&Credential{Access: expired, Refresh: "r"}))

		user, err := sess.Initialize(context.Background())
		require.NoError(t, err)
		require.Nil(t, user)

		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success persists the credential and resolves the user", func(t *testing.T) {
		access := freshToken(t, 7, RoleHead)

		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", tokenHandler(t, access))
		mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(User{
				ID: 7, Username: "alice", Email: "alice@example.com",
				FirstName: "Alice", LastName: "Nguyen", Role: RoleHead,
			})
		})

		sess, store := newTestSession(t, mux)

		user, err := sess.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		require.Equal(t, int64(7), user.ID)
		require.Equal(t, RoleHead, user.Role)
		require.False(t, user.Degraded)
		require.Equal(t, "Alice Nguyen", user.FullName())

		require.Equal(t, user, sess.CurrentUser())

		cred, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, access, cred.Access)
		assert.Equal(t, "refresh-token", cred.Refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
		})

		sess, store := newTestSession(t, mux)

		user, err := sess.Login(context.Background(), "alice", "wrong")
		require.Nil(t, user)

		var loginErr *LoginError
		require.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "Invalid username or password.", loginErr.Message)

		require.Nil(t, sess.CurrentUser())
		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("malformed request", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"username":["This field may not be blank."]}`))
		})

		sess, _ := newTestSession(t, mux)

		_, err := sess.Login(context.Background(), "", "")
		var loginErr *LoginError
		require.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "Invalid request. Please check your input.", loginErr.Message)
	})

	t.Run("backend failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		sess, _ := newTestSession(t, mux)

		_, err := sess.Login(context.Background(), "alice", "s3cret")
		var loginErr *LoginError
		require.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "Server error. Please try again later.", loginErr.Message)
	})

	t.Run("unreachable backend", func(t *testing.T) {
		store := newTestStore(t)
		gw, err := gateway.New(gateway.Config{
			BaseURL: "http://127.0.0.1:1", // nothing listens here
			Timeout: time.Second,
		}, store)
		require.NoError(t, err)
		sess := New(store, gw)

		_, err = sess.Login(context.Background(), "alice", "s3cret")
		var loginErr *LoginError
		require.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "Network error. Please check your connection.", loginErr.Message)
	})

	t.Run("unexpected status", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		sess, _ := newTestSession(t, mux)

		_, err := sess.Login(context.Background(), "alice", "s3cret")
		var loginErr *LoginError
		require.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "Login failed. Please check your credentials.", loginErr.Message)
	})

	t.Run("undecodable issued token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", tokenHandler(t, "not-a-jwt"))

		sess, store := newTestSession(t, mux)

		_, err := sess.Login(context.Background(), "alice", "s3cret")
		var loginErr *LoginError
		require.ErrorAs(t, err, &loginErr)
		assert.Equal(t, "Server error. Please try again later.", loginErr.Message)

		// The broken credential must not survive.
		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestResolveUserFallbackChain(t *testing.T) {
	t.Run("profile endpoint serves when users endpoint is missing", func(t *testing.T) {
		access := freshToken(t, 7, "")

		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", tokenHandler(t, access))
		mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
		})
		mux.HandleFunc("/rms/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(User{ID: 7, Username: "alice", Role: RoleHead})
		})

		sess, _ := newTestSession(t, mux)

		user, err := sess.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		require.Equal(t, RoleHead, user.Role)
		require.False(t, user.Degraded)
	})

	t.Run("token claims serve when every endpoint fails", func(t *testing.T) {
		access := freshToken(t, 7, RoleAdmin)

		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", tokenHandler(t, access))
		// Everything else 404s.

		sess, _ := newTestSession(t, mux)

		user, err := sess.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		require.Equal(t, int64(7), user.ID)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, RoleAdmin, user.Role)
		require.False(t, user.Degraded)
	})

	t.Run("missing role everywhere degrades to staff", func(t *testing.T) {
		access := freshToken(t, 7, "")

		mux := http.NewServeMux()
		mux.HandleFunc("/api/token/", tokenHandler(t, access))

		sess, _ := newTestSession(t, mux)

		user, err := sess.Login(context.Background(), "alice", "s3cret")
		require.NoError(t, err)
		require.Equal(t, RoleStaff, user.Role)
		require.True(t, user.Degraded)
	})
}

func TestLogout(t *testing.T) {
	access := freshToken(t, 7, RoleHead)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", tokenHandler(t, access))
	mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{ID: 7, Username: "alice", Role: RoleHead})
	})

	sess, store := newTestSession(t, mux)

	_, err := sess.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, sess.CurrentUser())

	sess.Logout()

	require.Nil(t, sess.CurrentUser())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoCredential)

	// Logging out twice is fine.
	sess.Logout()
}

func TestSessionInvalidation(t *testing.T) {
	access := freshToken(t, 7, RoleHead)

	var reject bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/", tokenHandler(t, access))
	mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(User{ID: 7, Username: "alice", Role: RoleHead})
	})
	mux.HandleFunc("/rms/proposals/", func(w http.ResponseWriter, r *http.Request) {
		if reject {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		w.Write([]byte(`[]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := newTestStore(t)
	gw, err := gateway.New(gateway.Config{BaseURL: srv.URL}, store)
	require.NoError(t, err)
	sess := New(store, gw)

	_, err = sess.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, sess.CurrentUser())

	// Any authenticated call that comes back 401 destroys the session.
	reject = true
	err = gw.Get(context.Background(), "/rms/proposals/", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, gateway.StatusOf(err))

	require.Nil(t, sess.CurrentUser())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoCredential)
}
