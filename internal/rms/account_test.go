package rms

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountUpdateProfile(t *testing.T) {
	t.Run("primary endpoint serves", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPatch, r.Method)

			var in ProfileInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			require.Equal(t, "new@example.com", in.Email)

			json.NewEncoder(w).Encode(ManagedUser{ID: 7, Email: "new@example.com"})
		})

		client := newTestClient(t, mux)

		user, err := client.Account.UpdateProfile(context.Background(), 7, ProfileInput{Email: "new@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
	})

	t.Run("walks the endpoint generations in order", func(t *testing.T) {
		var tried []string
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/users/7/", func(w http.ResponseWriter, r *http.Request) {
			tried = append(tried, "rms")
			w.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/auth/users/7/", func(w http.ResponseWriter, r *http.Request) {
			tried = append(tried, "auth")
			w.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/api/users/7/", func(w http.ResponseWriter, r *http.Request) {
			tried = append(tried, "api")
			json.NewEncoder(w).Encode(ManagedUser{ID: 7})
		})

		client := newTestClient(t, mux)

		user, err := client.Account.UpdateProfile(context.Background(), 7, ProfileInput{FirstName: "Alice"})
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, []string{"rms", "auth", "api"}, tried)
	})

	t.Run("all endpoints failing is an error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		user, err := client.Account.UpdateProfile(context.Background(), 7, ProfileInput{})
		require.Error(t, err)
		require.Nil(t, user)
	})
}

func TestAccountChangePassword(t *testing.T) {
	t.Run("current endpoint serves", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/auth/change-password/", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "old-pass", body["current_password"])
			require.Equal(t, "new-pass", body["new_password"])
			require.NotContains(t, body, "confirm_password")

			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		require.NoError(t, client.Account.ChangePassword(context.Background(), "old-pass", "new-pass"))
	})

	t.Run("legacy endpoint gets the confirmation field", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/auth/change-password/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		mux.HandleFunc("/auth/change-password/", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "new-pass", body["confirm_password"])

			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		require.NoError(t, client.Account.ChangePassword(context.Background(), "old-pass", "new-pass"))
	})

	t.Run("wrong current password surfaces", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Current password is incorrect."}`))
		}))

		err := client.Account.ChangePassword(context.Background(), "wrong", "new-pass")
		require.Error(t, err)
	})
}

func TestAccountProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rms/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ManagedUser{ID: 7, Username: "alice", Role: "head"})
	})

	client := newTestClient(t, mux)

	user, err := client.Account.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "head", user.Role)
}
