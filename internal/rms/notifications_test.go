package rms

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rms/notifications/{$}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Notification{
			{ID: 2, Message: "Proposal approved", IsRead: false},
			{ID: 1, Message: "Welcome", IsRead: true},
		})
	})

	client := newTestClient(t, mux)

	notifications, err := client.Notifications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	count, err := client.Notifications.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationsMarkRead(t *testing.T) {
	t.Run("patch endpoint serves", func(t *testing.T) {
		var patched, posted bool
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/notifications/5/", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPatch, r.Method)

			var body map[string]bool
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.True(t, body["is_read"])

			patched = true
			w.Write([]byte(`{}`))
		})
		mux.HandleFunc("/rms/notifications/5/mark_read/", func(w http.ResponseWriter, r *http.Request) {
			posted = true
			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		require.NoError(t, client.Notifications.MarkRead(context.Background(), 5))
		assert.True(t, patched)
		assert.False(t, posted)
	})

	t.Run("falls back to mark_read action", func(t *testing.T) {
		var posted bool
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/notifications/5/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		})
		mux.HandleFunc("/rms/notifications/5/mark_read/", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			posted = true
			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		require.NoError(t, client.Notifications.MarkRead(context.Background(), 5))
		assert.True(t, posted)
	})

	t.Run("both candidates failing is an error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		err := client.Notifications.MarkRead(context.Background(), 5)
		require.Error(t, err)
	})
}

func TestNotificationsMarkAllRead(t *testing.T) {
	t.Run("marks only unread", func(t *testing.T) {
		marked := map[string]bool{}
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/notifications/{$}", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]Notification{
				{ID: 1, IsRead: true},
				{ID: 2, IsRead: false},
				{ID: 3, IsRead: false},
			})
		})
		mux.HandleFunc("/rms/notifications/2/", func(w http.ResponseWriter, r *http.Request) {
			marked["2"] = true
			w.Write([]byte(`{}`))
		})
		mux.HandleFunc("/rms/notifications/3/", func(w http.ResponseWriter, r *http.Request) {
			marked["3"] = true
			w.Write([]byte(`{}`))
		})

		client := newTestClient(t, mux)

		count, err := client.Notifications.MarkAllRead(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Len(t, marked, 2)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/rms/notifications/{$}", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]Notification{
				{ID: 1, IsRead: false},
				{ID: 2, IsRead: false},
			})
		})
		mux.HandleFunc("/rms/notifications/1/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		// Notification 2 has no handler at all; both candidates 404.

		client := newTestClient(t, mux)

		count, err := client.Notifications.MarkAllRead(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, count)
	})
}
