package reminder_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/reminderd/internal/reminder"
)

func TestClient_Pending(t *testing.T) {
	due := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/reminders/pending", r.URL.Path)

		json.NewEncoder(w).Encode([]reminder.Reminder{{
			ID:      "abc-123",
			Title:   "Water plants",
			DueDate: due,
			Status:  reminder.StatusPending,
		}})
	}))
	defer srv.Close()

	client := reminder.NewClient(srv.URL, 5*time.Second)
	got, err := client.Pending(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "abc-123", got[0].ID)
	assert.True(t, got[0].DueDate.Equal(due))
}

func TestClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reminders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in reminder.Reminder
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "new-1"
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	client := reminder.NewClient(srv.URL, 5*time.Second)
	created, err := client.Create(context.Background(), reminder.Reminder{Title: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, "Buy milk", created.Title)
}

func TestClient_Snooze(t *testing.T) {
	until := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/reminders/r1/snooze", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-03-10T14:00:00Z", body["until"])

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := reminder.NewClient(srv.URL, 5*time.Second)
	assert.NoError(t, client.Snooze(context.Background(), "r1", until))
}

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/reminders/r1/complete", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := reminder.NewClient(srv.URL, 5*time.Second)
	assert.NoError(t, client.Complete(context.Background(), "r1"))
}

func TestClient_ErrorResponses(t *testing.T) {
	t.Run("structured error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "reminder not found"})
		}))
		defer srv.Close()

		client := reminder.NewClient(srv.URL, 5*time.Second)
		err := client.Complete(context.Background(), "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reminder not found")
	})

	t.Run("bare status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := reminder.NewClient(srv.URL, 5*time.Second)
		err := client.Delete(context.Background(), "r1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}
