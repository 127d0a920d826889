package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDiscord_Notify(t *testing.T) {
	var got discordMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := NewDiscord(server.URL, zap.NewNop())

	err := d.Notify(context.Background(), "Done check-out: signed out")

	require.NoError(t, err)
	assert.Equal(t, "Done check-out: signed out", got.Content)
}

func TestDiscord_Notify_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	d := NewDiscord(server.URL, zap.NewNop())

	err := d.Notify(context.Background(), "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestDiscord_Notify_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewDiscord(url, zap.NewNop()).Notify(context.Background(), "hello")

	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), "ignored"))
}
