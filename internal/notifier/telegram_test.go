package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTelegram(t *testing.T, handler http.HandlerFunc) *Telegram {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tg := NewTelegram("123:abc", "-100200300", "")
	tg.apiBase = srv.URL
	return tg
}

func TestSend_PostsHTMLMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, tg.Send("<b>VNM</b> strong accumulation"))
	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "-100200300", gotBody["chat_id"])
	assert.Equal(t, "<b>VNM</b> strong accumulation", gotBody["text"])
	assert.Equal(t, "HTML", gotBody["parse_mode"])
}

func TestSend_NonOKStatusIsAnError(t *testing.T) {
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})

	err := tg.Send("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	var calls int
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	err := tg.SendWithRetry(context.Background(), "hello", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSendWithRetry_ContextCancelStopsEarly(t *testing.T) {
	var calls int
	tg := newTestTelegram(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := tg.SendWithRetry(ctx, "hello", 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, calls)
}
