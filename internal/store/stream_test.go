package store_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prabhata303-del/Dd/internal/store"
)

func sseFrame(event, data string) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)
}

func TestStreamerAppliesPutAndPatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		assert.Equal(t, "/orders.json", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprint(w, sseFrame("put", `{"path":"/","data":{"o1":{"status":"pending","timestamp":100}}}`))
		flusher.Flush()
		fmt.Fprint(w, sseFrame("keep-alive", "null"))
		flusher.Flush()
		fmt.Fprint(w, sseFrame("patch", `{"path":"/o1","data":{"status":"accepted"}}`))
		flusher.Flush()
		fmt.Fprint(w, sseFrame("put", `{"path":"/o2","data":{"status":"pending","timestamp":200}}`))
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	streamer := store.NewStreamer(server.URL, server.Client(), zap.NewNop())
	sub, err := streamer.Watch(context.Background(), "orders")
	require.NoError(t, err)
	defer sub.Cancel()

	first := waitEvent(t, sub)
	assert.JSONEq(t, `{"o1":{"status":"pending","timestamp":100}}`, string(first))

	second := waitEvent(t, sub)
	assert.JSONEq(t, `{"o1":{"status":"accepted","timestamp":100}}`, string(second))

	third := waitEvent(t, sub)
	assert.JSONEq(t, `{"o1":{"status":"accepted","timestamp":100},"o2":{"status":"pending","timestamp":200}}`, string(third))
}

func TestStreamerReconnectsAfterDrop(t *testing.T) {
	var connects int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&connects, 1)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		if n == 1 {
			fmt.Fprint(w, sseFrame("put", `{"path":"/","data":{"open":true}}`))
			flusher.Flush()
			return // drop the connection
		}
		fmt.Fprint(w, sseFrame("put", `{"path":"/","data":{"open":false}}`))
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	streamer := store.NewStreamer(server.URL, server.Client(), zap.NewNop())
	sub, err := streamer.Watch(context.Background(), "settings")
	require.NoError(t, err)
	defer sub.Cancel()

	first := waitEvent(t, sub)
	assert.JSONEq(t, `{"open":true}`, string(first))

	select {
	case raw, ok := <-sub.Events():
		require.True(t, ok)
		assert.JSONEq(t, `{"open":false}`, string(raw))
	case <-time.After(5 * time.Second):
		t.Fatal("no event after reconnect")
	}
	assert.GreaterOrEqual(t, atomic.LoadInt32(&connects), int32(2))
}

func TestStreamerCancelClosesSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseFrame("put", `{"path":"/","data":{"x":1}}`))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	streamer := store.NewStreamer(server.URL, server.Client(), zap.NewNop())
	sub, err := streamer.Watch(context.Background(), "dishes")
	require.NoError(t, err)

	waitEvent(t, sub)
	sub.Cancel()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "events channel should close after Cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after Cancel")
	}
}

func TestStreamerRequiresDatabaseURL(t *testing.T) {
	streamer := store.NewStreamer("", nil, zap.NewNop())
	_, err := streamer.Watch(context.Background(), "dishes")
	assert.Error(t, err)
}
