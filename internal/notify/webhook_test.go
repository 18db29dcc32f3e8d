package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSendWithRetrySucceedsFirstTry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wn := NewWebhookNotifier(srv.URL, "")
	if err := wn.SendWithRetry(context.Background(), map[string]string{"ok": "yes"}, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestSendWithRetryRecoversAfterFailure(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wn := NewWebhookNotifier(srv.URL, "")
	if err := wn.SendWithRetry(context.Background(), map[string]string{"ok": "eventually"}, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
}

func TestSendWithRetryReturnsImmediatelyAfterFinalAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wn := NewWebhookNotifier(srv.URL, "")
	start := time.Now()
	err := wn.SendWithRetry(context.Background(), map[string]string{"ok": "no"}, 0)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected an error when every attempt fails")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected the last send error to be wrapped, got %v", err)
	}
	// No backoff may follow the last attempt.
	if elapsed >= time.Second {
		t.Errorf("final attempt slept the backoff before returning: took %v", elapsed)
	}
}

func TestSendWithRetryHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wn := NewWebhookNotifier(srv.URL, "")
	if err := wn.SendWithRetry(ctx, map[string]string{"ok": "no"}, 3); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
