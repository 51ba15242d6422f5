package remote

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetsetgo/qr-studio/internal/logger"
)

func TestProberCheck(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"message":"up"}`))
	})

	p, err := NewProber(client, "", time.Second, logger.Discard())
	if err != nil {
		t.Fatalf("NewProber failed: %v", err)
	}

	if _, err := p.Check(context.Background()); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	status := p.Status()
	if !status.Connected || status.Message != "up" || status.LastSeen.IsZero() {
		t.Errorf("unexpected status after success: %+v", status)
	}

	healthy.Store(false)
	if _, err := p.Check(context.Background()); err == nil {
		t.Fatal("expected error from unhealthy service")
	}
	status = p.Status()
	if status.Connected {
		t.Error("expected disconnected status")
	}
	if status.LastError != "HTTP 503: Service Unavailable" {
		t.Errorf("unexpected last error %q", status.LastError)
	}
	if status.LastSeen.IsZero() {
		t.Error("expected LastSeen to keep the last successful probe")
	}
}

func TestProberSchedule(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"message":"up"}`))
	})

	if _, err := NewProber(client, "not a schedule", time.Second, logger.Discard()); err == nil {
		t.Error("expected error for invalid schedule")
	}

	p, err := NewProber(client, "@every 1h", time.Second, logger.Discard())
	if err != nil {
		t.Fatalf("NewProber failed: %v", err)
	}
	p.Start()
	defer p.Stop()

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Error("expected an immediate probe on Start")
	}
}
