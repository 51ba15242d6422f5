package notify

import (
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestAddAndList(t *testing.T) {
	c := NewCenter(time.Minute, time.Minute)
	defer c.Close()

	first := c.Info("generated")
	second := c.Error("failed")

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt timestamp is zero")
	}

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].Kind != Info || list[1].Kind != Error {
		t.Errorf("unexpected order/kinds: %+v", list)
	}
}

func TestNotificationsExpireByKind(t *testing.T) {
	c := NewCenter(30*time.Millisecond, 120*time.Millisecond)
	defer c.Close()

	c.Info("short lived")
	c.Error("long lived")

	waitFor(t, time.Second, func() bool { return c.Len() == 1 })
	if list := c.List(); list[0].Kind != Error {
		t.Errorf("expected the error to outlive the info, got %+v", list)
	}

	waitFor(t, time.Second, func() bool { return c.Len() == 0 })
}

func TestDismiss(t *testing.T) {
	c := NewCenter(time.Minute, time.Minute)
	defer c.Close()

	n := c.Error("dismiss me")
	if !c.Dismiss(n.ID) {
		t.Error("expected Dismiss to report a live notification")
	}
	if c.Len() != 0 {
		t.Errorf("expected no notifications, got %d", c.Len())
	}
	if c.Dismiss(n.ID) {
		t.Error("expected second Dismiss to report false")
	}
	if c.Dismiss("unknown") {
		t.Error("expected unknown id to report false")
	}
}

func TestWatchSeesEveryChange(t *testing.T) {
	c := NewCenter(20*time.Millisecond, time.Minute)
	defer c.Close()

	var mu sync.Mutex
	var sizes []int
	c.Watch(func(list []Notification) {
		mu.Lock()
		sizes = append(sizes, len(list))
		mu.Unlock()
	})

	c.Info("a")
	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sizes) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	if len(sizes) != 2 || sizes[0] != 1 || sizes[1] != 0 {
		t.Errorf("expected watcher sizes [1 0], got %v", sizes)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	c := NewCenter(10*time.Millisecond, 10*time.Millisecond)
	c.Info("x")
	c.Close()

	if c.Len() != 0 {
		t.Errorf("expected empty center after Close, got %d", c.Len())
	}
	c.Info("after close")
	if c.Len() != 0 {
		t.Error("expected Add after Close to be dropped")
	}
}
