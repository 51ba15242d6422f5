package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the flavour of a notification
type Kind string

const (
	Info  Kind = "info"
	Error Kind = "error"
)

// Notification is a transient message shown to the user
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Center holds the live notifications. Each one removes itself once its
// kind-dependent TTL elapses, or earlier through Dismiss.
type Center struct {
	mu       sync.RWMutex
	entries  []Notification
	timers   map[string]*time.Timer
	ttl      map[Kind]time.Duration
	watchers []func([]Notification)
	closed   bool

	now func() time.Time
}

// NewCenter creates a notification center with the given TTLs
func NewCenter(infoTTL, errorTTL time.Duration) *Center {
	return &Center{
		timers: make(map[string]*time.Timer),
		ttl: map[Kind]time.Duration{
			Info:  infoTTL,
			Error: errorTTL,
		},
		now: time.Now,
	}
}

// TTL returns how long notifications of the given kind stay visible
func (c *Center) TTL(kind Kind) time.Duration {
	return c.ttl[kind]
}

// Watch registers fn to be called with the current list after every change
func (c *Center) Watch(fn func([]Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, fn)
}

// Add creates a notification and arms its expiry timer
func (c *Center) Add(kind Kind, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.entries = append(c.entries, n)
	id := n.ID
	c.timers[id] = time.AfterFunc(c.ttl[kind], func() {
		c.remove(id)
	})
	c.mu.Unlock()

	c.notify()
	return n
}

// Info adds an info notification
func (c *Center) Info(message string) Notification {
	return c.Add(Info, message)
}

// Error adds an error notification
func (c *Center) Error(message string) Notification {
	return c.Add(Error, message)
}

// Dismiss removes a notification before it expires. It reports whether the
// notification was still live.
func (c *Center) Dismiss(id string) bool {
	return c.remove(id)
}

// List returns the live notifications, oldest first
func (c *Center) List() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Notification, len(c.entries))
	copy(result, c.entries)
	return result
}

// Len returns the number of live notifications
func (c *Center) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops all expiry timers and drops the live notifications
func (c *Center) Close() {
	c.mu.Lock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.entries = c.entries[:0]
	c.mu.Unlock()
}

func (c *Center) remove(id string) bool {
	c.mu.Lock()
	idx := -1
	for i, n := range c.entries {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return false
	}

	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Center) notify() {
	c.mu.RLock()
	watchers := make([]func([]Notification), len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.RUnlock()

	if len(watchers) == 0 {
		return
	}
	list := c.List()
	for _, fn := range watchers {
		fn(list)
	}
}
