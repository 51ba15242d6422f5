package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generation statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Record represents one generation submitted from the page
type Record struct {
	ID          string     `json:"id"`
	QRID        string     `json:"qr_id,omitempty"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	SizeKB      float64    `json:"size_kb,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Buffer is a thread-safe ring buffer for generation records
type Buffer struct {
	mu      sync.RWMutex
	entries []Record
	cap     int
}

// NewBuffer creates a new buffer with the given capacity
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		entries: make([]Record, 0, capacity),
		cap:     capacity,
	}
}

// Start records a pending generation for content and returns its id
func (b *Buffer) Start(content string) string {
	rec := Record{
		ID:        uuid.NewString(),
		Content:   content,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) >= b.cap {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = rec
	} else {
		b.entries = append(b.entries, rec)
	}
	return rec.ID
}

// Complete marks a generation as completed
func (b *Buffer) Complete(id, qrID, downloadURL string, sizeKB float64) {
	b.finish(id, StatusCompleted, "", func(r *Record) {
		r.QRID = qrID
		r.DownloadURL = downloadURL
		r.SizeKB = sizeKB
	})
}

// Fail marks a generation as failed
func (b *Buffer) Fail(id, errMsg string) {
	b.finish(id, StatusFailed, errMsg, nil)
}

// Abandon marks a generation whose outcome was discarded by a reset
func (b *Buffer) Abandon(id string) {
	b.finish(id, StatusAbandoned, "", nil)
}

func (b *Buffer) finish(id, status, errMsg string, fn func(*Record)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].ID == id {
			b.entries[i].Status = status
			if errMsg != "" {
				b.entries[i].Error = errMsg
			}
			if fn != nil {
				fn(&b.entries[i])
			}
			now := time.Now()
			b.entries[i].CompletedAt = &now
			return
		}
	}
}

// Entries returns all records (newest first)
func (b *Buffer) Entries() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]Record, len(b.entries))
	// Reverse order so newest is first
	for i, j := 0, len(b.entries)-1; j >= 0; i, j = i+1, j-1 {
		result[i] = b.entries[j]
	}
	return result
}
