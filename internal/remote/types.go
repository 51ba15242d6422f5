package remote

import (
	"fmt"
	"time"
)

// Result is the outcome of a well-formed generate response: Success or Failure.
type Result interface {
	isResult()
}

// Success is returned when the service reports success: true
type Success struct {
	QRID        string   `json:"qr_id,omitempty"`
	DisplayURL  string   `json:"display_url"`
	DownloadURL string   `json:"download_url,omitempty"`
	Message     string   `json:"message,omitempty"`
	SizeKB      *float64 `json:"size_kb,omitempty"`
}

// Failure is returned when the service reports success: false
type Failure struct {
	ErrorMessage string `json:"error,omitempty"`
}

func (Success) isResult() {}
func (Failure) isResult() {}

// TransportError covers non-2xx responses, unreadable bodies and network
// errors. StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
	}
	if e.Err == nil {
		return "transport error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// generateResponse is the wire shape of POST /generate
type generateResponse struct {
	Success     bool     `json:"success"`
	QRID        string   `json:"qr_id"`
	Message     string   `json:"message"`
	PreviewURL  string   `json:"preview_url"`
	DownloadURL string   `json:"download_url"`
	DataURL     string   `json:"data_url"`
	SizeKB      *float64 `json:"size_kb"`
	Error       string   `json:"error"`
}

// TestResponse is the wire shape of GET /test
type TestResponse struct {
	Status    string `json:"status,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

// ConnectionStatus represents the generation service connection status
type ConnectionStatus struct {
	Connected bool      `json:"connected"`
	Message   string    `json:"message,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	LastSeen  time.Time `json:"last_seen,omitempty"`
}
