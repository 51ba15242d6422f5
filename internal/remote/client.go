package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jetsetgo/qr-studio/internal/config"
	"github.com/jetsetgo/qr-studio/internal/form"
	"github.com/jetsetgo/qr-studio/internal/logger"
)

// maxBodySize bounds how much of a response we are willing to read. Data
// URLs of large codes run to a few hundred KB.
const maxBodySize = 16 << 20

// Client talks to the QR generation service
type Client struct {
	base   *url.URL
	client *http.Client
	log    *logger.Logger
}

// NewClient creates a client for the configured endpoint
func NewClient(cfg *config.RemoteConfig, log *logger.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must be http or https", cfg.Endpoint)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
		log:    log.WithComponent("remote"),
	}, nil
}

// Endpoint returns the base URL of the generation service
func (c *Client) Endpoint() string {
	return c.base.String()
}

// Generate posts one generation request. A nil error means the service sent
// a well-formed answer, which is either Success or Failure. Anything else is
// reported as a *TransportError.
func (c *Client) Generate(ctx context.Context, req form.GenerationRequest) (Result, error) {
	endpoint := c.base.JoinPath("generate").String()
	body := req.Encode().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	c.log.Debug("sending generate request", "endpoint", endpoint, "url", req.URL)

	var payload generateResponse
	if err := c.do(httpReq, &payload); err != nil {
		return nil, err
	}

	if !payload.Success {
		return Failure{ErrorMessage: payload.Error}, nil
	}

	display := payload.DataURL
	if display == "" {
		display = payload.PreviewURL
	}
	return Success{
		QRID:        payload.QRID,
		DisplayURL:  c.resolve(display),
		DownloadURL: c.resolve(payload.DownloadURL),
		Message:     payload.Message,
		SizeKB:      payload.SizeKB,
	}, nil
}

// Test calls the connectivity probe endpoint
func (c *Client) Test(ctx context.Context) (*TestResponse, error) {
	endpoint := c.base.JoinPath("test").String()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")

	var payload TestResponse
	if err := c.do(httpReq, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// do executes req and decodes a 2xx JSON body into out
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		status := http.StatusText(resp.StatusCode)
		if status == "" {
			status = resp.Status
		}
		c.log.Warn("generation service returned error status", "status", resp.StatusCode, "path", req.URL.Path)
		return &TransportError{StatusCode: resp.StatusCode, Status: status}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// resolve turns references relative to the service into absolute URLs.
// Data URLs are passed through untouched.
func (c *Client) resolve(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}
