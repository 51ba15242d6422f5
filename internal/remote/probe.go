package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jetsetgo/qr-studio/internal/logger"
)

// Prober periodically calls the service's /test endpoint and keeps the
// latest connection status around for diagnostics.
type Prober struct {
	client   *Client
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	status ConnectionStatus
}

// NewProber creates a prober. An empty schedule disables background probing;
// Check still works on demand.
func NewProber(client *Client, schedule string, timeout time.Duration, log *logger.Logger) (*Prober, error) {
	p := &Prober{
		client:   client,
		cron:     cron.New(),
		schedule: schedule,
		timeout:  timeout,
		log:      log.WithComponent("probe"),
	}
	if p.timeout <= 0 {
		p.timeout = 10 * time.Second
	}

	if schedule != "" {
		if _, err := p.cron.AddFunc(schedule, p.scheduledCheck); err != nil {
			return nil, fmt.Errorf("probe schedule %q: %w", schedule, err)
		}
	}
	return p, nil
}

// Start begins scheduled probing and runs one probe right away
func (p *Prober) Start() {
	if p.schedule == "" {
		return
	}
	go p.scheduledCheck()
	p.cron.Start()
}

// Stop stops scheduled probing and waits for a running probe to finish
func (p *Prober) Stop() {
	<-p.cron.Stop().Done()
}

// Status returns the latest connection status
func (p *Prober) Status() ConnectionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Check probes the service once and records the outcome
func (p *Prober) Check(ctx context.Context) (*TestResponse, error) {
	resp, err := p.client.Test(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status.Connected = false
		p.status.LastError = err.Error()
		return nil, err
	}
	p.status = ConnectionStatus{
		Connected: true,
		Message:   resp.Message,
		LastSeen:  time.Now(),
	}
	return resp, nil
}

func (p *Prober) scheduledCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if _, err := p.Check(ctx); err != nil {
		p.log.Warn("generation service probe failed", "endpoint", p.client.Endpoint(), "error", err)
		return
	}
	p.log.Debug("generation service reachable", "endpoint", p.client.Endpoint())
}
