package controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetgo/qr-studio/internal/form"
	"github.com/jetsetgo/qr-studio/internal/history"
	"github.com/jetsetgo/qr-studio/internal/logger"
	"github.com/jetsetgo/qr-studio/internal/metrics"
	"github.com/jetsetgo/qr-studio/internal/notify"
	"github.com/jetsetgo/qr-studio/internal/remote"
)

// Default notification texts used when the service sends none
const (
	DefaultSuccessMessage = "QR code generated successfully"
	DefaultFailureMessage = "Failed to generate QR code"
	ResultImageAlt        = "Generated QR code"
)

// ErrMissingElement is returned by New when a required element is not bound
var ErrMissingElement = errors.New("missing required element")

// State is the UI state of the generator page
type State int32

const (
	Idle State = iota
	Busy
	ShowingResult
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case ShowingResult:
		return "showing_result"
	}
	return "unknown"
}

// MarshalText lets State serialise as its name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Trigger is the control that starts a generation
type Trigger interface {
	SetBusy(busy bool)
}

// Toggle is an element that can be shown or hidden
type Toggle interface {
	SetHidden(hidden bool)
}

// ResultPanel displays a generated image
type ResultPanel interface {
	SetHidden(hidden bool)
	Show(imageSrc, imageAlt, downloadURL, sizeText string)
}

// Elements binds the controller to the page. Trigger and Result are
// required; Busy and Placeholder may be left nil.
type Elements struct {
	Trigger     Trigger
	Result      ResultPanel
	Busy        Toggle
	Placeholder Toggle
}

// Generator issues generation requests to the remote service
type Generator interface {
	Generate(ctx context.Context, req form.GenerationRequest) (remote.Result, error)
}

// Notifier surfaces messages to the user
type Notifier interface {
	Info(message string) notify.Notification
	Error(message string) notify.Notification
}

// Prober checks that the remote service is reachable
type Prober interface {
	Check(ctx context.Context) (*remote.TestResponse, error)
}

// flight is one generation request in progress
type flight struct {
	id       uint64
	recordID string
	started  time.Time
	cancel   context.CancelFunc
	retired  bool
}

// Controller mediates the single in-flight generation request and keeps the
// page consistent with it.
type Controller struct {
	mu       sync.Mutex
	state    atomic.Int32
	elements Elements
	gen      Generator
	notes    Notifier
	current  *flight
	seq      uint64
	closed   bool

	prober       Prober
	history      *history.Buffer
	metrics      *metrics.Metrics
	log          *logger.Logger
	abortOnReset bool
	listeners    []func(State)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used by the controller
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		c.log = log.WithComponent("controller")
	}
}

// WithHistory records every accepted submission in b
func WithHistory(b *history.Buffer) Option {
	return func(c *Controller) {
		c.history = b
	}
}

// WithMetrics reports outcomes to m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithProber enables the Probe operation
func WithProber(p Prober) Option {
	return func(c *Controller) {
		c.prober = p
	}
}

// WithAbortOnReset controls whether Reset cancels the in-flight request.
// When disabled the request runs to completion and its outcome still lands
// on the page, even after the user moved on.
func WithAbortOnReset(abort bool) Option {
	return func(c *Controller) {
		c.abortOnReset = abort
	}
}

// WithStateListener registers fn to be called on every state transition.
// fn runs with the controller locked and must not call back into it.
func WithStateListener(fn func(State)) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, fn)
	}
}

// New creates a controller bound to the given elements. It fails when a
// required element is missing.
func New(elements Elements, gen Generator, notes Notifier, opts ...Option) (*Controller, error) {
	if elements.Trigger == nil {
		return nil, fmt.Errorf("%w: trigger", ErrMissingElement)
	}
	if elements.Result == nil {
		return nil, fmt.Errorf("%w: result panel", ErrMissingElement)
	}
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if notes == nil {
		return nil, errors.New("notifier is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		elements:     elements,
		gen:          gen,
		notes:        notes,
		log:          logger.Discard(),
		abortOnReset: true,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State returns the current UI state
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Submit starts a generation for an already validated request. It is
// ignored unless the page is idle. The returned channel closes once the
// request has completed and the page has been updated.
func (c *Controller) Submit(req form.GenerationRequest) (<-chan struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.State() != Idle {
		c.log.Debug("submit ignored", "state", c.State().String())
		if c.metrics != nil {
			c.metrics.SubmissionIgnored()
		}
		return nil, false
	}

	c.seq++
	ctx, cancel := context.WithCancel(c.ctx)
	fl := &flight{
		id:      c.seq,
		started: time.Now(),
		cancel:  cancel,
	}
	if c.history != nil {
		fl.recordID = c.history.Start(req.URL)
	}
	c.current = fl

	c.setState(Busy)
	c.elements.Trigger.SetBusy(true)
	if c.elements.Busy != nil {
		c.elements.Busy.SetHidden(false)
	}
	if c.elements.Placeholder != nil {
		c.elements.Placeholder.SetHidden(true)
	}
	c.elements.Result.SetHidden(true)

	c.log.Info("generation started", "request", fl.id, "url", req.URL)

	done := make(chan struct{})
	c.wg.Add(1)
	go c.run(ctx, fl, req, done)
	return done, true
}

// run performs the network call and applies its outcome. Outcome handling
// always precedes the cleanup that re-enables the trigger.
func (c *Controller) run(ctx context.Context, fl *flight, req form.GenerationRequest, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)
	defer fl.cancel()

	result, err := c.gen.Generate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if fl.retired || c.closed {
		c.log.Info("generation outcome discarded", "request", fl.id)
		if c.history != nil {
			c.history.Abandon(fl.recordID)
		}
		c.observe(metrics.OutcomeAbandoned, fl)
		return
	}
	if c.current == fl {
		c.current = nil
	}
	defer c.cleanup()

	if err != nil {
		c.handleTransportError(fl, err)
		return
	}

	switch r := result.(type) {
	case remote.Success:
		c.handleSuccess(fl, r)
	case remote.Failure:
		c.handleFailure(fl, r)
	default:
		c.handleTransportError(fl, fmt.Errorf("unexpected result %T", result))
	}
}

func (c *Controller) handleSuccess(fl *flight, r remote.Success) {
	c.setState(ShowingResult)

	sizeText := ""
	var size float64
	if r.SizeKB != nil && *r.SizeKB != 0 {
		size = *r.SizeKB
		sizeText = "Size: " + strconv.FormatFloat(size, 'f', -1, 64) + " KB"
	}
	c.elements.Result.Show(r.DisplayURL, ResultImageAlt, r.DownloadURL, sizeText)

	msg := r.Message
	if msg == "" {
		msg = DefaultSuccessMessage
	}
	c.raise(notify.Info, msg)

	if c.history != nil {
		c.history.Complete(fl.recordID, r.QRID, r.DownloadURL, size)
	}
	c.observe(metrics.OutcomeSuccess, fl)
	c.log.Info("generation succeeded", "request", fl.id, "qr_id", r.QRID, "duration", time.Since(fl.started))
}

func (c *Controller) handleFailure(fl *flight, r remote.Failure) {
	c.setState(Idle)
	if c.elements.Placeholder != nil {
		c.elements.Placeholder.SetHidden(false)
	}

	msg := r.ErrorMessage
	if msg == "" {
		msg = DefaultFailureMessage
	}
	c.raise(notify.Error, msg)

	if c.history != nil {
		c.history.Fail(fl.recordID, msg)
	}
	c.observe(metrics.OutcomeFailure, fl)
	c.log.Warn("generation rejected by service", "request", fl.id, "error", msg)
}

func (c *Controller) handleTransportError(fl *flight, err error) {
	c.setState(Idle)
	if c.elements.Placeholder != nil {
		c.elements.Placeholder.SetHidden(false)
	}

	c.raise(notify.Error, fmt.Sprintf("Request failed: %s - please try again.", err.Error()))

	if c.history != nil {
		c.history.Fail(fl.recordID, err.Error())
	}
	c.observe(metrics.OutcomeTransportError, fl)
	c.log.Error("generation request failed", "request", fl.id, "error", err)
}

// cleanup restores the trigger and hides the busy indicator
func (c *Controller) cleanup() {
	c.elements.Trigger.SetBusy(false)
	if c.elements.Busy != nil {
		c.elements.Busy.SetHidden(true)
	}
}

// Reset returns the page to Idle with the placeholder showing. When abort on
// reset is enabled the in-flight request is cancelled and its outcome will
// be discarded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fl := c.current; fl != nil {
		c.current = nil
		if c.abortOnReset {
			fl.retired = true
			fl.cancel()
			c.cleanup()
			c.log.Info("in-flight generation aborted by reset", "request", fl.id)
		}
	}

	c.setState(Idle)
	c.elements.Result.SetHidden(true)
	if c.elements.Placeholder != nil {
		c.elements.Placeholder.SetHidden(false)
	}
}

// Probe checks that the generation service is reachable and tells the user
func (c *Controller) Probe(ctx context.Context) error {
	if c.prober == nil {
		return errors.New("no prober configured")
	}

	resp, err := c.prober.Check(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.raise(notify.Error, "Backend test failed: "+err.Error())
		return err
	}
	c.raise(notify.Info, "Backend is working: "+resp.Message)
	return nil
}

// Close cancels any in-flight request and waits for it to unwind
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) setState(s State) {
	prev := State(c.state.Swap(int32(s)))
	if prev == s {
		return
	}
	c.log.Debug("state changed", "from", prev.String(), "to", s.String())
	for _, fn := range c.listeners {
		fn(s)
	}
}

func (c *Controller) raise(kind notify.Kind, msg string) {
	if kind == notify.Error {
		c.notes.Error(msg)
	} else {
		c.notes.Info(msg)
	}
	if c.metrics != nil {
		c.metrics.NotificationRaised(string(kind))
	}
}

func (c *Controller) observe(outcome string, fl *flight) {
	if c.metrics != nil {
		c.metrics.ObserveGeneration(outcome, time.Since(fl.started))
	}
}
