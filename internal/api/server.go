package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jetsetgo/qr-studio/internal/config"
	"github.com/jetsetgo/qr-studio/internal/controller"
	"github.com/jetsetgo/qr-studio/internal/form"
	"github.com/jetsetgo/qr-studio/internal/history"
	"github.com/jetsetgo/qr-studio/internal/logger"
	"github.com/jetsetgo/qr-studio/internal/metrics"
	"github.com/jetsetgo/qr-studio/internal/notify"
	"github.com/jetsetgo/qr-studio/internal/remote"
	"github.com/jetsetgo/qr-studio/internal/view"
	"github.com/rs/cors"
)

// Deps are the components the server exposes over HTTP
type Deps struct {
	Controller    *controller.Controller
	Page          *view.Page
	Notifications *notify.Center
	History       *history.Buffer
	Validator     *form.Validator
	Prober        *remote.Prober // optional
	Metrics       *metrics.Metrics
	Logger        *logger.Logger
	Logs          *logger.Buffer // optional
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	deps   Deps
	hub    *Hub
	log    *logger.Logger
	router chi.Router

	httpServer *http.Server
}

// StateResponse is the page as seen by the browser
type StateResponse struct {
	UIState controller.State `json:"ui_state"`
	Page    view.Snapshot    `json:"page"`
}

type pushMessage struct {
	Type  string         `json:"type"`
	State *StateResponse `json:"state,omitempty"`
}

type notificationsMessage struct {
	Type          string                `json:"type"`
	Notifications []notify.Notification `json:"notifications"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// NewServer creates a new HTTP server and subscribes the push hub to page
// and notification changes.
func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		config: cfg,
		deps:   deps,
		log:    deps.Logger.WithComponent("api"),
	}

	var corsHandler *cors.Cors
	var checkOrigin func(*http.Request) bool
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		corsHandler = cors.New(cors.Options{
			AllowedOrigins: cfg.Server.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
		})
		checkOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == "http://"+r.Host || corsHandler.OriginAllowed(r)
		}
	}
	s.hub = NewHub(cfg.Server.WSPingInterval, checkOrigin, deps.Logger)

	deps.Page.OnChange(func(snap view.Snapshot) {
		s.hub.Broadcast(pushMessage{
			Type:  "state",
			State: &StateResponse{UIState: deps.Controller.State(), Page: snap},
		})
	})
	deps.Notifications.Watch(func(list []notify.Notification) {
		s.hub.Broadcast(notificationsMessage{Type: "notifications", Notifications: list})
	})

	s.setupRoutes(corsHandler)
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes(corsHandler *cors.Cors) {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if corsHandler != nil {
		r.Use(corsHandler.Handler)
	}

	// Health check
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/generate", s.handleGenerate)
		r.Post("/reset", s.handleReset)
		r.Post("/validate", s.handleValidate)
		r.Get("/notifications", s.handleNotifications)
		r.Delete("/notifications/{id}", s.handleDismiss)
		r.Post("/probe", s.handleProbe)
		r.Get("/status", s.handleStatus)
		r.Get("/history", s.handleHistory)
		r.Get("/logs", s.handleLogs)
		r.Delete("/logs", s.handleClearLogs)
	})

	r.Get("/ws", s.handleWS)
	r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())

	// Web UI
	r.Get("/", s.handleUI)

	s.router = r
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects push clients and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) state() StateResponse {
	return StateResponse{
		UIState: s.deps.Controller.State(),
		Page:    s.deps.Page.Snapshot(),
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

// handleGenerate validates the submitted form and hands it to the
// controller. With ?wait=true the response is held until the request
// completes.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	req, err := s.deps.Validator.Decode(r.PostForm)
	if err != nil {
		var fe form.FieldErrors
		if errors.As(err, &fe) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid form", Details: fe})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	done, ok := s.deps.Controller.Submit(req)
	if !ok {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: fmt.Sprintf("cannot generate while %s", s.deps.Controller.State()),
		})
		return
	}

	if r.URL.Query().Get("wait") == "true" {
		select {
		case <-done:
			writeJSON(w, http.StatusOK, s.state())
		case <-r.Context().Done():
		}
		return
	}
	writeJSON(w, http.StatusAccepted, s.state())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.deps.Controller.Reset()
	writeJSON(w, http.StatusOK, s.state())
}

// handleValidate runs the field-level check on the url field
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	msg := form.ValidateContent(r.PostForm.Get(form.FieldURL))
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   msg == "",
		"message": msg,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": s.deps.Notifications.List(),
	})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.deps.Notifications.Dismiss(id) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "notification not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProbe tests the generation service and raises a notification
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Controller.Probe(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

// handleStatus returns server status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":    "running",
		"endpoint":  s.config.Remote.Endpoint,
		"ui_state":  s.deps.Controller.State(),
		"ws_clients": s.hub.Clients(),
	}
	if s.deps.Prober != nil {
		resp["remote"] = s.deps.Prober.Status()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": s.deps.History.Entries(),
	})
}

// handleLogs returns captured log entries, filtered by ?level=warn,error
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := []logger.Entry{}
	if s.deps.Logs != nil {
		var levels []string
		if q := r.URL.Query().Get("level"); q != "" {
			levels = strings.Split(q, ",")
		}
		entries = s.deps.Logs.Entries(levels)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
	})
}

func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	if s.deps.Logs != nil {
		s.deps.Logs.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	state := s.state()
	s.hub.Serve(w, r,
		pushMessage{Type: "state", State: &state},
		notificationsMessage{Type: "notifications", Notifications: s.deps.Notifications.List()},
	)
}

// handleUI serves the web UI
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(webUI))
}
