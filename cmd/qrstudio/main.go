package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jetsetgo/qr-studio/internal/api"
	"github.com/jetsetgo/qr-studio/internal/config"
	"github.com/jetsetgo/qr-studio/internal/controller"
	"github.com/jetsetgo/qr-studio/internal/form"
	"github.com/jetsetgo/qr-studio/internal/history"
	"github.com/jetsetgo/qr-studio/internal/logger"
	"github.com/jetsetgo/qr-studio/internal/metrics"
	"github.com/jetsetgo/qr-studio/internal/notify"
	"github.com/jetsetgo/qr-studio/internal/remote"
	"github.com/jetsetgo/qr-studio/internal/view"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: search common locations)")
	flag.Parse()

	fmt.Println("QR Studio")
	fmt.Println("=========")

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
		fmt.Fprintln(os.Stderr, "Using default configuration")
		cfg = config.Default()
		cfg.ConfigPath = "config.yaml"
	}

	// Capture recent log records for the web UI
	logs := logger.NewBuffer(500)
	logCfg := logger.FromConfig(cfg.Log.Level, cfg.Log.Format)
	logCfg.Capture = logs
	log := logger.New(logCfg)

	log.Info("starting",
		"port", cfg.Server.Port,
		"endpoint", cfg.Remote.Endpoint,
		"config", cfg.ConfigPath)

	client, err := remote.NewClient(&cfg.Remote, log)
	if err != nil {
		log.Error("invalid remote configuration", "error", err)
		os.Exit(1)
	}
	prober, err := remote.NewProber(client, cfg.Remote.ProbeSchedule, cfg.Remote.Timeout, log)
	if err != nil {
		log.Error("invalid probe schedule", "error", err)
		os.Exit(1)
	}

	page := view.NewPage()
	notes := notify.NewCenter(cfg.Notifications.InfoTTL, cfg.Notifications.ErrorTTL)
	hist := history.NewBuffer(cfg.Server.HistorySize)
	m := metrics.New()

	ctrl, err := controller.New(controller.Elements{
		Trigger:     page.Button(),
		Result:      page.Result(),
		Busy:        page.Loading(),
		Placeholder: page.Placeholder(),
	}, client, notes,
		controller.WithLogger(log),
		controller.WithHistory(hist),
		controller.WithMetrics(m),
		controller.WithProber(prober),
		controller.WithAbortOnReset(cfg.Controller.AbortOnReset),
	)
	if err != nil {
		log.Error("failed to bind controller", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg, api.Deps{
		Controller:    ctrl,
		Page:          page,
		Notifications: notes,
		History:       hist,
		Validator:     form.NewValidator(cfg.Form),
		Prober:        prober,
		Metrics:       m,
		Logger:        log,
		Logs:          logs,
	})

	prober.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\nOpen http://%s:%d in your browser\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
			exitCode = 1
		}
	case s := <-sig:
		log.Info("shutting down", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	prober.Stop()
	ctrl.Close()
	notes.Close()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
