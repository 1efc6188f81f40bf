package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/clanmove/internal/adapters/discord"
	"github.com/okian/clanmove/internal/adapters/roster"
	service "github.com/okian/clanmove/internal/app"
	"github.com/okian/clanmove/internal/config"
	"github.com/okian/clanmove/pkg/logger"
	"github.com/okian/clanmove/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// The runtime collectors double up with our own gauges; drop them.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := roster.NewSheetsStore(cfg.SpreadsheetID,
		roster.WithCredentialsFile(cfg.CredentialsFile),
		roster.WithRosterRange(cfg.RosterRange),
		roster.WithStateCell(cfg.StateCell),
	)
	if err != nil {
		log.Error(ctx, "failed to open roster store", logger.Error(err))
		return
	}

	svc := service.New(
		service.WithStore(store),
		service.WithCapacity(cfg.ClanCapacity),
		service.WithRosterRange(cfg.RosterRange),
		service.WithSourceRange(cfg.SourceRange),
		service.WithDefaultMetric(cfg.DefaultMetric),
		service.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}

	dcfg := discord.NewConfig()
	dcfg.Token = cfg.DiscordToken
	dcfg.GuildID = cfg.GuildID
	dcfg.ChannelID = cfg.ChannelID
	dcfg.QueueSize = cfg.EventQueueSize

	sink, err := discord.New(dcfg, svc)
	if err != nil {
		log.Error(ctx, "failed to create discord adapter", logger.Error(err))
		return
	}
	if err := sink.Open(ctx); err != nil {
		log.Error(ctx, "failed to open discord adapter", logger.Error(err))
		return
	}

	// Operational endpoints only; all user traffic goes through Discord.
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting metrics server", logger.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("metrics server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sink.Close(shutdownCtx); err != nil {
		log.Error(ctx, "discord shutdown failed", logger.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "stopped")
}
