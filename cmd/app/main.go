package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/Gem2005/crypto-weather-nexus/internal/app"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra"
	"github.com/Gem2005/crypto-weather-nexus/internal/infra/stream"
	"github.com/Gem2005/crypto-weather-nexus/internal/scheduler"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(ctx); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Shutdown()

	cfg := bootstrap.Config
	infra.PrintBanner(cfg)

	// 4. Prometheus metrics endpoint (localhost only)
	infra.StartMetricsServer(cfg.Debug.MetricsAddr)

	// 5. Refresh Scheduler (weather / crypto / news snapshots)
	refresher := scheduler.New(
		bootstrap.Store,
		bootstrap.Weather,
		bootstrap.Crypto,
		bootstrap.News,
		bootstrap.CityIDs(),
		time.Duration(cfg.Refresh.IntervalSec)*time.Second,
	)
	refresher.Start(ctx)
	defer refresher.Stop()
	slog.InfoContext(ctx, "✅ Refresh scheduler started",
		slog.Int("interval_sec", cfg.Refresh.IntervalSec))

	// 6. Live price stream (Gateway)
	feedURL := stream.FeedURL(cfg.Feed.URL, cfg.Feed.Assets)
	client := stream.NewClient(feedURL, bootstrap.Store, cfg.Alerts.Simulate)
	client.Connect()
	defer client.Close()
	slog.InfoContext(ctx, "✅ Price stream client started", slog.String("feed", feedURL))

	slog.InfoContext(ctx, "✨ Crypto Weather Nexus fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
