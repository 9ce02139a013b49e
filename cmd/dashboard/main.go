package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"PeakWatch/internal/collector"
	"PeakWatch/internal/config"
	"PeakWatch/internal/dashboard"
	"PeakWatch/internal/scheduler"
	"PeakWatch/internal/sentiment"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PeakWatch starting...")

	// Optional .env for local development; real deployments set env directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init market data client
	fetcher := collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	client := collector.NewClient(fetcher, time.Duration(cfg.Refresh.CacheTTLSeconds)*time.Second)

	// Init sentiment chain
	chain := sentiment.NewChain(cfg.Sentiment.PrimaryURL, cfg.Sentiment.SecondaryURL,
		cfg.PlaceholderScore(), cfg.Proxy)

	// Init dashboard server (the renderer)
	server := dashboard.NewServer(cfg.Server.Listen, dashboard.DefaultStyle(cfg.Refresh.IntervalSeconds))

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, client, chain, server, cfg)
	if err := sched.Register(time.Duration(cfg.Refresh.IntervalSeconds) * time.Second); err != nil {
		log.Fatalf("[FATAL] register refresh tick: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Populate the dashboard before the first interval elapses.
	go sched.RunNow()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}()

	log.Println("[INFO] PeakWatch is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] dashboard shutdown: %v", err)
	}
	log.Println("[INFO] PeakWatch stopped")
}
