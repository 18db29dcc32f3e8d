package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WalletSentinel/internal/cache"
	"WalletSentinel/internal/calendar"
	"WalletSentinel/internal/config"
	"WalletSentinel/internal/events"
	"WalletSentinel/internal/notify"
	"WalletSentinel/internal/observability"
	"WalletSentinel/internal/recorder"
	"WalletSentinel/internal/scheduler"
	"WalletSentinel/internal/server"
	"WalletSentinel/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] WalletSentinel starting...")

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

	var anchor time.Time
	if cfg.Schedule.AnchorDate != "" {
		anchor, err = calendar.ParseDate(cfg.Schedule.AnchorDate)
		if err != nil {
			log.Fatalf("[FATAL] parse schedule.anchor_date: %v", err)
		}
	}

	// Init ledger store
	st, err := store.NewSQLiteStore(cfg.Database.LedgerPath)
	if err != nil {
		log.Fatalf("[FATAL] init ledger store: %v", err)
	}
	defer st.Close()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.HistoryPath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.HistoryPath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init result cache
	var resultCache cache.Cache
	if cfg.Redis.Addr != "" {
		resultCache = cache.NewRedisCache(cfg.Redis.Addr)
		log.Printf("[INFO] redis cache: %s", cfg.Redis.Addr)
	} else {
		resultCache = cache.NewMockCache()
		log.Println("[INFO] redis not configured, using in-memory cache")
	}

	// Init event publisher
	var pub events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Printf("[INFO] kafka publisher: topic %s", cfg.Kafka.Topic)
	} else {
		pub = events.NewNoopPublisher()
	}
	defer pub.Close()

	// Init webhook notifier
	var wn *notify.WebhookNotifier
	if cfg.Webhook.URL != "" {
		wn = notify.NewWebhookNotifier(cfg.Webhook.URL, cfg.Proxy)
		log.Println("[INFO] webhook notifier configured")
	}

	metrics := observability.NewMetrics()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	holidays := calendar.NewHolidaySet(cfg.Holidays)
	sched := scheduler.NewScheduler(ctx, st, rec, pub, wn, metrics, holidays, anchor, cfg.Schedule.RetentionDays)
	if err := sched.RegisterAll(cfg.Schedule.AccrualCron, cfg.Schedule.RetentionCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing accrual task now")
		go sched.RunAccrualNow()
	}

	// Init HTTP server
	limiter := server.NewRateLimiter(cfg.RateLimit.Capacity, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
	defer limiter.Stop()

	srv := server.New(st, rec, resultCache, metrics, time.Duration(cfg.Redis.TTL)*time.Second)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalf("[FATAL] http server: %v", err)
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http server shutdown: %v", err)
	}

	log.Println("[INFO] WalletSentinel stopped")
}
