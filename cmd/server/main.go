package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"sharkwatch/internal/analysis"
	"sharkwatch/internal/api"
	"sharkwatch/internal/cache"
	"sharkwatch/internal/config"
	"sharkwatch/internal/fetch"
	"sharkwatch/internal/httpx"
	"sharkwatch/internal/logger"
	"sharkwatch/internal/news"
	"sharkwatch/internal/notifier"
	"sharkwatch/internal/provider"
	"sharkwatch/internal/scheduler"
	"sharkwatch/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	if err := logger.Init(logger.Config{
		Level:          cfg.Log.Level,
		Format:         cfg.Log.Format,
		FileEnabled:    cfg.Log.FileEnabled,
		FilePath:       cfg.Log.FilePath,
		RotationSizeMB: cfg.Log.RotationSizeMB,
		RetentionDays:  cfg.Log.RetentionDays,
	}); err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}

	opts := provider.Options{
		Timeout:    time.Duration(cfg.Providers.TimeoutSec) * time.Second,
		MaxRetries: cfg.Providers.MaxRetries,
		BackoffMin: time.Duration(cfg.Providers.BackoffMinMs) * time.Millisecond,
		BackoffMax: time.Duration(cfg.Providers.BackoffMaxMs) * time.Millisecond,
		Proxy:      cfg.Providers.Proxy,
	}
	client := httpx.New(opts.Timeout, opts.Proxy)
	providers := []provider.Provider{
		provider.NewTCBS(client),
		provider.NewDNSE(client),
		provider.NewVCI(client),
	}
	orch := fetch.NewOrchestrator(providers,
		cfg.Providers.PricePriority, cfg.Providers.ForeignPriority,
		provider.NewRetrier(opts))

	stocks := service.New(orch, cache.NewMemory(time.Duration(cfg.Cache.TTLSec)*time.Second), service.Config{
		StockDays:   cfg.History.StockDays,
		ForeignDays: cfg.History.ForeignDays,
		IndexDays:   cfg.History.IndexDays,
		Thresholds: analysis.Thresholds{
			HighVolRatio: cfg.Signal.HighVolRatio,
			LowVolRatio:  cfg.Signal.LowVolRatio,
			PriceMovePct: cfg.Signal.PriceMovePct,
			ThinMovePct:  cfg.Signal.ThinMovePct,
		},
	})
	newsClient := news.NewClient(time.Duration(cfg.News.TimeoutSec)*time.Second, cfg.News.MaxItems)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional end-of-day watchlist scan with Telegram alerts.
	if len(cfg.Watchlist.Symbols) > 0 && cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Providers.Proxy)
		scanner := scheduler.NewScanner(ctx, stocks, tn, cfg.Watchlist.Symbols)
		if err := scanner.Register(cfg.Watchlist.Cron); err != nil {
			log.Fatal().Err(err).Msg("register watchlist scan")
		}
		scanner.Start()
		defer scanner.Stop()
		if os.Getenv("SCAN_ON_START") == "true" {
			go scanner.RunNow()
		}
	}

	srv := api.NewServer(":"+cfg.Server.Port, stocks, newsClient,
		time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("stopped")
}
