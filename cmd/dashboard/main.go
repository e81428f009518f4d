package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"CryptoBuckets/internal/collector"
	"CryptoBuckets/internal/config"
	"CryptoBuckets/internal/dispatcher"
	"CryptoBuckets/internal/engine"
	"CryptoBuckets/internal/journal"
	"CryptoBuckets/internal/notifier"
	"CryptoBuckets/internal/recorder"
	"CryptoBuckets/internal/scheduler"
	"CryptoBuckets/internal/state"
	"CryptoBuckets/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CryptoBuckets starting...")

	// Optional .env for local development
	_ = godotenv.Load()

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

	// Init fetcher
	var fetcher collector.Fetcher
	if os.Getenv("USE_MOCK_DATA") == "true" {
		fetcher = &collector.MockFetcher{
			BTCDominance:    collector.FallbackBTCDominance,
			AltMarketCap:    collector.FallbackAltMarketCap,
			AltSeasonIndex:  collector.FallbackAltSeasonIndex,
			BTCFunding:      collector.FallbackBTCFunding,
			OpenInterest:    collector.FallbackOpenInterest,
			HypeFunding:     collector.FallbackHypeFunding,
			StablecoinDelta: collector.FallbackStablecoinDelta,
		}
	} else {
		fetcher = collector.NewHTTPFetcher(collector.Endpoints{
			CoinGecko:      cfg.DataSource.CoinGeckoURL,
			AltSeason:      cfg.DataSource.AltSeasonURL,
			Binance:        cfg.DataSource.BinanceURL,
			Hyperliquid:    cfg.DataSource.HyperliquidURL,
			DefiLlama:      cfg.DataSource.DefiLlamaURL,
			TradingEconKey: cfg.DataSource.TradingEconKey,
			FinnhubKey:     cfg.DataSource.FinnhubKey,
		}, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.DataSource.FundingSymbol)
	eng := engine.New(time.Duration(cfg.Engine.CooldownHours) * time.Hour)

	// Trigger state survives restarts
	st, err := state.NewStore(cfg.State.FilePath)
	if err != nil {
		log.Fatalf("[FATAL] init trigger state: %v", err)
	}

	j := journal.New(cfg.Journal.CSVPath)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	disp := dispatcher.New(tn, j)

	// Init recorder
	var rec recorder.Recorder
	if cfg.SQLiteEnabled() {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, eng, disp, st, rec, j)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Web dashboard
	srv := web.NewServer(cfg.Web.ListenAddr, sched, j, disp)
	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Printf("[ERROR] web server: %v", err)
		}
	}()

	// Telegram command polling
	go tn.StartPolling(ctx, sched.HandleCommand)

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go sched.RunNow()
	}

	log.Println("[INFO] CryptoBuckets is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CryptoBuckets stopped")
}
