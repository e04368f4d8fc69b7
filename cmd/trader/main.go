package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"binance-multi-strategy-bot/internal/binance"
	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/database"
	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/exchange/paper"
	"binance-multi-strategy-bot/internal/logger"
	"binance-multi-strategy-bot/internal/notify"
	"binance-multi-strategy-bot/internal/telegram"
	"binance-multi-strategy-bot/internal/trader"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize the trade journal database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	// Select the exchange client: paper account for dry runs, live Binance
	// otherwise. Strategies see the same capability either way.
	var client exchange.Client
	if cfg.Trading.DryRun {
		log.Warn("Dry run enabled, trading against the simulated paper account")
		client = paper.NewClient(log, cfg.Trading.StartBalance, cfg.Trading.FeeRate)
	} else {
		restClient := binance.NewRestClient(&cfg.Binance, log)
		if _, err := restClient.GetServerTime(); err != nil {
			log.Fatal("Failed to connect to Binance API", zap.Error(err))
		}
		log.Info("Successfully connected to Binance API.")
		client = restClient
	}
	defer client.Close()

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Live weight/risk settings, mutated only through the chat surface and
	// the weight refresh loop.
	settings := trader.NewSettings(cfg.Trading.Weights, cfg.Trading.Risk)

	// Wire the Telegram bot when a token is configured; otherwise progress
	// messages go to the log.
	var notifier notify.Notifier = notify.Log{Logger: log}
	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		bot, err = telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, log, settings, client)
		if err != nil {
			log.Fatal("Failed to start Telegram bot", zap.Error(err))
		}
		notifier = bot
	}

	// Initialize and run the trading engine
	tradeEngine := trader.NewEngine(log, &cfg, client, db, settings, notifier)
	if bot != nil {
		bot.SetRecommendFunc(tradeEngine.RefreshWeights)
		bot.Start(ctx)
	}
	tradeEngine.Run(ctx)

	log.Info("Bot has been shut down.")
}
