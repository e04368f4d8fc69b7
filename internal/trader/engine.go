package trader

import (
	"context"
	"sync"
	"time"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/notify"
	"binance-multi-strategy-bot/internal/weights"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine schedules the strategy set. Each strategy runs on its own ticker
// goroutine against the shared exchange client; the client serializes
// account mutation internally, so concurrent loops never interleave a
// half-applied order. A parallel refresh loop periodically recomputes the
// weight vector from recent candles and applies it through the settings
// store.
type Engine struct {
	logger      *zap.Logger
	cfg         *config.Config
	client      exchange.Client
	db          *gorm.DB
	settings    *Settings
	notifier    notify.Notifier
	recommender *weights.Recommender
	strategies  []Strategy
}

// NewEngine creates a trading engine with the standard strategy set.
func NewEngine(logger *zap.Logger, cfg *config.Config, client exchange.Client, db *gorm.DB, settings *Settings, notifier notify.Notifier) *Engine {
	return &Engine{
		logger:      logger,
		cfg:         cfg,
		client:      client,
		db:          db,
		settings:    settings,
		notifier:    notifier,
		recommender: weights.NewRecommender(logger, notifier),
		strategies: []Strategy{
			NewDCAStrategy(cfg),
			NewGridStrategy(cfg),
			NewScalpingStrategy(cfg),
			NewTrendStrategy(cfg),
			NewSentimentStrategy(cfg, nil),
		},
	}
}

// Settings exposes the live weight/risk store, for the chat surface.
func (e *Engine) Settings() *Settings {
	return e.settings
}

// Client exposes the exchange client, for the chat surface.
func (e *Engine) Client() exchange.Client {
	return e.client
}

// Run starts every strategy loop plus the weight refresh loop and blocks
// until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Info("Starting trading engine",
		zap.String("symbol", e.cfg.Trading.Symbol),
		zap.Int("strategies", len(e.strategies)),
		zap.Bool("dry_run", e.cfg.Trading.DryRun),
	)

	var wg sync.WaitGroup
	for _, s := range e.strategies {
		wg.Add(1)
		go func(s Strategy) {
			defer wg.Done()
			e.runStrategy(ctx, s)
		}(s)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		e.runWeightRefresh(ctx)
	}()

	wg.Wait()
	e.logger.Info("Trading engine stopped")
}

// runStrategy executes one strategy on its own ticker. The first cycle runs
// immediately; errors are logged and never end the loop.
func (e *Engine) runStrategy(ctx context.Context, s Strategy) {
	l := e.logger.With(zap.String("strategy", s.Name()))
	l.Info("Starting strategy loop", zap.Duration("interval", s.Interval()))

	strategyCtx := StrategyContext{
		Logger:   e.logger,
		Cfg:      e.cfg,
		Client:   e.client,
		DB:       e.db,
		Settings: e.settings,
		Notifier: e.notifier,
	}

	ticker := time.NewTicker(s.Interval())
	defer ticker.Stop()

	for {
		if err := s.Execute(strategyCtx); err != nil {
			l.Error("Strategy cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			l.Info("Stopping strategy loop")
			return
		case <-ticker.C:
		}
	}
}

// runWeightRefresh periodically recomputes strategy weights from price
// history. A failed cycle keeps the previous vector.
func (e *Engine) runWeightRefresh(ctx context.Context) {
	interval := time.Duration(e.cfg.Trading.WeightRefreshMinutes) * time.Minute
	e.logger.Info("Starting weight refresh loop", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping weight refresh loop")
			return
		case <-ticker.C:
			if err := e.RefreshWeights(); err != nil {
				e.logger.Error("Weight refresh failed, keeping previous weights", zap.Error(err))
			}
		}
	}
}

// RefreshWeights runs one recommend-and-apply pass over recent candles.
// The chat surface calls it directly for /recommend.
func (e *Engine) RefreshWeights() error {
	candles, err := e.client.GetHistoricalCandles(
		e.cfg.Trading.Symbol, "1h", e.cfg.Trading.WeightLookback)
	if err != nil {
		return err
	}

	vector, err := e.recommender.Recommend(candles)
	if err != nil {
		return err
	}

	if err := e.settings.SetWeights(vector); err != nil {
		return err
	}

	e.logger.Info("Applied recommended weights", zap.Any("weights", vector))
	return nil
}
