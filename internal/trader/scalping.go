package trader

import (
	"errors"
	"fmt"
	"time"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/signal"
	"binance-multi-strategy-bot/internal/weights"

	"go.uber.org/zap"
)

// ScalpingStrategy trades a fast/slow moving-average crossover on hourly
// closes. It is the one strategy in the set with a complete decision rule.
type ScalpingStrategy struct {
	fastPeriod int
	slowPeriod int
	lookback   string
	interval   time.Duration
}

// NewScalpingStrategy builds the strategy from its config section.
func NewScalpingStrategy(cfg *config.Config) *ScalpingStrategy {
	sc := cfg.Trading.Scalping
	return &ScalpingStrategy{
		fastPeriod: sc.FastPeriod,
		slowPeriod: sc.SlowPeriod,
		lookback:   sc.Lookback,
		interval:   time.Duration(sc.IntervalSeconds) * time.Second,
	}
}

func (s *ScalpingStrategy) Name() string {
	return weights.StrategyScalping
}

func (s *ScalpingStrategy) Interval() time.Duration {
	return s.interval
}

// Execute fetches recent candles, evaluates the crossover, and places a
// weight-scaled market order when the signal is directional. Too little
// data is treated as "no action this cycle", not as a failure.
func (s *ScalpingStrategy) Execute(ctx StrategyContext) error {
	candles, err := ctx.Client.GetHistoricalCandles(ctx.Cfg.Trading.Symbol, "1h", s.lookback)
	if err != nil {
		return fmt.Errorf("scalping: could not get candles: %w", err)
	}

	decision, err := signal.Crossover(candles, s.fastPeriod, s.slowPeriod)
	if err != nil {
		if errors.Is(err, exchange.ErrInsufficientData) {
			ctx.Logger.Warn("Not enough data for scalping", zap.Int("candles", len(candles)))
			return nil
		}
		return fmt.Errorf("scalping: %w", err)
	}

	ctx.Logger.Debug("Scalping signal evaluated",
		zap.String("decision", decision.String()),
		zap.Int("fast_period", s.fastPeriod),
		zap.Int("slow_period", s.slowPeriod),
	)

	return placeOrder(ctx, s.Name(), decision, orderQuantity(ctx, s.Name()))
}
