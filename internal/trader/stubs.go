package trader

import (
	"time"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/weights"

	"go.uber.org/zap"
)

// The dca, grid and trend strategies have no decision rule yet. They stay
// in the rotation as explicit no-action stubs so the scheduler, weight
// vector and chat surface treat the full strategy set uniformly, but they
// never place orders.

// DCAStrategy will invest a fixed amount on a schedule once an order
// placement rule exists.
type DCAStrategy struct {
	interval time.Duration
}

func NewDCAStrategy(cfg *config.Config) *DCAStrategy {
	return &DCAStrategy{interval: time.Duration(cfg.Trading.DCA.IntervalMinutes) * time.Minute}
}

func (s *DCAStrategy) Name() string            { return weights.StrategyDCA }
func (s *DCAStrategy) Interval() time.Duration { return s.interval }

func (s *DCAStrategy) Execute(ctx StrategyContext) error {
	ctx.Logger.Info("DCA cycle: no order placement rule configured, taking no action",
		zap.String("symbol", ctx.Cfg.Trading.Symbol),
		zap.Float64("budget", orderQuantity(ctx, s.Name())),
	)
	return nil
}

// GridStrategy will maintain a ladder of orders between its bounds once a
// level-placement rule exists.
type GridStrategy struct {
	lower    float64
	upper    float64
	levels   int
	interval time.Duration
}

func NewGridStrategy(cfg *config.Config) *GridStrategy {
	g := cfg.Trading.Grid
	return &GridStrategy{
		lower:    g.Lower,
		upper:    g.Upper,
		levels:   g.Levels,
		interval: time.Duration(g.IntervalMinutes) * time.Minute,
	}
}

func (s *GridStrategy) Name() string            { return weights.StrategyGrid }
func (s *GridStrategy) Interval() time.Duration { return s.interval }

func (s *GridStrategy) Execute(ctx StrategyContext) error {
	ctx.Logger.Info("Grid cycle: no level-placement rule configured, taking no action",
		zap.String("symbol", ctx.Cfg.Trading.Symbol),
		zap.Float64("lower", s.lower),
		zap.Float64("upper", s.upper),
		zap.Int("levels", s.levels),
	)
	return nil
}

// TrendStrategy will follow a momentum signal once a source is wired up.
type TrendStrategy struct {
	interval time.Duration
}

func NewTrendStrategy(cfg *config.Config) *TrendStrategy {
	return &TrendStrategy{interval: time.Duration(cfg.Trading.Trend.IntervalMinutes) * time.Minute}
}

func (s *TrendStrategy) Name() string            { return weights.StrategyTrend }
func (s *TrendStrategy) Interval() time.Duration { return s.interval }

func (s *TrendStrategy) Execute(ctx StrategyContext) error {
	ctx.Logger.Info("Trend cycle: no trend signal source configured, taking no action",
		zap.String("symbol", ctx.Cfg.Trading.Symbol),
	)
	return nil
}
