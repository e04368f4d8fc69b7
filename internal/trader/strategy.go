package trader

import (
	"time"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StrategyContext provides a strategy with access to the core components.
type StrategyContext struct {
	Logger   *zap.Logger
	Cfg      *config.Config
	Client   exchange.Client
	DB       *gorm.DB
	Settings *Settings
	Notifier notify.Notifier
}

// Strategy defines the interface for a trading strategy. Each strategy runs
// on its own ticker loop; an error from Execute is logged by the engine and
// never stops future cycles.
type Strategy interface {
	// Name returns the unique name of the strategy, matching its key in
	// the weight vector.
	Name() string

	// Interval is how often the engine invokes Execute.
	Interval() time.Duration

	// Execute runs one cycle of the strategy's logic.
	Execute(ctx StrategyContext) error
}

// orderQuantity is the base-asset size for one order: the configured budget
// scaled by the strategy's current weight and the global risk multiplier.
func orderQuantity(ctx StrategyContext, strategyName string) float64 {
	return ctx.Cfg.Trading.OrderAmount * ctx.Settings.Weight(strategyName) * ctx.Settings.Risk()
}
