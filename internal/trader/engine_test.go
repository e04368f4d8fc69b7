package trader

import (
	"context"
	"testing"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/exchange/paper"
	"binance-multi-strategy-bot/internal/notify"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func engineConfig() *config.Config {
	cfg := testConfig()
	cfg.Trading.Risk = 1.0
	cfg.Trading.WeightRefreshMinutes = 60
	cfg.Trading.WeightLookback = "2 days ago UTC"
	cfg.Trading.DCA.IntervalMinutes = 60
	cfg.Trading.Grid.IntervalMinutes = 5
	cfg.Trading.Trend.IntervalMinutes = 5
	return cfg
}

func TestEngine_RunExecutesEachStrategyOnceAndStops(t *testing.T) {
	cfg := engineConfig()
	client := paper.NewClient(zap.NewNop(), 1000.0, 0.001)
	settings := NewSettings(cfg.Trading.Weights, cfg.Trading.Risk)
	engine := NewEngine(zap.NewNop(), cfg, client, nil, settings, notify.Nop{})

	// A cancelled context still lets every loop run its immediate first
	// cycle, then stop before the first tick.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine.Run(ctx) // must return, not hang
}

func TestEngine_RefreshWeightsAppliesRecommendation(t *testing.T) {
	cfg := engineConfig()
	client := paper.NewClient(zap.NewNop(), 1000.0, 0.001)
	settings := NewSettings(nil, 1.0)
	engine := NewEngine(zap.NewNop(), cfg, client, nil, settings, notify.Nop{})

	assert.NoError(t, engine.RefreshWeights())

	vector := settings.Weights()
	var sum float64
	for _, weight := range vector {
		assert.Greater(t, weight, 0.0)
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-6)

	// the synthetic series is noisy, so volatility-driven strategies must
	// have pulled ahead of the zero-signal placeholder
	assert.Greater(t, vector["grid"], vector["sentiment"])
}
