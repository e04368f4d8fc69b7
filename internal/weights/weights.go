package weights

import (
	"fmt"
	"math"

	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/notify"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Strategy names, also the keys of every weight vector.
const (
	StrategyDCA       = "dca"
	StrategyGrid      = "grid"
	StrategyScalping  = "scalping"
	StrategyTrend     = "trend"
	StrategySentiment = "sentiment"
)

// Names lists all strategies in a fixed order.
var Names = []string{StrategyDCA, StrategyGrid, StrategyScalping, StrategyTrend, StrategySentiment}

// epsilon floors every raw score so normalization never starves a strategy
// down to an unrecoverable zero weight.
const epsilon = 1e-9

// Recommender derives a normalized weight vector over the strategy set from
// recent price history. Capital allocation then favors strategies whose
// signal class the market currently rewards: momentum feeds dca and trend,
// volatility feeds grid and scalping.
type Recommender struct {
	logger   *zap.Logger
	notifier notify.Notifier
}

// NewRecommender creates a Recommender. The notifier only carries advisory
// progress messages; pass notify.Nop{} to run silently.
func NewRecommender(logger *zap.Logger, notifier notify.Notifier) *Recommender {
	return &Recommender{logger: logger, notifier: notifier}
}

// Recommend computes per-strategy weights from a candle series. At least two
// candles are required to form a return; otherwise it fails with
// exchange.ErrInsufficientData. The result always sums to 1 and every weight
// is strictly positive.
func (r *Recommender) Recommend(candles []exchange.Candle) (map[string]float64, error) {
	r.notifier.Notify("Fetching historical data...")

	closes := lo.Map(candles, func(c exchange.Candle, _ int) float64 { return c.Close })
	returns := periodReturns(closes)
	if len(returns) == 0 {
		return nil, fmt.Errorf("recommend weights: %d candles: %w", len(candles), exchange.ErrInsufficientData)
	}

	r.notifier.Notify("Calculating weight metrics...")

	momentum := mean(returns)
	volatility := sampleStd(returns, momentum)

	scores := map[string]float64{
		StrategyDCA:       math.Max(momentum, 0) + epsilon,
		StrategyGrid:      volatility + epsilon,
		StrategyScalping:  volatility/2 + epsilon,
		StrategyTrend:     math.Abs(momentum) + epsilon,
		StrategySentiment: epsilon, // no sentiment signal wired in yet
	}

	total := lo.Sum(lo.Values(scores))
	weights := make(map[string]float64, len(scores))
	for name, score := range scores {
		weights[name] = score / total
	}

	r.logger.Info("Recommended weights calculated",
		zap.Float64("momentum", momentum),
		zap.Float64("volatility", volatility),
		zap.Any("weights", weights),
	)

	r.notifier.Notify("Training complete.")
	return weights, nil
}

// periodReturns converts a close series into simple period-over-period
// returns, one shorter than its input.
func periodReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

func mean(xs []float64) float64 {
	return lo.Sum(xs) / float64(len(xs))
}

// sampleStd is the Bessel-corrected standard deviation. A single return
// yields zero rather than a division by zero.
func sampleStd(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
