package trader

import (
	"time"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/signal"
	"binance-multi-strategy-bot/internal/weights"

	"go.uber.org/zap"
)

// ScoreSource supplies the current sentiment score in [-1, 1].
type ScoreSource func() float64

// SentimentStrategy applies a threshold rule to an externally supplied
// sentiment score. No real sentiment feed is integrated yet; the default
// source always reports neutral, which keeps the strategy on Hold.
type SentimentStrategy struct {
	threshold float64
	interval  time.Duration
	score     ScoreSource
}

// NewSentimentStrategy builds the strategy from its config section. A nil
// score source defaults to neutral sentiment.
func NewSentimentStrategy(cfg *config.Config, score ScoreSource) *SentimentStrategy {
	if score == nil {
		score = func() float64 { return 0.0 }
	}
	return &SentimentStrategy{
		threshold: cfg.Trading.Sentiment.Threshold,
		interval:  time.Duration(cfg.Trading.Sentiment.IntervalMinutes) * time.Minute,
		score:     score,
	}
}

func (s *SentimentStrategy) Name() string {
	return weights.StrategySentiment
}

func (s *SentimentStrategy) Interval() time.Duration {
	return s.interval
}

// Execute reads the current score and trades when it clears the threshold.
func (s *SentimentStrategy) Execute(ctx StrategyContext) error {
	score := s.score()
	decision := signal.Threshold(score, s.threshold)

	ctx.Logger.Debug("Sentiment signal evaluated",
		zap.Float64("score", score),
		zap.Float64("threshold", s.threshold),
		zap.String("decision", decision.String()),
	)

	return placeOrder(ctx, s.Name(), decision, orderQuantity(ctx, s.Name()))
}
