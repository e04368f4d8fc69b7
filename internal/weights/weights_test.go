package weights

import (
	"math"
	"testing"

	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/notify"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// candlesFromCloses builds a minimal hourly candle series whose close prices
// are the given values.
func candlesFromCloses(closes []float64) []exchange.Candle {
	candles := make([]exchange.Candle, 0, len(closes))
	for i, close := range closes {
		openTime := int64(i) * 3600_000
		candles = append(candles, exchange.Candle{
			OpenTime:  openTime,
			CloseTime: openTime + 3600_000,
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
			Volume:    1,
		})
	}
	return candles
}

// recorder captures notifications for assertion.
type recorder struct {
	messages []string
}

func (r *recorder) Notify(text string) {
	r.messages = append(r.messages, text)
}

func TestRecommend_NormalizedAndStrictlyPositive(t *testing.T) {
	r := NewRecommender(zap.NewNop(), notify.Nop{})
	candles := candlesFromCloses([]float64{100, 102, 99, 103, 101, 104, 100, 105})

	vector, err := r.Recommend(candles)
	assert.NoError(t, err)
	assert.Len(t, vector, 5)

	var sum float64
	for _, name := range Names {
		weight, ok := vector[name]
		assert.True(t, ok, "missing weight for %s", name)
		assert.Greater(t, weight, 0.0, "weight for %s must be strictly positive", name)
		sum += weight
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestRecommend_RisingMarketFavorsMomentum(t *testing.T) {
	r := NewRecommender(zap.NewNop(), notify.Nop{})

	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i)) // strictly increasing
	}

	vector, err := r.Recommend(candlesFromCloses(closes))
	assert.NoError(t, err)
	assert.Greater(t, vector[StrategyDCA], vector[StrategySentiment])
	assert.Greater(t, vector[StrategyTrend], vector[StrategySentiment])
}

func TestRecommend_KnownValues(t *testing.T) {
	r := NewRecommender(zap.NewNop(), notify.Nop{})

	// Constant 10% returns: momentum 0.1, volatility 0. All the signal mass
	// lands on dca and trend, split evenly.
	vector, err := r.Recommend(candlesFromCloses([]float64{100, 110, 121}))
	assert.NoError(t, err)
	assert.InDelta(t, 0.5, vector[StrategyDCA], 1e-6)
	assert.InDelta(t, 0.5, vector[StrategyTrend], 1e-6)
	assert.InDelta(t, 0.0, vector[StrategyGrid], 1e-6)
	assert.InDelta(t, 0.0, vector[StrategyScalping], 1e-6)
	assert.InDelta(t, 0.0, vector[StrategySentiment], 1e-6)
}

func TestRecommend_InsufficientData(t *testing.T) {
	r := NewRecommender(zap.NewNop(), notify.Nop{})

	_, err := r.Recommend(nil)
	assert.ErrorIs(t, err, exchange.ErrInsufficientData)

	_, err = r.Recommend(candlesFromCloses([]float64{100}))
	assert.ErrorIs(t, err, exchange.ErrInsufficientData)
}

func TestRecommend_NotifierCheckpointsDoNotAlterResult(t *testing.T) {
	candles := candlesFromCloses([]float64{100, 101, 103, 102, 105})

	rec := &recorder{}
	noisy, err := NewRecommender(zap.NewNop(), rec).Recommend(candles)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"Fetching historical data...",
		"Calculating weight metrics...",
		"Training complete.",
	}, rec.messages)

	silent, err := NewRecommender(zap.NewNop(), notify.Nop{}).Recommend(candles)
	assert.NoError(t, err)
	for _, name := range Names {
		assert.InDelta(t, silent[name], noisy[name], 1e-12)
	}
}

func TestSampleStd_UsesBesselCorrection(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	m := mean(xs)
	assert.InDelta(t, 2.5, m, 1e-12)
	// sample variance = (2.25+0.25+0.25+2.25)/3
	assert.InDelta(t, math.Sqrt(5.0/3.0), sampleStd(xs, m), 1e-12)

	assert.Equal(t, 0.0, sampleStd([]float64{0.1}, 0.1))
}
