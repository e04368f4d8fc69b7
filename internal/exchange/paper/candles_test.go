package paper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetHistoricalCandles_ShapeAndContinuity(t *testing.T) {
	c := NewClient(zap.NewNop(), 0, 0)

	candles, err := c.GetHistoricalCandles("BTCUSDT", "1h", "2 days ago UTC")
	assert.NoError(t, err)
	assert.Len(t, candles, 48)

	for i, candle := range candles {
		assert.Equal(t, int64(3600_000), candle.CloseTime-candle.OpenTime,
			"candle %d is not one hour wide", i)
		if i > 0 {
			assert.Greater(t, candle.OpenTime, candles[i-1].OpenTime,
				"open times must be strictly increasing")
			assert.Equal(t, candles[i-1].CloseTime, candle.OpenTime,
				"candle %d does not start where the previous one closed", i)
		}
	}
}

func TestGetHistoricalCandles_PriceEnvelope(t *testing.T) {
	c := NewClient(zap.NewNop(), 0, 0)
	const base = 30000.0

	candles, err := c.GetHistoricalCandles("BTCUSDT", "1h", "1 days ago UTC")
	assert.NoError(t, err)
	assert.Len(t, candles, 24)

	for i, candle := range candles {
		assert.InDelta(t, base, candle.Open, base*0.01, "open of candle %d outside jitter bound", i)
		assert.InDelta(t, base, candle.Close, base*0.01, "close of candle %d outside jitter bound", i)
		assert.GreaterOrEqual(t, candle.High, math.Max(candle.Open, candle.Close))
		assert.LessOrEqual(t, candle.Low, math.Min(candle.Open, candle.Close))
		assert.GreaterOrEqual(t, candle.Volume, 1.0)
		assert.Less(t, candle.Volume, 10.0)
	}
}

func TestGetHistoricalCandles_UnknownSymbolUsesFallbackPrice(t *testing.T) {
	c := NewClient(zap.NewNop(), 0, 0)

	candles, err := c.GetHistoricalCandles("DOGEUSDT", "1h", "1 days ago UTC")
	assert.NoError(t, err)
	assert.Len(t, candles, 24)

	for _, candle := range candles {
		assert.InDelta(t, fallbackBasePrice, candle.Close, fallbackBasePrice*0.01)
	}
}
