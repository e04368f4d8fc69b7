package paper

import (
	"time"

	"binance-multi-strategy-bot/internal/exchange"
)

const fallbackBasePrice = 100.0

// GetHistoricalCandles fabricates an hourly candle series spanning the
// requested lookback and ending now. Prices follow a bounded random walk
// around the symbol's table price: open and close jitter within 1% of the
// base, high and low widen the open/close envelope by up to another 1%, and
// volume lands in [1, 10). The series is for exercising strategies offline,
// not for reproducible backtests, so it is not seeded deterministically.
func (c *Client) GetHistoricalCandles(symbol, interval, lookback string) ([]exchange.Candle, error) {
	days := exchange.ParseLookbackDays(lookback)
	points := days * 24

	c.mu.Lock()
	base := fallbackBasePrice
	if price, ok := c.prices[symbol]; ok {
		base, _ = price.Float64()
	}
	c.mu.Unlock()

	start := time.Now().UTC().Add(-time.Duration(points) * time.Hour)

	candles := make([]exchange.Candle, 0, points)
	for i := 0; i < points; i++ {
		openTime := start.Add(time.Duration(i) * time.Hour)
		closeTime := openTime.Add(time.Hour)

		open := base * (1 + c.jitter(-0.01, 0.01))
		close := base * (1 + c.jitter(-0.01, 0.01))
		high := max(open, close) * (1 + c.jitter(0, 0.01))
		low := min(open, close) * (1 - c.jitter(0, 0.01))

		candles = append(candles, exchange.Candle{
			OpenTime:  openTime.UnixMilli(),
			CloseTime: closeTime.UnixMilli(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    c.jitter(1, 10),
		})
	}
	return candles, nil
}

// jitter returns a uniform random float in [lo, hi).
func (c *Client) jitter(lo, hi float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo + c.rng.Float64()*(hi-lo)
}
