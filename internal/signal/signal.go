package signal

import (
	"fmt"

	"binance-multi-strategy-bot/internal/exchange"

	"github.com/samber/lo"
)

// Decision is a discrete trade action emitted by a signal rule. It is a
// recommendation only; placing the order is the caller's job.
type Decision int

const (
	Hold Decision = iota
	Buy
	Sell
)

func (d Decision) String() string {
	switch d {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Crossover compares a fast and a slow simple moving average over the most
// recent closes. Fast above slow means Buy, below means Sell, equal means
// Hold so a flat signal never spams orders.
//
// When the series is shorter than slowPeriod there is no valid window; the
// decision is Hold and the error wraps exchange.ErrInsufficientData so the
// caller can skip the cycle instead of treating it as a hard failure.
func Crossover(candles []exchange.Candle, fastPeriod, slowPeriod int) (Decision, error) {
	if len(candles) < slowPeriod {
		return Hold, fmt.Errorf("crossover: %d candles, need %d: %w",
			len(candles), slowPeriod, exchange.ErrInsufficientData)
	}

	closes := lo.Map(candles, func(c exchange.Candle, _ int) float64 { return c.Close })
	fastMA := sma(closes, fastPeriod)
	slowMA := sma(closes, slowPeriod)

	switch {
	case fastMA > slowMA:
		return Buy, nil
	case fastMA < slowMA:
		return Sell, nil
	default:
		return Hold, nil
	}
}

// Threshold converts a sentiment score in [-1, 1] into a Decision: Buy above
// the threshold, Sell below its negation, Hold in between.
func Threshold(score, threshold float64) Decision {
	switch {
	case score > threshold:
		return Buy
	case score < -threshold:
		return Sell
	default:
		return Hold
	}
}

// sma averages the trailing period elements of closes.
func sma(closes []float64, period int) float64 {
	window := closes[len(closes)-period:]
	return lo.Sum(window) / float64(period)
}
