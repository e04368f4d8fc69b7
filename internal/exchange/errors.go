package exchange

import "errors"

var (
	// ErrInsufficientFunds is returned when an order would drive the quote
	// asset balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientData is returned when a candle series is too short for
	// the statistic or signal window being computed over it.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnknownSymbol is returned by market orders for a symbol without a
	// known price. Reference price lookups return a zero sentinel instead.
	ErrUnknownSymbol = errors.New("unknown symbol")
)
