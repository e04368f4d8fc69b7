package exchange

import (
	"github.com/shopspring/decimal"
)

const (
	// QuoteAsset is the asset every configured symbol is quoted in.
	QuoteAsset = "USDT"

	SideBuy  = "BUY"
	SideSell = "SELL"

	StatusFilled = "FILLED"
)

// Balance is a single asset's holdings on the exchange account.
type Balance struct {
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// Trade is one executed fill, as recorded in the account's trade history.
type Trade struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Side     string          `json:"side"`
}

// Order is the confirmation returned by a market order.
type Order struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

// Candle is a single OHLCV bar. Times are unix milliseconds; a well-formed
// series is strictly increasing with each CloseTime equal to the next
// candle's OpenTime.
type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Client is the capability set strategies trade against. The paper client
// and the live Binance REST client both implement it, so strategy code never
// knows which one it is talking to.
//
// GetReferencePrice returns decimal zero for an unknown symbol; callers must
// treat zero as "no price available", not as a real quote.
type Client interface {
	GetAccount() (map[string]Balance, error)
	GetTrades(symbol string) ([]Trade, error)
	GetReferencePrice(symbol string) (decimal.Decimal, error)
	GetHistoricalCandles(symbol, interval, lookback string) ([]Candle, error)
	MarketBuy(symbol string, quantity decimal.Decimal) (*Order, error)
	MarketSell(symbol string, quantity decimal.Decimal) (*Order, error)
	Close() error
}
