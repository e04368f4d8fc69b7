package paper

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"binance-multi-strategy-bot/internal/exchange"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultStartBalance = 1000.0
	defaultFeeRate      = 0.001
)

// Client is a simulated exchange account for offline runs. It executes
// market orders against a static price table with a flat fee rate, and keeps
// balances and a trade ledger in memory.
//
// Sell policy is permissive: selling more of a base asset than is held drives
// its free balance negative instead of failing, so strategies that try to
// close a position they never opened do not stall. The quote asset can never
// go negative; a buy that would do so is rejected.
//
// All mutation is serialized behind a single mutex, so concurrently running
// strategy loops never observe a half-applied order.
type Client struct {
	mu       sync.Mutex
	balances map[string]exchange.Balance
	trades   []exchange.Trade
	prices   map[string]decimal.Decimal
	feeRate  decimal.Decimal
	logger   *zap.Logger
	rng      *rand.Rand
}

// compile-time check that the paper client satisfies the exchange capability
var _ exchange.Client = (*Client)(nil)

// NewClient creates a simulated account funded with startBalance of the
// quote asset. Zero startBalance or feeRate fall back to the defaults
// (1000 USDT, 10 bps). The price table is seeded with BTCUSDT and ETHUSDT.
func NewClient(logger *zap.Logger, startBalance, feeRate float64) *Client {
	if startBalance <= 0 {
		startBalance = defaultStartBalance
	}
	if feeRate <= 0 {
		feeRate = defaultFeeRate
	}

	return &Client{
		balances: map[string]exchange.Balance{
			exchange.QuoteAsset: {Free: decimal.NewFromFloat(startBalance), Locked: decimal.Zero},
		},
		prices: map[string]decimal.Decimal{
			"BTCUSDT": decimal.NewFromInt(30000),
			"ETHUSDT": decimal.NewFromInt(2000),
		},
		feeRate: decimal.NewFromFloat(feeRate),
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetPrice adds or replaces a symbol in the static price table.
func (c *Client) SetPrice(symbol string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices[symbol] = decimal.NewFromFloat(price)
}

// GetAccount returns a snapshot copy of all balances.
func (c *Client) GetAccount() (map[string]exchange.Balance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[string]exchange.Balance, len(c.balances))
	for asset, bal := range c.balances {
		snapshot[asset] = bal
	}
	return snapshot, nil
}

// GetTrades returns the ledger entries for symbol in insertion order.
func (c *Client) GetTrades(symbol string) ([]exchange.Trade, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trades := make([]exchange.Trade, 0)
	for _, t := range c.trades {
		if t.Symbol == symbol {
			trades = append(trades, t)
		}
	}
	return trades, nil
}

// GetReferencePrice returns the static table price for symbol, or decimal
// zero when the symbol is unknown.
func (c *Client) GetReferencePrice(symbol string) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prices[symbol], nil
}

// MarketBuy fills a market buy at the table price. The quote asset is
// debited cost plus fee and the base asset credited the full quantity. It
// fails with exchange.ErrInsufficientFunds when the free quote balance does
// not cover cost plus fee, leaving balances untouched.
func (c *Client) MarketBuy(symbol string, quantity decimal.Decimal) (*exchange.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	price, ok := c.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("market buy %s: %w", symbol, exchange.ErrUnknownSymbol)
	}

	cost := price.Mul(quantity)
	fee := cost.Mul(c.feeRate)
	total := cost.Add(fee)

	quote := c.balances[exchange.QuoteAsset]
	if quote.Free.LessThan(total) {
		return nil, fmt.Errorf("market buy %s: need %s %s, have %s: %w",
			symbol, total, exchange.QuoteAsset, quote.Free, exchange.ErrInsufficientFunds)
	}

	quote.Free = quote.Free.Sub(total)
	c.balances[exchange.QuoteAsset] = quote

	base := baseAsset(symbol)
	bal := c.balances[base]
	bal.Free = bal.Free.Add(quantity)
	c.balances[base] = bal

	trade := exchange.Trade{Symbol: symbol, Quantity: quantity, Price: price, Side: exchange.SideBuy}
	c.trades = append(c.trades, trade)

	c.logger.Debug("Paper buy filled",
		zap.String("symbol", symbol),
		zap.String("quantity", quantity.String()),
		zap.String("price", price.String()),
		zap.String("fee", fee.String()),
	)

	return &exchange.Order{
		Symbol:   symbol,
		Side:     exchange.SideBuy,
		Quantity: quantity,
		Price:    price,
		Status:   exchange.StatusFilled,
	}, nil
}

// MarketSell fills a market sell at the table price, crediting the quote
// asset proceeds minus fee and debiting the base asset. Under the permissive
// policy the base balance may go negative.
func (c *Client) MarketSell(symbol string, quantity decimal.Decimal) (*exchange.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	price, ok := c.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("market sell %s: %w", symbol, exchange.ErrUnknownSymbol)
	}

	base := baseAsset(symbol)
	bal := c.balances[base]
	bal.Free = bal.Free.Sub(quantity)
	c.balances[base] = bal

	proceeds := price.Mul(quantity)
	fee := proceeds.Mul(c.feeRate)

	quote := c.balances[exchange.QuoteAsset]
	quote.Free = quote.Free.Add(proceeds.Sub(fee))
	c.balances[exchange.QuoteAsset] = quote

	trade := exchange.Trade{Symbol: symbol, Quantity: quantity, Price: price, Side: exchange.SideSell}
	c.trades = append(c.trades, trade)

	c.logger.Debug("Paper sell filled",
		zap.String("symbol", symbol),
		zap.String("quantity", quantity.String()),
		zap.String("price", price.String()),
		zap.String("fee", fee.String()),
	)

	return &exchange.Order{
		Symbol:   symbol,
		Side:     exchange.SideSell,
		Quantity: quantity,
		Price:    price,
		Status:   exchange.StatusFilled,
	}, nil
}

// Close releases nothing; the paper client holds no external resources.
// Safe to call more than once.
func (c *Client) Close() error {
	return nil
}

func baseAsset(symbol string) string {
	return strings.TrimSuffix(symbol, exchange.QuoteAsset)
}
