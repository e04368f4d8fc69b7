package paper

import (
	"testing"

	"binance-multi-strategy-bot/internal/exchange"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestClient() *Client {
	return NewClient(zap.NewNop(), 1000.0, 0.001)
}

func TestMarketBuy_DebitsQuoteAndCreditsBase(t *testing.T) {
	c := newTestClient()

	order, err := c.MarketBuy("BTCUSDT", decimal.NewFromFloat(0.01))
	assert.NoError(t, err)
	assert.Equal(t, exchange.StatusFilled, order.Status)
	assert.Equal(t, exchange.SideBuy, order.Side)
	assert.True(t, order.Price.Equal(decimal.NewFromInt(30000)))

	balances, err := c.GetAccount()
	assert.NoError(t, err)

	// cost 300 plus 0.1% fee of 0.3
	assert.True(t, balances["USDT"].Free.Equal(decimal.RequireFromString("699.7")),
		"expected 699.7 USDT, got %s", balances["USDT"].Free)
	assert.True(t, balances["BTC"].Free.Equal(decimal.RequireFromString("0.01")),
		"expected 0.01 BTC, got %s", balances["BTC"].Free)

	trades, err := c.GetTrades("BTCUSDT")
	assert.NoError(t, err)
	assert.Len(t, trades, 1)
	assert.Equal(t, exchange.SideBuy, trades[0].Side)
}

func TestMarketBuy_InsufficientFundsLeavesBalancesUntouched(t *testing.T) {
	c := newTestClient()

	// cost would be 30,000,000 USDT
	order, err := c.MarketBuy("BTCUSDT", decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, exchange.ErrInsufficientFunds)
	assert.Nil(t, order)

	balances, _ := c.GetAccount()
	assert.True(t, balances["USDT"].Free.Equal(decimal.NewFromInt(1000)))
	_, hasBTC := balances["BTC"]
	assert.False(t, hasBTC, "failed buy must not create a base asset entry")

	trades, _ := c.GetTrades("BTCUSDT")
	assert.Empty(t, trades)
}

func TestMarketSell_PermissiveAllowsNegativeBase(t *testing.T) {
	c := newTestClient()

	order, err := c.MarketSell("ETHUSDT", decimal.NewFromFloat(0.5))
	assert.NoError(t, err)
	assert.Equal(t, exchange.StatusFilled, order.Status)

	balances, _ := c.GetAccount()
	assert.True(t, balances["ETH"].Free.Equal(decimal.RequireFromString("-0.5")),
		"expected -0.5 ETH, got %s", balances["ETH"].Free)

	// proceeds 1000 minus fee 1
	assert.True(t, balances["USDT"].Free.Equal(decimal.NewFromInt(1999)),
		"expected 1999 USDT, got %s", balances["USDT"].Free)
}

func TestBuyThenSell_ChargesFeeOnBothLegs(t *testing.T) {
	c := newTestClient()
	qty := decimal.NewFromFloat(0.01)

	_, err := c.MarketBuy("BTCUSDT", qty)
	assert.NoError(t, err)
	_, err = c.MarketSell("BTCUSDT", qty)
	assert.NoError(t, err)

	balances, _ := c.GetAccount()
	// price unchanged, so the round trip costs exactly two fees of 0.3
	assert.True(t, balances["USDT"].Free.Equal(decimal.RequireFromString("999.4")),
		"expected 999.4 USDT, got %s", balances["USDT"].Free)
	assert.True(t, balances["BTC"].Free.IsZero())

	trades, _ := c.GetTrades("BTCUSDT")
	assert.Len(t, trades, 2)
	assert.Equal(t, exchange.SideBuy, trades[0].Side)
	assert.Equal(t, exchange.SideSell, trades[1].Side)
}

func TestMarketOrders_UnknownSymbol(t *testing.T) {
	c := newTestClient()

	_, err := c.MarketBuy("DOGEUSDT", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, exchange.ErrUnknownSymbol)

	_, err = c.MarketSell("DOGEUSDT", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, exchange.ErrUnknownSymbol)
}

func TestGetReferencePrice(t *testing.T) {
	c := newTestClient()

	price, err := c.GetReferencePrice("BTCUSDT")
	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(30000)))

	// unknown symbols report the zero sentinel, not an error
	price, err = c.GetReferencePrice("DOGEUSDT")
	assert.NoError(t, err)
	assert.True(t, price.IsZero())
}

func TestSetPrice(t *testing.T) {
	c := newTestClient()
	c.SetPrice("SOLUSDT", 150.0)

	price, err := c.GetReferencePrice("SOLUSDT")
	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(150.0)))
}

func TestGetTrades_FiltersBySymbolInOrder(t *testing.T) {
	c := newTestClient()

	_, _ = c.MarketBuy("BTCUSDT", decimal.NewFromFloat(0.001))
	_, _ = c.MarketBuy("ETHUSDT", decimal.NewFromFloat(0.01))
	_, _ = c.MarketSell("BTCUSDT", decimal.NewFromFloat(0.001))

	trades, err := c.GetTrades("BTCUSDT")
	assert.NoError(t, err)
	assert.Len(t, trades, 2)
	assert.Equal(t, exchange.SideBuy, trades[0].Side)
	assert.Equal(t, exchange.SideSell, trades[1].Side)

	trades, err = c.GetTrades("SOLUSDT")
	assert.NoError(t, err)
	assert.Empty(t, trades)
}

func TestGetAccount_ReturnsSnapshot(t *testing.T) {
	c := newTestClient()

	snapshot, err := c.GetAccount()
	assert.NoError(t, err)

	// Mutating the snapshot must not leak into the account.
	snapshot["USDT"] = exchange.Balance{Free: decimal.Zero, Locked: decimal.Zero}

	fresh, _ := c.GetAccount()
	assert.True(t, fresh["USDT"].Free.Equal(decimal.NewFromInt(1000)))
}

func TestClose_Idempotent(t *testing.T) {
	c := newTestClient()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
