package trader

import (
	"errors"
	"fmt"
	"time"

	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/models"
	"binance-multi-strategy-bot/internal/signal"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// placeOrder converts a signal decision into a market order, journals the
// fill, and notifies the chat surface. Hold is a no-op. An order rejected
// for insufficient funds is logged and swallowed so the loop keeps its
// schedule; any other failure propagates to the engine.
func placeOrder(ctx StrategyContext, strategyName string, decision signal.Decision, quantity float64) error {
	if decision == signal.Hold || quantity <= 0 {
		return nil
	}

	symbol := ctx.Cfg.Trading.Symbol
	qty := decimal.NewFromFloat(quantity)

	l := ctx.Logger.With(
		zap.String("strategy", strategyName),
		zap.String("symbol", symbol),
		zap.String("side", decision.String()),
		zap.String("quantity", qty.String()),
	)

	var order *exchange.Order
	var err error
	switch decision {
	case signal.Buy:
		order, err = ctx.Client.MarketBuy(symbol, qty)
	case signal.Sell:
		order, err = ctx.Client.MarketSell(symbol, qty)
	}
	if err != nil {
		if errors.Is(err, exchange.ErrInsufficientFunds) {
			l.Warn("Order rejected, skipping this cycle", zap.Error(err))
			return nil
		}
		return fmt.Errorf("%s order failed: %w", decision, err)
	}

	l.Info("Order filled", zap.String("price", order.Price.String()), zap.String("status", order.Status))

	recordTrade(ctx, strategyName, order)
	ctx.Notifier.Notify(fmt.Sprintf("%s %s %s %s @ %s",
		strategyName, order.Side, order.Quantity, order.Symbol, order.Price))

	return nil
}

// recordTrade appends the fill to the persistent journal. Journal failures
// are logged but never fail the trade: the order is already on the books.
func recordTrade(ctx StrategyContext, strategyName string, order *exchange.Order) {
	if ctx.DB == nil {
		return
	}

	price, _ := order.Price.Float64()
	quantity, _ := order.Quantity.Float64()

	trade := models.Trade{
		Symbol:        order.Symbol,
		Side:          order.Side,
		Price:         price,
		Quantity:      quantity,
		QuoteQuantity: price * quantity,
		Strategy:      strategyName,
		Timestamp:     time.Now().Unix(),
		IsSimulation:  ctx.Cfg.Trading.DryRun,
	}
	if err := ctx.DB.Create(&trade).Error; err != nil {
		ctx.Logger.Error("Failed to save trade record", zap.Error(err))
	}
}
