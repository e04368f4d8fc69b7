package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"binance-multi-strategy-bot/internal/exchange"
	"binance-multi-strategy-bot/internal/trader"
	"binance-multi-strategy-bot/internal/weights"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot is the chat control surface. It doubles as the notify.Notifier for
// the engine, so trade fills and weight-recommendation progress land in the
// same chat the commands come from.
type Bot struct {
	api      *tgbot.BotAPI
	chatID   int64
	logger   *zap.Logger
	settings *trader.Settings
	client   exchange.Client

	// recommend runs one recommend-and-apply weight pass; wired after the
	// engine exists.
	recommend func() error
}

// NewBot creates the Telegram bot. It fails if the token is invalid or the
// Telegram API is unreachable.
func NewBot(token string, chatID int64, logger *zap.Logger, settings *trader.Settings, client exchange.Client) (*Bot, error) {
	api, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Bot{
		api:      api,
		chatID:   chatID,
		logger:   logger.Named("telegram"),
		settings: settings,
		client:   client,
	}, nil
}

// SetRecommendFunc wires the /recommend command to the engine's weight
// refresh.
func (b *Bot) SetRecommendFunc(fn func() error) {
	b.recommend = fn
}

// Notify implements notify.Notifier. Delivery failures are logged and
// dropped; notifications are advisory.
func (b *Bot) Notify(text string) {
	if _, err := b.api.Send(tgbot.NewMessage(b.chatID, text)); err != nil {
		b.logger.Warn("Failed to send telegram message", zap.Error(err))
	}
}

// Start begins long-polling for commands in a background goroutine and
// returns immediately. Polling stops when the context is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Telegram bot polling started", zap.Int64("chat_id", b.chatID))

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				b.logger.Info("Telegram bot polling stopped")
				return
			case upd := <-updates:
				if upd.Message == nil || !upd.Message.IsCommand() {
					continue
				}
				if upd.Message.Chat == nil || upd.Message.Chat.ID != b.chatID {
					continue
				}
				b.handleCommand(upd.Message)
			}
		}
	}()
}

func (b *Bot) handleCommand(msg *tgbot.Message) {
	b.logger.Debug("Handling command", zap.String("command", msg.Command()))

	switch msg.Command() {
	case "start":
		b.Notify("Hello! I'm your trading bot.\n" +
			"I run several strategies in the background and report fills here.\n" +
			"Use /help to see all available commands.")
	case "help":
		b.Notify("Available commands:\n" +
			"/start – start chatting with the bot\n" +
			"/status – balances and live settings\n" +
			"/help – display this command list\n" +
			"/weights – show current strategy weights\n" +
			"/setweights <dca> <grid> <scalping> <trend> <sentiment> – set weights (must sum to 1)\n" +
			"/risk <multiplier> – set the global risk multiplier\n" +
			"/recommend – recompute weights from recent price history")
	case "status":
		b.handleStatus()
	case "weights":
		b.handleWeights()
	case "setweights":
		b.handleSetWeights(msg.CommandArguments())
	case "risk":
		b.handleRisk(msg.CommandArguments())
	case "recommend":
		b.handleRecommend()
	default:
		b.Notify("Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) handleStatus() {
	balances, err := b.client.GetAccount()
	if err != nil {
		b.Notify(fmt.Sprintf("Could not fetch account: %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString("Balances:\n")
	for asset, bal := range balances {
		fmt.Fprintf(&sb, "  %s: free %s, locked %s\n", asset, bal.Free, bal.Locked)
	}
	fmt.Fprintf(&sb, "Risk multiplier: %.2f\n", b.settings.Risk())
	b.Notify(sb.String())
}

func (b *Bot) handleWeights() {
	var sb strings.Builder
	sb.WriteString("Current strategy weights:\n")
	vector := b.settings.Weights()
	for _, name := range weights.Names {
		fmt.Fprintf(&sb, "  %s: %.4f\n", name, vector[name])
	}
	b.Notify(sb.String())
}

func (b *Bot) handleSetWeights(args string) {
	fields := strings.Fields(args)
	if len(fields) != len(weights.Names) {
		b.Notify("Usage: /setweights <dca> <grid> <scalping> <trend> <sentiment>")
		return
	}

	vector := make(map[string]float64, len(weights.Names))
	for i, name := range weights.Names {
		value, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			b.Notify("All weights must be numbers")
			return
		}
		vector[name] = value
	}

	if err := b.settings.SetWeights(vector); err != nil {
		b.Notify(fmt.Sprintf("Weights rejected: %v", err))
		return
	}
	b.Notify("Weights updated")
}

func (b *Bot) handleRisk(args string) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		b.Notify(fmt.Sprintf("Current risk multiplier: %.2f\nUsage: /risk <multiplier>", b.settings.Risk()))
		return
	}

	risk, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		b.Notify("Risk multiplier must be a number")
		return
	}
	if err := b.settings.SetRisk(risk); err != nil {
		b.Notify(fmt.Sprintf("Risk rejected: %v", err))
		return
	}
	b.Notify(fmt.Sprintf("Risk multiplier set to %.2f", risk))
}

func (b *Bot) handleRecommend() {
	if b.recommend == nil {
		b.Notify("Weight recommendation is not available")
		return
	}
	// Runs in its own goroutine so a slow candle fetch never blocks polling.
	go func() {
		if err := b.recommend(); err != nil {
			b.Notify(fmt.Sprintf("Weight recommendation failed: %v", err))
			return
		}
		b.handleWeights()
	}()
}
