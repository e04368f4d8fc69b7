package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Binance  Binance  `mapstructure:"binance"`
	Trading  Trading  `mapstructure:"trading"`
	Telegram Telegram `mapstructure:"telegram"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Server holds the configuration for the journal web UI.
type Server struct {
	Port int `mapstructure:"port"`
}

// Binance holds the configuration for the live Binance API client.
type Binance struct {
	ApiKey         string  `mapstructure:"apiKey"`
	SecretKey      string  `mapstructure:"secretKey"`
	Testnet        bool    `mapstructure:"testnet"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Telegram holds the chat control surface configuration. An empty token
// disables the bot and notifications fall back to the log.
type Telegram struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Database holds the configuration for the trade journal database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Trading holds the shared trading parameters and per-strategy settings.
type Trading struct {
	Symbol       string             `mapstructure:"symbol"`
	OrderAmount  float64            `mapstructure:"order_amount"`
	FeeRate      float64            `mapstructure:"fee_rate"`
	StartBalance float64            `mapstructure:"start_balance"`
	DryRun       bool               `mapstructure:"dry_run"`
	Risk         float64            `mapstructure:"risk"`
	Weights      map[string]float64 `mapstructure:"weights"`

	WeightRefreshMinutes int    `mapstructure:"weight_refresh_minutes"`
	WeightLookback       string `mapstructure:"weight_lookback"`

	DCA       DCA       `mapstructure:"dca"`
	Grid      Grid      `mapstructure:"grid"`
	Scalping  Scalping  `mapstructure:"scalping"`
	Trend     Trend     `mapstructure:"trend"`
	Sentiment Sentiment `mapstructure:"sentiment"`
}

// DCA holds dollar-cost-averaging settings.
type DCA struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// Grid holds grid strategy settings.
type Grid struct {
	Lower           float64 `mapstructure:"lower"`
	Upper           float64 `mapstructure:"upper"`
	Levels          int     `mapstructure:"levels"`
	IntervalMinutes int     `mapstructure:"interval_minutes"`
}

// Scalping holds the moving-average crossover settings.
type Scalping struct {
	FastPeriod      int    `mapstructure:"fast_period"`
	SlowPeriod      int    `mapstructure:"slow_period"`
	Lookback        string `mapstructure:"lookback"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
}

// Trend holds trend-following settings.
type Trend struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// Sentiment holds the sentiment threshold rule settings.
type Sentiment struct {
	Threshold       float64 `mapstructure:"threshold"`
	IntervalMinutes int     `mapstructure:"interval_minutes"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("binance.rate_limit", 20)      // requests per second
	viper.SetDefault("binance.rate_limit_burst", 5) // burst size
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("trading.symbol", "BTCUSDT")
	viper.SetDefault("trading.order_amount", 10.0)
	viper.SetDefault("trading.fee_rate", 0.001)
	viper.SetDefault("trading.start_balance", 1000.0)
	viper.SetDefault("trading.dry_run", true)
	viper.SetDefault("trading.risk", 1.0)
	viper.SetDefault("trading.weights", map[string]float64{
		"dca": 0.2, "grid": 0.2, "scalping": 0.2, "trend": 0.2, "sentiment": 0.2,
	})
	viper.SetDefault("trading.weight_refresh_minutes", 60)
	viper.SetDefault("trading.weight_lookback", "30 days ago UTC")

	viper.SetDefault("trading.dca.interval_minutes", 60)
	viper.SetDefault("trading.grid.lower", 30000.0)
	viper.SetDefault("trading.grid.upper", 35000.0)
	viper.SetDefault("trading.grid.levels", 10)
	viper.SetDefault("trading.grid.interval_minutes", 5)
	viper.SetDefault("trading.scalping.fast_period", 7)
	viper.SetDefault("trading.scalping.slow_period", 25)
	viper.SetDefault("trading.scalping.lookback", "2 days ago UTC")
	viper.SetDefault("trading.scalping.interval_seconds", 60)
	viper.SetDefault("trading.trend.interval_minutes", 5)
	viper.SetDefault("trading.sentiment.threshold", 0.0)
	viper.SetDefault("trading.sentiment.interval_minutes", 10)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
