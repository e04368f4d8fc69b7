package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"binance-multi-strategy-bot/internal/config"
	"binance-multi-strategy-bot/internal/exchange"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	baseURL         = "https://api.binance.com/api/v3"
	testnetBaseURL  = "https://testnet.binance.vision/api/v3"
	recvWindow      = "5000" // How long a request is valid in milliseconds
	klinesPageLimit = 1000   // Max candles per /klines request
	OrderTypeMarket = "MARKET"
)

// RestClient is the live-exchange implementation of exchange.Client, backed
// by the Binance REST API.
type RestClient struct {
	client    *resty.Client
	apiKey    string
	secretKey string
	logger    *zap.Logger
	limiter   *rate.Limiter
}

// ensure RestClient satisfies the exchange capability
var _ exchange.Client = (*RestClient)(nil)

// NewRestClient creates a new Binance REST API client.
func NewRestClient(cfg *config.Binance, logger *zap.Logger) *RestClient {
	var url string
	if cfg.Testnet {
		url = testnetBaseURL
		logger.Warn("Using Binance Testnet")
	} else {
		url = baseURL
		logger.Info("Using Binance Production API")
	}

	client := resty.New().SetBaseURL(url)

	// Initialize the rate limiter
	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &RestClient{
		client:    client,
		apiKey:    cfg.ApiKey,
		secretKey: cfg.SecretKey,
		logger:    logger,
		limiter:   limiter,
	}
}

// sign creates a HMAC-SHA256 signature for the request.
func (c *RestClient) sign(data string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// GetServerTime fetches the current server time from Binance.
// This is a good endpoint to test connectivity.
func (c *RestClient) GetServerTime() (int64, error) {
	type ServerTimeResponse struct {
		ServerTime int64 `json:"serverTime"`
	}

	req := c.client.R().
		SetResult(&ServerTimeResponse{})
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "GET", "/time", req)
	if err != nil {
		c.logger.Error("Failed to get server time", zap.Error(err))
		return 0, fmt.Errorf("failed to get server time: %w", err)
	}

	result := resp.Result().(*ServerTimeResponse)
	return result.ServerTime, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests || statusCode == 418 { // HTTP 429 or 418
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// If we should retry, calculate wait time
		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// accountResponse is the /account endpoint payload.
type accountResponse struct {
	Balances []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

// GetAccount fetches the account's asset balances.
func (c *RestClient) GetAccount() (map[string]exchange.Balance, error) {
	params := url.Values{}
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	params.Set("recvWindow", recvWindow)
	params.Set("signature", c.sign(params.Encode()))

	req := c.client.R().
		SetHeader("X-MBX-APIKEY", c.apiKey).
		SetQueryParamsFromValues(params).
		SetResult(&accountResponse{})
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "GET", "/account", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	result := resp.Result().(*accountResponse)
	balances := make(map[string]exchange.Balance, len(result.Balances))
	for _, b := range result.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, fmt.Errorf("failed to parse free balance for %s: %w", b.Asset, err)
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locked balance for %s: %w", b.Asset, err)
		}
		balances[b.Asset] = exchange.Balance{Free: free, Locked: locked}
	}
	return balances, nil
}

// myTrade is a single /myTrades entry.
type myTrade struct {
	Symbol  string `json:"symbol"`
	Price   string `json:"price"`
	Qty     string `json:"qty"`
	IsBuyer bool   `json:"isBuyer"`
}

// GetTrades fetches the account's trade history for a symbol, oldest first.
func (c *RestClient) GetTrades(symbol string) ([]exchange.Trade, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	params.Set("recvWindow", recvWindow)
	params.Set("signature", c.sign(params.Encode()))

	var raw []myTrade
	req := c.client.R().
		SetHeader("X-MBX-APIKEY", c.apiKey).
		SetQueryParamsFromValues(params).
		SetResult(&raw)
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "GET", "/myTrades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades for %s: %w", symbol, err)
	}

	result := resp.Result().(*[]myTrade)
	trades := make([]exchange.Trade, 0, len(*result))
	for _, t := range *result {
		price, err1 := decimal.NewFromString(t.Price)
		qty, err2 := decimal.NewFromString(t.Qty)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("failed to parse trade for %s", symbol)
		}
		side := exchange.SideSell
		if t.IsBuyer {
			side = exchange.SideBuy
		}
		trades = append(trades, exchange.Trade{Symbol: t.Symbol, Quantity: qty, Price: price, Side: side})
	}
	return trades, nil
}

// GetReferencePrice fetches the current average price for a symbol.
func (c *RestClient) GetReferencePrice(symbol string) (decimal.Decimal, error) {
	type avgPriceResponse struct {
		Price string `json:"price"`
	}

	req := c.client.R().
		SetQueryParam("symbol", symbol).
		SetResult(&avgPriceResponse{})
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "GET", "/avgPrice", req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get avg price for %s: %w", symbol, err)
	}

	result := resp.Result().(*avgPriceResponse)
	price, err := decimal.NewFromString(result.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse avg price for %s: %w", symbol, err)
	}
	return price, nil
}

// GetHistoricalCandles fetches klines covering the lookback window, paging
// through the API's per-request limit until the series reaches now.
func (c *RestClient) GetHistoricalCandles(symbol, interval, lookback string) ([]exchange.Candle, error) {
	days := exchange.ParseLookbackDays(lookback)
	startTime := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	endTime := time.Now().UTC().UnixMilli()

	var candles []exchange.Candle
	for startTime < endTime {
		page, err := c.getKlinesPage(symbol, interval, startTime)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		candles = append(candles, page...)
		// Next page starts where this one ended.
		startTime = page[len(page)-1].CloseTime
		if len(page) < klinesPageLimit {
			break
		}
	}
	return candles, nil
}

func (c *RestClient) getKlinesPage(symbol, interval string, startTime int64) ([]exchange.Candle, error) {
	var raw [][]any
	req := c.client.R().
		SetQueryParams(map[string]string{
			"symbol":    symbol,
			"interval":  interval,
			"startTime": strconv.FormatInt(startTime, 10),
			"limit":     strconv.Itoa(klinesPageLimit),
		}).
		SetResult(&raw)
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "GET", "/klines", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines for %s: %w", symbol, err)
	}

	result := resp.Result().(*[][]any)
	candles := make([]exchange.Candle, 0, len(*result))
	for _, k := range *result {
		candle, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("failed to parse kline for %s: %w", symbol, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// parseKline converts one raw kline array into a Candle. The API encodes
// times as numbers and prices/volume as strings.
func parseKline(k []any) (exchange.Candle, error) {
	if len(k) < 7 {
		return exchange.Candle{}, fmt.Errorf("kline has %d fields, expected at least 7", len(k))
	}

	openTime, ok1 := k[0].(float64)
	closeTime, ok2 := k[6].(float64)
	if !ok1 || !ok2 {
		return exchange.Candle{}, fmt.Errorf("kline times are not numeric")
	}

	values := make([]float64, 5)
	for i, idx := range []int{1, 2, 3, 4, 5} { // open, high, low, close, volume
		s, ok := k[idx].(string)
		if !ok {
			return exchange.Candle{}, fmt.Errorf("kline field %d is not a string", idx)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return exchange.Candle{}, fmt.Errorf("kline field %d: %w", idx, err)
		}
		values[i] = v
	}

	return exchange.Candle{
		OpenTime:  int64(openTime),
		CloseTime: int64(closeTime),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}

// orderResponse is the /order endpoint payload.
type orderResponse struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	TransactTime        int64  `json:"transactTime"`
	ExecutedQuantity    string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Status              string `json:"status"`
	Side                string `json:"side"`
}

// MarketBuy places a market buy order.
func (c *RestClient) MarketBuy(symbol string, quantity decimal.Decimal) (*exchange.Order, error) {
	return c.createOrder(symbol, exchange.SideBuy, quantity)
}

// MarketSell places a market sell order.
func (c *RestClient) MarketSell(symbol string, quantity decimal.Decimal) (*exchange.Order, error) {
	return c.createOrder(symbol, exchange.SideSell, quantity)
}

// createOrder places a signed MARKET order and converts the fill into an
// exchange.Order, deriving the average price from the quote quantity.
func (c *RestClient) createOrder(symbol, side string, quantity decimal.Decimal) (*exchange.Order, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", OrderTypeMarket)
	params.Set("quantity", quantity.String())
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	params.Set("recvWindow", recvWindow)

	queryString := params.Encode()
	signature := c.sign(queryString)
	params.Set("signature", signature)

	req := c.client.R().
		SetHeader("X-MBX-APIKEY", c.apiKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(params.Encode()).
		SetResult(&orderResponse{})

	ctx := context.Background()

	resp, err := c.doRequest(ctx, "POST", "/order", req)
	if err != nil {
		c.logger.Error("Failed to create order after multiple attempts",
			zap.Error(err),
			zap.String("symbol", symbol),
		)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	result := resp.Result().(*orderResponse)

	executedQty, err := decimal.NewFromString(result.ExecutedQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to parse executed quantity: %w", err)
	}
	quoteQty, err := decimal.NewFromString(result.CummulativeQuoteQty)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote quantity: %w", err)
	}

	price := decimal.Zero
	if executedQty.IsPositive() {
		price = quoteQty.Div(executedQty)
	}

	c.logger.Info("Successfully created order",
		zap.String("symbol", symbol),
		zap.String("side", side),
		zap.Int64("order_id", result.OrderID),
		zap.String("executed_qty", executedQty.String()),
	)

	return &exchange.Order{
		Symbol:   result.Symbol,
		Side:     side,
		Quantity: executedQty,
		Price:    price,
		Status:   result.Status,
	}, nil
}

// Close releases the underlying HTTP resources. resty manages its own
// connection pool, so there is nothing to tear down explicitly.
func (c *RestClient) Close() error {
	return nil
}
