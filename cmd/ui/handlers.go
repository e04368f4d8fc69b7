package main

import (
	"encoding/json"
	"net/http"
	"time"

	"binance-multi-strategy-bot/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{log: log, db: db}
}

// TradesHandler returns journal trades, most recent first. An optional
// ?strategy= query filters to a single strategy.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	query := h.db.Order("timestamp desc")
	if strategy := r.URL.Query().Get("strategy"); strategy != "" {
		query = query.Where("strategy = ?", strategy)
	}

	var trades []models.Trade
	if err := query.Find(&trades).Error; err != nil {
		h.log.Error("Failed to get trades from database", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

// StrategyStats holds per-strategy activity for a period.
type StrategyStats struct {
	TotalTrades int64   `json:"total_trades"`
	Buys        int64   `json:"buys"`
	Sells       int64   `json:"sells"`
	QuoteVolume float64 `json:"quote_volume"`
}

// StatisticsResponse is the structure for the /api/statistics endpoint.
type StatisticsResponse struct {
	Since24h map[string]StrategyStats `json:"since_24h"`
	AllTime  map[string]StrategyStats `json:"all_time"`
}

// StatisticsHandler aggregates journal activity per strategy, for the last
// 24 hours and for all time.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var allTrades []models.Trade
	if err := h.db.Find(&allTrades).Error; err != nil {
		h.log.Error("Failed to get trades for statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	since24h := time.Now().Add(-24 * time.Hour).Unix()

	response := StatisticsResponse{
		Since24h: make(map[string]StrategyStats),
		AllTime:  make(map[string]StrategyStats),
	}

	for _, trade := range allTrades {
		response.AllTime[trade.Strategy] = accumulate(response.AllTime[trade.Strategy], trade)
		if trade.Timestamp >= since24h {
			response.Since24h[trade.Strategy] = accumulate(response.Since24h[trade.Strategy], trade)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func accumulate(stats StrategyStats, trade models.Trade) StrategyStats {
	stats.TotalTrades++
	if trade.Side == "BUY" {
		stats.Buys++
	} else {
		stats.Sells++
	}
	stats.QuoteVolume += trade.QuoteQuantity
	return stats
}
