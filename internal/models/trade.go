package models

import "gorm.io/gorm"

// Trade is one executed order in the journal, tagged with the strategy that
// placed it. The in-memory exchange ledger stays authoritative for balance
// reconstruction; this table is the audit trail that survives restarts.
type Trade struct {
	gorm.Model
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"` // "BUY" or "SELL"
	Price         float64 `json:"price"`
	Quantity      float64 `json:"quantity"`
	QuoteQuantity float64 `json:"quote_quantity"`
	Strategy      string  `json:"strategy"`
	Timestamp     int64   `json:"timestamp"`
	IsSimulation  bool    `json:"is_simulation"`
}
