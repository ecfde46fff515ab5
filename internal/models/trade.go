package models

import "time"

// Trade types accepted by the journal.
const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// Trade represents one journaled position. A trade with no exit price
// is still open; its profit-related derived fields are zero while
// TotalBuy already reflects the entry cost.
//
// TotalBuy, TotalSell, NetProfit and ProfitPercent are derived from the
// four pricing inputs on every write and are never mutated on their own.
type Trade struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	StockName     string    `gorm:"not null" json:"stock_name"`
	TradeType     string    `gorm:"not null" json:"trade_type"` // "buy" or "sell"
	EntryDate     string    `gorm:"not null" json:"entry_date"`
	ExitDate      *string   `json:"exit_date"`
	EntryPrice    float64   `json:"entry_price"`
	ExitPrice     *float64  `json:"exit_price"`
	Quantity      int       `json:"quantity"`
	Commission    float64   `json:"commission"`
	TotalBuy      float64   `json:"total_buy"`
	TotalSell     float64   `json:"total_sell"`
	NetProfit     float64   `json:"net_profit"`
	ProfitPercent float64   `json:"profit_percent"`
	Strategy      string    `json:"strategy"`
	Notes         string    `json:"notes"`
	AiInsight     *string   `json:"ai_insight"`
	ChartImage    *string   `json:"chart_image"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name aligned with the persisted schema.
func (Trade) TableName() string {
	return "trades"
}

// IsOpen reports whether the position has no recorded exit yet.
func (t *Trade) IsOpen() bool {
	return t.ExitPrice == nil
}
