package journal

import (
	"math"
	"time"

	"trading-journal-go/internal/models"
)

// NoStock is reported as best/worst stock when the journal is empty.
const NoStock = "-"

// equityDateLayout is the display format of equity-curve point labels.
const equityDateLayout = "01/02"

// EquityPoint is one step of the running-balance curve.
type EquityPoint struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// Stats are the aggregate figures of a user's journal.
type Stats struct {
	TotalTrades      int                `json:"total_trades"`
	WinningTrades    int                `json:"winning_trades"`
	SuccessRate      float64            `json:"success_rate"`
	TotalProfit      float64            `json:"total_profit"`
	StockPerformance map[string]float64 `json:"stock_performance"`
	BestStock        string             `json:"best_stock"`
	WorstStock       string             `json:"worst_stock"`
	EquityCurve      []EquityPoint      `json:"equity_curve"`
}

// Aggregate computes journal statistics over the user's trades as
// returned by the store, i.e. newest first. The equity curve runs in
// entry chronology: the list is reversed to oldest-first and the
// balance advances from initialCapital by each trade's net profit, so
// open trades advance it by zero. Point labels carry the entry date,
// not the exit date.
func Aggregate(trades []models.Trade, initialCapital float64) Stats {
	stats := Stats{
		TotalTrades:      len(trades),
		StockPerformance: make(map[string]float64, len(trades)),
		BestStock:        NoStock,
		WorstStock:       NoStock,
		EquityCurve:      make([]EquityPoint, 0, len(trades)),
	}

	// Oldest first, both for the curve and for first-inserted
	// tie-breaking on best/worst stock.
	chronological := make([]models.Trade, len(trades))
	for i, t := range trades {
		chronological[len(trades)-1-i] = t
	}

	var stockOrder []string
	balance := initialCapital
	for _, t := range chronological {
		if t.NetProfit > 0 {
			stats.WinningTrades++
		}
		stats.TotalProfit += t.NetProfit

		if _, seen := stats.StockPerformance[t.StockName]; !seen {
			stockOrder = append(stockOrder, t.StockName)
		}
		stats.StockPerformance[t.StockName] += t.NetProfit

		balance += t.NetProfit
		stats.EquityCurve = append(stats.EquityCurve, EquityPoint{
			Name:    formatEntryDate(t.EntryDate),
			Balance: balance,
		})
	}

	if stats.TotalTrades > 0 {
		rate := float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
		stats.SuccessRate = math.Round(rate*10) / 10
	}

	// Strict comparisons keep ties on the first-inserted stock.
	for _, name := range stockOrder {
		profit := stats.StockPerformance[name]
		if stats.BestStock == NoStock || profit > stats.StockPerformance[stats.BestStock] {
			stats.BestStock = name
		}
		if stats.WorstStock == NoStock || profit < stats.StockPerformance[stats.WorstStock] {
			stats.WorstStock = name
		}
	}

	return stats
}

// formatEntryDate renders an ISO entry date as MM/dd for chart labels,
// falling back to the raw value when it does not parse.
func formatEntryDate(entryDate string) string {
	d, err := time.Parse("2006-01-02", entryDate)
	if err != nil {
		return entryDate
	}
	return d.Format(equityDateLayout)
}
