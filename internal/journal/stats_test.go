package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal-go/internal/models"
)

// newestFirst mirrors storage order: the argument order is oldest
// first, the returned slice is reversed.
func newestFirst(trades ...models.Trade) []models.Trade {
	out := make([]models.Trade, len(trades))
	for i, t := range trades {
		out[len(trades)-1-i] = t
	}
	return out
}

func TestAggregateEmptyJournal(t *testing.T) {
	stats := Aggregate(nil, 1000)

	assert.Equal(t, 0, stats.TotalTrades)
	assert.Equal(t, 0, stats.WinningTrades)
	assert.Equal(t, float64(0), stats.SuccessRate)
	assert.Equal(t, float64(0), stats.TotalProfit)
	assert.Equal(t, NoStock, stats.BestStock)
	assert.Equal(t, NoStock, stats.WorstStock)
	assert.Empty(t, stats.EquityCurve)
}

func TestAggregateSuccessRate(t *testing.T) {
	// 2 winners out of 3 rounds to one decimal: 66.7.
	trades := newestFirst(
		models.Trade{StockName: "A", EntryDate: "2024-01-01", NetProfit: 100},
		models.Trade{StockName: "B", EntryDate: "2024-01-02", NetProfit: -40},
		models.Trade{StockName: "C", EntryDate: "2024-01-03", NetProfit: 10},
	)

	stats := Aggregate(trades, 0)

	assert.Equal(t, 3, stats.TotalTrades)
	assert.Equal(t, 2, stats.WinningTrades)
	assert.Equal(t, 66.7, stats.SuccessRate)
	assert.InDelta(t, 70, stats.TotalProfit, 1e-9)
}

func TestAggregateEquityCurve(t *testing.T) {
	trades := newestFirst(
		models.Trade{StockName: "A", EntryDate: "2024-01-01", NetProfit: 100},
		models.Trade{StockName: "B", EntryDate: "2024-01-05", NetProfit: -30},
	)

	stats := Aggregate(trades, 1000)

	require.Len(t, stats.EquityCurve, 2)
	assert.Equal(t, EquityPoint{Name: "01/01", Balance: 1100}, stats.EquityCurve[0])
	assert.Equal(t, EquityPoint{Name: "01/05", Balance: 1070}, stats.EquityCurve[1])
}

func TestAggregateEquityCurveOpenTradesAdvanceByZero(t *testing.T) {
	trades := newestFirst(
		models.Trade{StockName: "A", EntryDate: "2024-02-01", NetProfit: 50},
		models.Trade{StockName: "A", EntryDate: "2024-02-03"}, // open, zero profit
		models.Trade{StockName: "B", EntryDate: "2024-02-07", NetProfit: -20},
	)

	stats := Aggregate(trades, 500)

	require.Len(t, stats.EquityCurve, 3)
	assert.Equal(t, float64(550), stats.EquityCurve[0].Balance)
	assert.Equal(t, float64(550), stats.EquityCurve[1].Balance)
	assert.Equal(t, float64(530), stats.EquityCurve[2].Balance)
}

func TestAggregateEquityCurveUnparsableDateLabel(t *testing.T) {
	trades := newestFirst(
		models.Trade{StockName: "A", EntryDate: "not-a-date", NetProfit: 10},
	)

	stats := Aggregate(trades, 0)

	require.Len(t, stats.EquityCurve, 1)
	assert.Equal(t, "not-a-date", stats.EquityCurve[0].Name)
}

func TestAggregateBestAndWorstStock(t *testing.T) {
	trades := newestFirst(
		models.Trade{StockName: "COMI", EntryDate: "2024-01-01", NetProfit: 120},
		models.Trade{StockName: "HRHO", EntryDate: "2024-01-02", NetProfit: -80},
		models.Trade{StockName: "COMI", EntryDate: "2024-01-03", NetProfit: -20},
		models.Trade{StockName: "SWDY", EntryDate: "2024-01-04", NetProfit: 30},
	)

	stats := Aggregate(trades, 0)

	assert.Equal(t, "COMI", stats.BestStock) // 100 aggregate
	assert.Equal(t, "HRHO", stats.WorstStock)
	assert.InDelta(t, 100, stats.StockPerformance["COMI"], 1e-9)
	assert.InDelta(t, -80, stats.StockPerformance["HRHO"], 1e-9)
	assert.InDelta(t, 30, stats.StockPerformance["SWDY"], 1e-9)
}

func TestAggregateTiesGoToFirstInsertedStock(t *testing.T) {
	trades := newestFirst(
		models.Trade{StockName: "FIRST", EntryDate: "2024-01-01", NetProfit: 50},
		models.Trade{StockName: "SECOND", EntryDate: "2024-01-02", NetProfit: 50},
	)

	stats := Aggregate(trades, 0)

	assert.Equal(t, "FIRST", stats.BestStock)
	assert.Equal(t, "FIRST", stats.WorstStock)
}

func TestAggregateUsesEntryChronologyNotStorageOrder(t *testing.T) {
	// Same trades handed over newest-first (storage order); the curve
	// must still run oldest entry to newest.
	trades := []models.Trade{
		{StockName: "B", EntryDate: "2024-03-09", NetProfit: -10},
		{StockName: "A", EntryDate: "2024-03-01", NetProfit: 40},
	}

	stats := Aggregate(trades, 100)

	require.Len(t, stats.EquityCurve, 2)
	assert.Equal(t, "03/01", stats.EquityCurve[0].Name)
	assert.Equal(t, float64(140), stats.EquityCurve[0].Balance)
	assert.Equal(t, "03/09", stats.EquityCurve[1].Name)
	assert.Equal(t, float64(130), stats.EquityCurve[1].Balance)
}
