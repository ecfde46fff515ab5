// Package journal holds the pure financial computations of the trading
// journal: derivation of per-trade profit figures and aggregation of
// journal-wide statistics. Nothing in this package touches storage or
// the network.
package journal

// Financials are the derived money fields of a single trade.
type Financials struct {
	TotalBuy      float64
	TotalSell     float64
	NetProfit     float64
	ProfitPercent float64
}

// Derive computes the derived fields from the four pricing inputs.
// A nil exitPrice marks an open position: TotalBuy still reflects the
// entry cost, the three profit fields stay zero.
//
// Inputs are taken as-is; negative or zero prices and quantities
// propagate arithmetically. The only guard is against dividing by a
// zero TotalBuy, in which case ProfitPercent is 0.
func Derive(entryPrice float64, exitPrice *float64, quantity int, commission float64) Financials {
	f := Financials{
		TotalBuy: entryPrice*float64(quantity) + commission,
	}
	if exitPrice == nil {
		return f
	}

	f.TotalSell = *exitPrice*float64(quantity) - commission
	f.NetProfit = f.TotalSell - f.TotalBuy
	if f.TotalBuy != 0 {
		f.ProfitPercent = f.NetProfit / f.TotalBuy * 100
	}
	return f
}
