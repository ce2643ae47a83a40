package models

// TradePoint identifies one side of the recommended trade.
type TradePoint struct {
	Index int
	Label string
	Price float64
}

// TradeResult is the outcome of a best-single-trade search over a Series.
//
// Invariants:
//   - BestBuy.Index < BestSell.Index.
//   - Profit equals BestSell.Price - BestBuy.Price, rounded to 6 decimal places.
//   - Profit >= 0; when no profitable window exists BestBuy/BestSell are indices 0 and 1.
type TradeResult struct {
	Series   Series
	BestBuy  TradePoint
	BestSell TradePoint
	Profit   float64
	Note     string
}
