// Package trade finds the single buy/sell pair that maximizes profit over a price series.
package trade

import (
	"fmt"

	"github.com/guttosm/tradewindow/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Note is attached to every TradeResult to name the method used.
const Note = "Algorithm: Kadane's Algorithm (Maximum Sum Subarray)"

// profitPlaces is the number of fractional digits kept in TradeResult.Profit.
const profitPlaces = 6

// InsufficientDataError is returned when a series is too short to hold a trade.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least 2 price points, got %d", e.Points)
}

// Window is a buy/sell pair over price indices.
// Profit is the raw sum of the deltas inside the window (not rounded).
type Window struct {
	BuyIndex  int
	SellIndex int
	Profit    float64
}

// scanState is the accumulator carried across the delta sequence.
type scanState struct {
	current     float64 // running sum of the active window
	windowStart int     // delta index where the active window began
	best        float64 // best positive sum seen so far; starts at 0
	bestStart   int
	bestEnd     int
}

// advance folds delta i into the state.
//
// The comparison against best is strict, so among windows with equal sums the
// first one found is kept. A running sum that dips below zero restarts the
// window at the next delta; a sum of exactly zero keeps the window open.
func (s scanState) advance(i int, change float64) scanState {
	s.current += change
	if s.current > s.best {
		s.best = s.current
		s.bestStart = s.windowStart
		s.bestEnd = i
	}
	if s.current < 0 {
		s.current = 0
		s.windowStart = i + 1
	}
	return s
}

// Deltas returns the consecutive differences p[i+1]-p[i]; it is one element
// shorter than prices.
func Deltas(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 0; i < len(prices)-1; i++ {
		out[i] = prices[i+1] - prices[i]
	}
	return out
}

// MaxProfitWindow runs the maximum-subarray scan over the deltas of prices and
// maps the best delta window back to price indices.
//
// Prices with no positive window (flat or never rising) yield {0, 1, 0}.
// Callers must pass at least two prices.
func MaxProfitWindow(prices []float64) Window {
	var st scanState
	for i, change := range Deltas(prices) {
		st = st.advance(i, change)
	}
	return Window{
		BuyIndex:  st.bestStart,
		SellIndex: st.bestEnd + 1, // delta i spans prices i and i+1
		Profit:    st.best,
	}
}

// RoundProfit rounds v to the precision reported in TradeResult.Profit.
func RoundProfit(v float64) float64 {
	return decimal.NewFromFloat(v).Round(profitPlaces).InexactFloat64()
}

// FindBestTrade returns the best single buy-then-sell trade over series.
//
// The series is echoed in the result as-is; buy and sell prices are taken
// from it unrounded while Profit is rounded to 6 places.
//
// Returns:
//   - *models.TradeResult: the recommended trade (never nil on success).
//   - error: *InsufficientDataError when the series has fewer than 2 points.
func FindBestTrade(series models.Series) (*models.TradeResult, error) {
	if len(series) < 2 {
		return nil, &InsufficientDataError{Points: len(series)}
	}

	w := MaxProfitWindow(series.Prices())
	buy := series[w.BuyIndex]
	sell := series[w.SellIndex]

	return &models.TradeResult{
		Series:   series,
		BestBuy:  models.TradePoint{Index: w.BuyIndex, Label: buy.Label, Price: buy.Price},
		BestSell: models.TradePoint{Index: w.SellIndex, Label: sell.Label, Price: sell.Price},
		Profit:   RoundProfit(w.Profit),
		Note:     Note,
	}, nil
}
