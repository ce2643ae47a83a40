package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis wraps a TradeResult with the bookkeeping of one analysis run.
//
// ID and CreatedAt are only set when the run was persisted to history;
// otherwise ID is uuid.Nil.
type Analysis struct {
	ID        uuid.UUID
	Source    string
	CreatedAt time.Time
	Result    TradeResult
}

// Persisted reports whether the analysis has been stored in history.
func (a *Analysis) Persisted() bool {
	return a != nil && a.ID != uuid.Nil
}

// AnalysisSummary is the list view of a stored analysis (no series).
type AnalysisSummary struct {
	ID         uuid.UUID
	Source     string
	PointCount int
	BuyIndex   int
	SellIndex  int
	Profit     float64
	CreatedAt  time.Time
}
