package dto

import (
	"time"

	"github.com/guttosm/tradewindow/internal/domain/models"
)

// TradeResponse is the JSON structure returned by the process endpoints and
// printed by the CLI.
//
// Field names follow the public API contract and are decoupled from
// models.TradeResult.
type TradeResponse struct {
	AnalysisID string        `json:"analysis_id,omitempty" yaml:"analysis_id,omitempty" example:"6f1c2b7e-3a9d-4a53-9a55-0c3f8a1d2e44"`
	Series     []PointDTO    `json:"series" yaml:"series"`
	BestBuy    TradePointDTO `json:"best_buy" yaml:"best_buy"`
	BestSell   TradePointDTO `json:"best_sell" yaml:"best_sell"`
	Profit     float64       `json:"profit" yaml:"profit" example:"5"`
	Note       string        `json:"note" yaml:"note" example:"Algorithm: Kadane's Algorithm (Maximum Sum Subarray)"`
}

// PointDTO is one echoed observation.
type PointDTO struct {
	Date  string  `json:"date" yaml:"date" example:"2024-01-02"`
	Price float64 `json:"price" yaml:"price" example:"101.25"`
}

// TradePointDTO is the buy or sell side of the recommendation.
type TradePointDTO struct {
	Index int     `json:"index" yaml:"index" example:"1"`
	Date  string  `json:"date" yaml:"date" example:"2024-01-02"`
	Price float64 `json:"price" yaml:"price" example:"1"`
}

// AnalysisSummaryDTO is one row of GET /api/analyses.
type AnalysisSummaryDTO struct {
	ID         string    `json:"id" example:"6f1c2b7e-3a9d-4a53-9a55-0c3f8a1d2e44"`
	Source     string    `json:"source" example:"csv"`
	PointCount int       `json:"point_count" example:"6"`
	BuyIndex   int       `json:"buy_index" example:"1"`
	SellIndex  int       `json:"sell_index" example:"4"`
	Profit     float64   `json:"profit" example:"5"`
	CreatedAt  time.Time `json:"created_at" example:"2025-09-12T10:00:00Z"`
}

// NewTradeResponse maps an analysis to its API representation.
func NewTradeResponse(a *models.Analysis) TradeResponse {
	res := a.Result
	series := make([]PointDTO, len(res.Series))
	for i, p := range res.Series {
		series[i] = PointDTO{Date: p.Label, Price: p.Price}
	}

	resp := TradeResponse{
		Series:   series,
		BestBuy:  TradePointDTO{Index: res.BestBuy.Index, Date: res.BestBuy.Label, Price: res.BestBuy.Price},
		BestSell: TradePointDTO{Index: res.BestSell.Index, Date: res.BestSell.Label, Price: res.BestSell.Price},
		Profit:   res.Profit,
		Note:     res.Note,
	}
	if a.Persisted() {
		resp.AnalysisID = a.ID.String()
	}
	return resp
}

// NewAnalysisSummaries maps stored summaries to their API representation.
func NewAnalysisSummaries(in []models.AnalysisSummary) []AnalysisSummaryDTO {
	out := make([]AnalysisSummaryDTO, 0, len(in))
	for _, s := range in {
		out = append(out, AnalysisSummaryDTO{
			ID:         s.ID.String(),
			Source:     s.Source,
			PointCount: s.PointCount,
			BuyIndex:   s.BuyIndex,
			SellIndex:  s.SellIndex,
			Profit:     s.Profit,
			CreatedAt:  s.CreatedAt,
		})
	}
	return out
}

// AnalysisListResponse is the body of GET /api/analyses.
type AnalysisListResponse struct {
	Analyses []AnalysisSummaryDTO `json:"analyses"`
	Count    int                  `json:"count" example:"1"`
}
