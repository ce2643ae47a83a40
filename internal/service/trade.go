package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/tradewindow/internal/domain/models"
	"github.com/guttosm/tradewindow/internal/logger"
	"github.com/guttosm/tradewindow/internal/metrics"
	"github.com/guttosm/tradewindow/internal/storage"
	"github.com/guttosm/tradewindow/internal/trade"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ErrHistoryDisabled is returned by history lookups when no repository is configured.
var ErrHistoryDisabled = errors.New("analysis history is disabled")

// TradeService defines business logic for finding the best trade in a series.
type TradeService interface {
	Analyze(ctx context.Context, source string, series models.Series) (*models.Analysis, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error)
	HistoryEnabled() bool
}

type tradeService struct {
	repo    storage.AnalysisRepository
	metrics *metrics.Registry
	now     func() time.Time
}

// NewTradeService builds the service. repo and m may be nil: without a
// repository analyses are not persisted, without a registry nothing is measured.
func NewTradeService(repo storage.AnalysisRepository, m *metrics.Registry) TradeService {
	return &tradeService{repo: repo, metrics: m, now: time.Now}
}

// Analyze runs the trade search. When history is enabled the analysis is
// stored and gets an ID; otherwise the ID stays uuid.Nil.
func (s *tradeService) Analyze(ctx context.Context, source string, series models.Series) (*models.Analysis, error) {
	label := sourceLabel(source)

	res, err := trade.FindBestTrade(series)
	if err != nil {
		if s.metrics != nil {
			var ide *trade.InsufficientDataError
			if errors.As(err, &ide) {
				s.metrics.ObserveRejected(label, "insufficient_data")
			}
		}
		return nil, err
	}

	a := &models.Analysis{
		Source:    source,
		CreatedAt: s.now().UTC(),
		Result:    *res,
	}

	if s.repo != nil {
		a.ID = uuid.New()
		if err := s.repo.SaveAnalysis(ctx, a); err != nil {
			return nil, fmt.Errorf("save analysis: %w", err)
		}
		logger.Component("service").Debug().
			Str("id", a.ID.String()).
			Str("source", source).
			Int("points", len(series)).
			Msg("analysis stored")
	}

	if s.metrics != nil {
		s.metrics.ObserveAnalysis(label, len(series), res.Profit)
	}
	return a, nil
}

// GetAnalysis returns (nil, nil) when the id is unknown.
func (s *tradeService) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.GetAnalysis(ctx, id)
}

// ListAnalyses clamps limit to 1..MaxListLimit; limit <= 0 means DefaultListLimit.
func (s *tradeService) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	if s.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.repo.ListAnalyses(ctx, clampLimit(limit))
}

func (s *tradeService) HistoryEnabled() bool {
	return s.repo != nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// sourceLabel keeps metric cardinality bounded: "batch:prices.csv" -> "batch".
func sourceLabel(source string) string {
	if i := strings.IndexByte(source, ':'); i >= 0 {
		source = source[:i]
	}
	if source == "" {
		return "unknown"
	}
	return source
}
