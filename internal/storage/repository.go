package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/guttosm/tradewindow/internal/domain/models"
	pq "github.com/lib/pq"
)

// AnalysisRepository defines the contract for analysis history storage.
type AnalysisRepository interface {
	SaveAnalysis(ctx context.Context, a *models.Analysis) error
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error)
	Ping(ctx context.Context) error
}

type analysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// SaveAnalysis stores the analysis header and its series in a single transaction.
// The series is bulk-loaded with COPY.
func (r *analysisRepository) SaveAnalysis(ctx context.Context, a *models.Analysis) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	res := a.Result
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO analyses (id, source, point_count, buy_index, sell_index, profit, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, a.ID, a.Source, len(res.Series), res.BestBuy.Index, res.BestSell.Index, res.Profit, res.Note, a.CreatedAt); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert analysis: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"analysis_points",
		"analysis_id",
		"position",
		"label",
		"price",
	))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare copy: %w", err)
	}

	for i, p := range res.Series {
		if _, err := stmt.ExecContext(ctx, a.ID, i, p.Label, p.Price); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("copy point %d: %w", i, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return fmt.Errorf("flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("close copy: %w", err)
	}

	return tx.Commit()
}

// GetAnalysis loads one analysis with its series. It returns (nil, nil) when
// no analysis has the given id.
func (r *analysisRepository) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	a := models.Analysis{ID: id}
	var pointCount int

	err := r.db.QueryRowContext(ctx, `
		SELECT source, point_count, buy_index, sell_index, profit, note, created_at
		FROM analyses
		WHERE id = $1
	`, id).Scan(
		&a.Source,
		&pointCount,
		&a.Result.BestBuy.Index,
		&a.Result.BestSell.Index,
		&a.Result.Profit,
		&a.Result.Note,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select analysis: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT label, price
		FROM analysis_points
		WHERE analysis_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	series := make(models.Series, 0, pointCount)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Label, &p.Price); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		series = append(series, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points: %w", err)
	}

	buy, sell := a.Result.BestBuy.Index, a.Result.BestSell.Index
	if buy < 0 || sell >= len(series) || buy >= sell {
		return nil, fmt.Errorf("analysis %s: stored indices %d/%d do not fit %d points", id, buy, sell, len(series))
	}

	a.Result.Series = series
	a.Result.BestBuy.Label, a.Result.BestBuy.Price = series[buy].Label, series[buy].Price
	a.Result.BestSell.Label, a.Result.BestSell.Price = series[sell].Label, series[sell].Price
	return &a, nil
}

// ListAnalyses returns the most recent analyses first.
func (r *analysisRepository) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, point_count, buy_index, sell_index, profit, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("select analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.AnalysisSummary
	for rows.Next() {
		var s models.AnalysisSummary
		if err := rows.Scan(&s.ID, &s.Source, &s.PointCount, &s.BuyIndex, &s.SellIndex, &s.Profit, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Ping checks database connectivity (readiness probe).
func (r *analysisRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
