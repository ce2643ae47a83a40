package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/guttosm/tradewindow/internal/domain/models"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T) (*analysisRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &analysisRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

func sampleAnalysis() *models.Analysis {
	return &models.Analysis{
		ID:        uuid.New(),
		Source:    "csv",
		CreatedAt: time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC),
		Result: models.TradeResult{
			Series:   models.Series{{Label: "d1", Price: 3}, {Label: "d2", Price: 1}, {Label: "d3", Price: 4}},
			BestBuy:  models.TradePoint{Index: 1, Label: "d2", Price: 1},
			BestSell: models.TradePoint{Index: 2, Label: "d3", Price: 4},
			Profit:   3,
			Note:     "note",
		},
	}
}

func TestNewAnalysisRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	if r := NewAnalysisRepository(db); r == nil {
		t.Fatalf("expected non-nil repository")
	}
}

func TestSaveAnalysis_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	a := sampleAnalysis()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(sqlmock.AnyArg(), "csv", 3, 1, 2, 3.0, "note", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// pq.CopyIn is driver specific; sqlmock sees it as a plain prepared statement.
	prep := mock.ExpectPrepare(".*")
	for range a.Result.Series {
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0)) // final flush
	mock.ExpectCommit()

	if err := repo.SaveAnalysis(context.Background(), a); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveAnalysis_ErrorPaths(t *testing.T) {
	cases := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
	}{
		{
			name: "begin",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(dummyErr{})
			},
		},
		{
			name: "insert header",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO analyses").WillReturnError(dummyErr{})
				mock.ExpectRollback()
			},
		},
		{
			name: "row exec",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO analyses").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectPrepare(".*").ExpectExec().WillReturnError(dummyErr{})
				mock.ExpectRollback()
			},
		},
		{
			name: "final flush",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO analyses").WillReturnResult(sqlmock.NewResult(0, 1))
				prep := mock.ExpectPrepare(".*")
				for i := 0; i < 3; i++ {
					prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
				}
				mock.ExpectExec(".*").WillReturnError(dummyErr{})
				mock.ExpectRollback()
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, done := newMockRepo(t)
			defer done()
			tc.setup(mock)

			err := repo.SaveAnalysis(context.Background(), sampleAnalysis())
			if !errors.Is(err, dummyErr{}) {
				t.Fatalf("expected wrapped dummy error, got %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestGetAnalysis_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	id := uuid.New()
	created := time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT source, point_count, buy_index, sell_index, profit, note, created_at").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"source", "point_count", "buy_index", "sell_index", "profit", "note", "created_at"}).
			AddRow("json", 3, 1, 2, 3.0, "note", created))
	mock.ExpectQuery("SELECT label, price").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"label", "price"}).
			AddRow("d1", 3.0).AddRow("d2", 1.0).AddRow("d3", 4.0))

	got, err := repo.GetAnalysis(context.Background(), id)
	if err != nil || got == nil {
		t.Fatalf("GetAnalysis: got=%v err=%v", got, err)
	}
	if got.ID != id || got.Source != "json" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected header %+v", got)
	}
	if got.Result.BestBuy != (models.TradePoint{Index: 1, Label: "d2", Price: 1}) {
		t.Fatalf("unexpected buy %+v", got.Result.BestBuy)
	}
	if got.Result.BestSell != (models.TradePoint{Index: 2, Label: "d3", Price: 4}) {
		t.Fatalf("unexpected sell %+v", got.Result.BestSell)
	}
	if len(got.Result.Series) != 3 || got.Result.Profit != 3 {
		t.Fatalf("unexpected result %+v", got.Result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetAnalysis_NotFoundAndCorrupt(t *testing.T) {
	cols := []string{"source", "point_count", "buy_index", "sell_index", "profit", "note", "created_at"}

	t.Run("not found", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()
		mock.ExpectQuery("SELECT source").WillReturnRows(sqlmock.NewRows(cols))

		got, err := repo.GetAnalysis(context.Background(), uuid.New())
		if err != nil || got != nil {
			t.Fatalf("want nil,nil got %v,%v", got, err)
		}
	})

	t.Run("indices out of range", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()
		mock.ExpectQuery("SELECT source").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("csv", 2, 0, 5, 1.0, "n", time.Now()))
		mock.ExpectQuery("SELECT label, price").
			WillReturnRows(sqlmock.NewRows([]string{"label", "price"}).AddRow("a", 1.0).AddRow("b", 2.0))

		if _, err := repo.GetAnalysis(context.Background(), uuid.New()); err == nil {
			t.Fatalf("expected error for inconsistent stored indices")
		}
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()
		mock.ExpectQuery("SELECT source").WillReturnError(dummyErr{})

		if _, err := repo.GetAnalysis(context.Background(), uuid.New()); !errors.Is(err, dummyErr{}) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestListAnalyses_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	id1, id2 := uuid.New(), uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, source, point_count, buy_index, sell_index, profit, created_at").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "source", "point_count", "buy_index", "sell_index", "profit", "created_at"}).
			AddRow(id2.String(), "json", 4, 0, 3, 2.5, now).
			AddRow(id1.String(), "csv", 6, 1, 4, 5.0, now.Add(-time.Minute)))

	out, err := repo.ListAnalyses(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(out) != 2 || out[0].ID != id2 || out[1].ID != id1 || out[1].SellIndex != 4 {
		t.Fatalf("unexpected list %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPing_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(dummyErr{})

	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("first ping: %v", err)
	}
	if err := repo.Ping(context.Background()); err == nil {
		t.Fatalf("expected second ping to fail")
	}
}
