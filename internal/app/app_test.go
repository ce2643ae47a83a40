package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/tradewindow/config"
)

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = old })
}

func baseConfig() config.Config {
	return config.Config{Server: config.ServerConfig{
		Port:           "0",
		RequestTimeout: time.Second,
		MaxUploadBytes: 1 << 20,
		AllowedOrigins: []string{"*"},
	}}
}

func TestInitializeApp_WithoutHistory(t *testing.T) {
	withConfig(t, baseConfig())

	router, cleanup, err := InitializeApp(context.Background())
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	for path, want := range map[string]int{
		"/healthz":      http.StatusOK,
		"/readyz":       http.StatusOK,
		"/metrics":      http.StatusOK,
		"/api/analyses": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != want {
			t.Fatalf("%s status=%d want %d", path, w.Code, want)
		}
	}

	w := httptest.NewRecorder()
	body := `{"series":[{"date":"a","price":1},{"date":"b","price":3}]}`
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/process_json", strings.NewReader(body)))
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), "analysis_id") {
		t.Fatalf("process_json status=%d body=%s", w.Code, w.Body.String())
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.History.Enabled = true
	withConfig(t, cfg)

	old := postgresOpener
	postgresOpener = func(context.Context, config.Config) (*sql.DB, error) { return nil, errors.New("no db") }
	t.Cleanup(func() { postgresOpener = old })

	r, cleanup, err := InitializeApp(context.Background())
	if err == nil || r != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with unreachable DB")
	}
}

func TestInitializeApp_MigrationFailure(t *testing.T) {
	cfg := baseConfig()
	cfg.History.Enabled = true
	withConfig(t, cfg)

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(context.Context, config.Config) (*sql.DB, error) { return db, nil }
	migrator = func(*sql.DB) error { return errors.New("bad schema") }
	t.Cleanup(func() { postgresOpener, migrator = oldOpen, oldMigrate })

	if _, _, err := InitializeApp(context.Background()); err == nil || !strings.Contains(err.Error(), "bad schema") {
		t.Fatalf("expected migration error, got %v", err)
	}
}

func TestInitializeApp_WithHistory(t *testing.T) {
	cfg := baseConfig()
	cfg.History.Enabled = true
	withConfig(t, cfg)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	// readiness probe
	mock.ExpectPing()
	mock.ExpectQuery("SELECT id, source").
		WillReturnRows(sqlmock.NewRows([]string{"id", "source", "point_count", "buy_index", "sell_index", "profit", "created_at"}))

	oldOpen, oldMigrate := postgresOpener, migrator
	postgresOpener = func(context.Context, config.Config) (*sql.DB, error) { return db, nil }
	migrated := false
	migrator = func(*sql.DB) error { migrated = true; return nil }
	t.Cleanup(func() {
		postgresOpener, migrator = oldOpen, oldMigrate
		_ = db.Close()
	})

	router, cleanup, err := InitializeApp(context.Background())
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	if !migrated {
		t.Fatalf("migrations should run when history is enabled")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analyses", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"count":0`) {
		t.Fatalf("analyses status=%d body=%s", w.Code, w.Body.String())
	}

	cleanup()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBuildService(t *testing.T) {
	svc, cleanup, err := BuildService(context.Background(), baseConfig(), nil)
	if err != nil || svc == nil || cleanup == nil {
		t.Fatalf("BuildService failed: %v", err)
	}
	defer cleanup()
	if svc.HistoryEnabled() {
		t.Fatalf("history should be disabled")
	}
}
