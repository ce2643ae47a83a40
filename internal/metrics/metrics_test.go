package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_IndependentInstances(t *testing.T) {
	// Two registries must not panic on duplicate registration.
	a, b := New(), New()
	a.ObserveAnalysis("csv", 6, 5)
	if got := testutil.ToFloat64(b.Analyses.WithLabelValues("csv", "ok")); got != 0 {
		t.Fatalf("registries share state: %v", got)
	}
}

func TestRegistry_Observations(t *testing.T) {
	r := New()
	r.ObserveAnalysis("json", 4, 2.5)
	r.ObserveAnalysis("json", 10, 0)
	r.ObserveRejected("csv", "invalid_input")
	r.ObserveRequest("/api/process_csv", http.MethodPost, 200, 5*time.Millisecond)

	if got := testutil.ToFloat64(r.Analyses.WithLabelValues("json", "ok")); got != 2 {
		t.Fatalf("json ok count=%v want 2", got)
	}
	if got := testutil.ToFloat64(r.Analyses.WithLabelValues("csv", "invalid_input")); got != 1 {
		t.Fatalf("csv rejected count=%v want 1", got)
	}
	if got := testutil.ToFloat64(r.HTTPRequests.WithLabelValues("/api/process_csv", "POST", "200")); got != 1 {
		t.Fatalf("http count=%v want 1", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.ObserveAnalysis("csv", 6, 5)

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"tradewindow_analyses_total", "tradewindow_series_points_bucket", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
