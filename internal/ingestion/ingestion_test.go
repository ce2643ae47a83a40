package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/guttosm/tradewindow/internal/domain/models"
	"github.com/guttosm/tradewindow/internal/trade"
)

// fakeAnalyzer runs the real finder and records which sources it saw.
type fakeAnalyzer struct {
	mu      sync.Mutex
	sources []string
	failOn  string
	err     error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, source string, series models.Series) (*models.Analysis, error) {
	f.mu.Lock()
	f.sources = append(f.sources, source)
	f.mu.Unlock()

	if f.failOn != "" && strings.HasSuffix(source, f.failOn) {
		return nil, f.err
	}
	res, err := trade.FindBestTrade(series)
	if err != nil {
		return nil, err
	}
	return &models.Analysis{Source: source, Result: *res}, nil
}

func writeFile(t *testing.T, dir, name string, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestParseFile_ByExtension(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name    string
		content string
		profit  float64
		wantErr bool
	}{
		{name: "a.csv", content: "date,price\nd1,7\nd2,1\nd3,5\nd4,3\nd5,6\nd6,4\n", profit: 5},
		{name: "b.TXT", content: "d1,1\nd2,3\n", profit: 2},
		{name: "c.json", content: `{"series":[{"date":"d1","price":5},{"date":"d2","price":"9"}]}`, profit: 4},
		{name: "d.json", content: `{"series":[{"date":"d1"}]}`, wantErr: true},
		{name: "e.md", content: "d1,1\nd2,2\n", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			series, err := ParseFile(writeFile(t, dir, tc.name, tc.content))
			if tc.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			res, err := trade.FindBestTrade(series)
			if err != nil || res.Profit != tc.profit {
				t.Fatalf("profit: want %v got %+v err=%v", tc.profit, res, err)
			}
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"))
	var ve *ValidationError
	if err == nil || errors.As(err, &ve) {
		t.Fatalf("expected plain I/O error, got %v", err)
	}
}

func TestProcessDirectory_RecordsPerFileResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_prices.csv", "date,price\nd1,7\nd2,1\nd3,5\nd4,3\nd5,6\nd6,4\n")
	writeFile(t, dir, "a_prices.csv", "d1,7\nd2,6\nd3,4\n")
	writeFile(t, dir, "c_bad.csv", "date,price\nd1,abc\nd2,1\n")
	writeFile(t, dir, "notes.md", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	fa := &fakeAnalyzer{}
	results, err := ProcessDirectory(context.Background(), dir, fa, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d: %+v", len(results), results)
	}

	wantFiles := []string{"a_prices.csv", "b_prices.csv", "c_bad.csv"}
	for i, f := range wantFiles {
		if results[i].File != f {
			t.Fatalf("result %d: want file %s got %s", i, f, results[i].File)
		}
	}

	if r := results[0]; r.Err != nil || r.Analysis.Result.Profit != 0 || r.Analysis.Result.BestSell.Index != 1 {
		t.Fatalf("a_prices: unexpected %+v", r)
	}
	if r := results[1]; r.Err != nil || r.Analysis.Result.Profit != 5 || r.Analysis.Source != "batch:b_prices.csv" {
		t.Fatalf("b_prices: unexpected %+v", r)
	}
	var ve *ValidationError
	if r := results[2]; r.Analysis != nil || !errors.As(r.Err, &ve) {
		t.Fatalf("c_bad: expected validation error, got %+v", r)
	}
	if len(fa.sources) != 2 {
		t.Fatalf("analyzer should only see parsed files, saw %v", fa.sources)
	}
}

func TestProcessDirectory_FatalErrorStopsBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "d1,1\nd2,2\n")
	writeFile(t, dir, "b.csv", "d1,1\nd2,2\n")

	fa := &fakeAnalyzer{failOn: "b.csv", err: errors.New("db down")}
	if _, err := ProcessDirectory(context.Background(), dir, fa, 1); err == nil || !strings.Contains(err.Error(), "db down") {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestProcessDirectory_EmptyAndMissingDir(t *testing.T) {
	if _, err := ProcessDirectory(context.Background(), t.TempDir(), &fakeAnalyzer{}, 0); err == nil {
		t.Fatalf("expected error for directory without supported files")
	}
	if _, err := ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), &fakeAnalyzer{}, 0); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestProcessDirectory_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "d1,1\nd2,2\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ProcessDirectory(ctx, dir, &fakeAnalyzer{}, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestResolveParallel(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{in: 1, want: 1},
		{in: 3, want: 3},
		{in: 50, want: maxParallel},
		{in: 0, want: max(1, min(maxParallel, runtime.NumCPU()))},
		{in: -2, want: max(1, min(maxParallel, runtime.NumCPU()))},
	}
	for _, c := range cases {
		if got := resolveParallel(c.in); got != c.want {
			t.Fatalf("resolveParallel(%d)=%d want %d", c.in, got, c.want)
		}
	}
}
