package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/tradewindow/internal/domain/models"
	"github.com/guttosm/tradewindow/internal/logger"
	"github.com/guttosm/tradewindow/internal/trade"
)

const maxParallel = 8

// supportedExt lists the file extensions ParseFile understands.
var supportedExt = map[string]struct{}{
	".csv":  {},
	".txt":  {},
	".xlsx": {},
	".json": {},
}

// Analyzer runs the trade search over a parsed series.
// service.TradeService satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, source string, series models.Series) (*models.Analysis, error)
}

// FileResult is the outcome for one file of a batch.
// Exactly one of Analysis and Err is set.
type FileResult struct {
	File     string
	Analysis *models.Analysis
	Err      error
}

// ParseFile reads a series from disk, choosing the parser from the extension:
// .csv/.txt (CSV text), .xlsx (first worksheet), .json ({"series": [...]}).
func ParseFile(path string) (models.Series, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := supportedExt[ext]; !ok {
		return nil, invalidf("unsupported file type %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch ext {
	case ".xlsx":
		return ParseXLSX(f)
	case ".json":
		return DecodeJSON(f)
	default:
		return ParseCSV(f)
	}
}

// ProcessDirectory analyzes every supported file in dir.
//
// Behavior:
//   - Files are processed concurrently, at most `parallel` at a time
//     (0 = min(8, NumCPU); values are clamped to 1..8).
//   - Input problems (*ValidationError, *trade.InsufficientDataError) are
//     recorded on the file's result and do not stop the batch.
//   - Any other error cancels the remaining files and is returned.
//
// Returns:
//   - []FileResult: one entry per file, sorted by file name.
//   - error: first fatal error encountered (if any).
func ProcessDirectory(ctx context.Context, dir string, analyzer Analyzer, parallel int) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := supportedExt[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no supported files (.csv, .txt, .xlsx, .json) in %s", dir)
	}

	limit := resolveParallel(parallel)
	log := logger.Component("ingestion")
	log.Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", limit).Msg("batch start")

	results := make([]FileResult, len(files))

	// errgroup cancels siblings on the first fatal error.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			base := filepath.Base(file)
			results[i].File = base

			series, err := ParseFile(file)
			if err == nil {
				var a *models.Analysis
				a, err = analyzer.Analyze(gctx, "batch:"+base, series)
				results[i].Analysis = a
			}

			if err != nil {
				if isInputError(err) {
					results[i].Err = err
					log.Warn().Str("file", base).Err(err).Msg("file rejected")
					return nil
				}
				log.Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", file, err)
			}

			log.Info().
				Int("idx", i+1).
				Int("total", len(files)).
				Str("file", base).
				Int("points", len(series)).
				Float64("profit", results[i].Analysis.Result.Profit).
				Dur("elapsed", time.Since(start)).
				Msg("file done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func resolveParallel(parallel int) int {
	if parallel > 0 {
		return min(parallel, maxParallel)
	}
	return max(1, min(maxParallel, runtime.NumCPU()))
}

// isInputError reports whether err is caused by the content of a file rather
// than by the system processing it.
func isInputError(err error) bool {
	var ve *ValidationError
	var ide *trade.InsufficientDataError
	return errors.As(err, &ve) || errors.As(err, &ide)
}
