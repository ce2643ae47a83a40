package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/guttosm/tradewindow/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseCSV reads "date,price" rows into a Series.
//
// Rules:
//   - blank or all-whitespace rows are dropped before anything else;
//   - the first remaining row is a header (and skipped) only if its second
//     column does not parse as a number;
//   - rows with fewer than two columns are ignored;
//   - any unparsable or non-finite price fails the whole input.
//
// All failures are *ValidationError.
func ParseCSV(r io.Reader) (models.Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(data) == 0 {
		return nil, invalidf("Empty CSV")
	}
	if !utf8.Valid(data) {
		return nil, invalidf("CSV must be UTF-8 encoded text")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1 // column count is checked per row
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, invalidf("Malformed CSV: %v", err)
	}
	return seriesFromRows(rows, "No CSV rows found", "CSV must contain at least two data rows")
}

// ParseXLSX reads the first worksheet of a spreadsheet with the same row
// rules as ParseCSV.
func ParseXLSX(r io.Reader) (models.Series, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalidf("Unreadable spreadsheet: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalidf("No spreadsheet rows found")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, invalidf("Unreadable spreadsheet: %v", err)
	}
	return seriesFromRows(rows, "No spreadsheet rows found", "Spreadsheet must contain at least two data rows")
}

// ParseUpload picks the parser from the uploaded file name: ".xlsx" files go
// through ParseXLSX, everything else is treated as CSV text.
func ParseUpload(filename string, r io.Reader) (models.Series, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return ParseXLSX(r)
	}
	return ParseCSV(r)
}

func seriesFromRows(rows [][]string, noRowsMsg, tooFewMsg string) (models.Series, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, invalidf("%s", noRowsMsg)
	}

	if isHeader(rows[0]) {
		rows = rows[1:]
	}

	series := make(models.Series, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		price, ok := parsePrice(row[1])
		if !ok {
			return nil, invalidf("Invalid price value: %s", row[1])
		}
		series = append(series, models.PricePoint{
			Label: strings.TrimSpace(row[0]),
			Price: price,
		})
	}

	if len(series) < 2 {
		return nil, invalidf("%s", tooFewMsg)
	}
	return series, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// isHeader reports whether the first row is a header: it has a second column
// and that column is not numeric.
func isHeader(row []string) bool {
	if len(row) < 2 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	return err != nil
}

func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
