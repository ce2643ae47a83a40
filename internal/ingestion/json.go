package ingestion

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/guttosm/tradewindow/internal/domain/dto"
	"github.com/guttosm/tradewindow/internal/domain/models"
)

// NormalizeJSON validates the entries of a process_json request and converts
// them into a Series, preserving order.
//
// A price may be a JSON number or a numeric string. A missing date becomes an
// empty label.
func NormalizeJSON(entries []dto.PricePointRequest) (models.Series, error) {
	if entries == nil {
		return nil, invalidf("Missing 'series' in JSON body")
	}
	if len(entries) < 2 {
		return nil, invalidf("series must be a list with at least 2 points")
	}

	series := make(models.Series, 0, len(entries))
	for _, e := range entries {
		if len(e.Price) == 0 {
			return nil, invalidf("each entry must have 'price' and 'date'")
		}
		price, ok := parseJSONPrice(e.Price)
		if !ok {
			return nil, invalidf("invalid price: %s", displayRaw(e.Price))
		}
		series = append(series, models.PricePoint{Label: e.Date, Price: price})
	}
	return series, nil
}

// DecodeJSON reads a {"series": [...]} document and normalizes it.
func DecodeJSON(r io.Reader) (models.Series, error) {
	var req dto.ProcessJSONRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, invalidf("invalid JSON body: %v", err)
	}
	return NormalizeJSON(req.Series)
}

func parseJSONPrice(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		return parsePrice(s)
	}
	return parsePrice(string(raw))
}

// displayRaw renders a raw value for error messages, unquoting strings.
func displayRaw(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}
