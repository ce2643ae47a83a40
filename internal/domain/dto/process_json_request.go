package dto

import "encoding/json"

// ProcessJSONRequest is the body accepted by POST /api/process_json.
//
// Series is nil when the key is absent (or null) and empty when an empty list
// was sent; ingestion reports those two cases differently.
type ProcessJSONRequest struct {
	Series []PricePointRequest `json:"series"`
}

// PricePointRequest is one raw entry of the series.
//
// Price is kept raw so that both JSON numbers and numeric strings are accepted
// and a missing price can be told apart from an invalid one.
type PricePointRequest struct {
	Date  string          `json:"date" example:"2024-01-02"`
	Price json.RawMessage `json:"price" swaggertype:"number" example:"101.25"`
}
