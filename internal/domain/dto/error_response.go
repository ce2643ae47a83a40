package dto

import "time"

// ErrorResponse is the JSON body returned for every failed request.
//
// Message is serialized under "error" so clients can rely on a single key;
// ErrorDetails carries the underlying cause when one is available.
type ErrorResponse struct {
	Message      string    `json:"error" example:"CSV must contain at least two data rows"`
	ErrorDetails string    `json:"details,omitempty" example:"strconv.ParseFloat: parsing \"abc\": invalid syntax"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-12T10:00:00Z"`
}

// Error implements the error interface.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current UTC time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
