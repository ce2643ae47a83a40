package ingestion

import "fmt"

// ValidationError reports input that cannot be turned into a usable series.
// Its message is safe to return to API clients as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
