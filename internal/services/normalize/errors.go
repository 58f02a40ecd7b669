package normalize

import "fmt"

// InvalidSignalError reports a raw signal field that violates the feed
// contract in a way that cannot be gracefully degraded. It carries the
// offending field name and value for diagnostics.
type InvalidSignalError struct {
	Field string
	Value interface{}
}

func (e *InvalidSignalError) Error() string {
	return fmt.Sprintf("invalid signal field %q: %v", e.Field, e.Value)
}

func invalidField(field string, value interface{}) *InvalidSignalError {
	return &InvalidSignalError{Field: field, Value: value}
}
