package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingValues is returned by analyses that need a complete matrix.
	ErrMissingValues = errors.New("data contains missing values, consider imputation")
	// ErrNoSampleOverlap is returned when metadata and matrix share no sample.
	ErrNoSampleOverlap = errors.New("metadata does not match proteomics data")
	// ErrDuplicateSample is returned when metadata sample names repeat.
	ErrDuplicateSample = errors.New("sample names have to be unique")
	// ErrUnsupportedMethod is returned for method names a routine does not implement.
	ErrUnsupportedMethod = errors.New("method is not available")
	// ErrUnsupportedFormat is returned for file extensions no reader handles.
	ErrUnsupportedFormat = errors.New("file has to be a .xlsx, .tsv, .csv or .txt file")
	// ErrUnknownColumn is returned when a named column is absent.
	ErrUnknownColumn = errors.New("column not found")
)

// ValidationError represents an error found while validating input tables.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// UnsupportedMethod builds an ErrUnsupportedMethod error listing the accepted names.
func UnsupportedMethod(method string, choices string) error {
	return fmt.Errorf("%w: %q, please select from %s", ErrUnsupportedMethod, method, choices)
}
