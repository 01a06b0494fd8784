package field

import "fmt"

// ErrorKind identifies which validation rule a row failed.
type ErrorKind int

const (
	ParseError ErrorKind = iota
	RequiredFieldEmpty
	InvalidFieldName
	InvalidLabel
	InvalidTypeID
	InvalidInputType
	MissingOptions
)

// RowError is a validation failure for a single CSV row. Row is the
// zero-based data row index; Error() reports it as the 1-based CSV line
// number, accounting for the header row.
type RowError struct {
	Row     int
	Kind    ErrorKind
	Message string
}

func (e *RowError) Error() string {
	// +2: one for the header row, one to convert zero-based to line numbers.
	return fmt.Sprintf("row %d: %s", e.Row+2, e.Message)
}

func rowErr(row int, kind ErrorKind, format string, args ...any) *RowError {
	return &RowError{Row: row, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
