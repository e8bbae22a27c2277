package sales

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceRead means a dataset file could not be opened or read.
	ErrSourceRead = errors.New("source unreadable")

	// ErrMalformedPrice means price text survived cleaning but still does
	// not parse as a number.
	ErrMalformedPrice = errors.New("malformed price")

	// ErrMalformedDate means date text does not parse as an ISO date.
	ErrMalformedDate = errors.New("malformed date")

	// ErrNoRows signals that a filter matched no records. It is advisory:
	// operations that return it still return well-formed empty results,
	// the way io.Reader pairs data with io.EOF.
	ErrNoRows = errors.New("no rows match filter")
)

// RowError pins a parse failure to its source file and row. Row is the
// 1-based line number counting the header.
type RowError struct {
	File string
	Row  int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
