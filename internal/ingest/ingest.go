// Package ingest turns raw daily sales extracts into the unified dataset.
// Extracts are CSV snapshots dropped by the retail system; the pipeline
// filters them to the one product line we track, derives sale values and
// writes a single normalized artifact.
package ingest

import "errors"

// Product is the product line the pipeline keeps. Matching is
// case-insensitive; every other product is discarded.
const Product = "pink morsel"

var (
	// ErrNoExtracts means the data directory held no raw extract files.
	ErrNoExtracts = errors.New("no raw extracts found")

	// ErrMissingColumns means an extract header lacks a required column.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrMalformedQuantity means quantity text does not parse as an
	// integer.
	ErrMalformedQuantity = errors.New("malformed quantity")
)
