package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	enc "github.com/soulfoods/morsel/internal/encoding"
	"github.com/soulfoods/morsel/internal/sales"
)

const (
	colProduct  = "product"
	colQuantity = "quantity"
	colPrice    = "price"
	colDate     = "date"
	colRegion   = "region"
)

var requiredCols = []string{colProduct, colQuantity, colPrice, colDate, colRegion}

// Parser reads one raw daily extract and keeps the rows for the tracked
// product. Column order is not assumed: the header row is located by
// matching column names, case-insensitively, so extracts with extra or
// reordered columns still parse.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseResult carries the records kept from one extract plus the scanned
// row count for run reporting.
type ParseResult struct {
	Records  []sales.Record
	RowsRead int
}

// Parse reads the extract from r. The file name is only used for error
// context.
func (p *Parser) Parse(r io.Reader, file string) (*ParseResult, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: detect encoding: %w", file, err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: read csv: %w", file, err)
	}

	cols, headerIdx := detectHeader(rows)
	if cols == nil {
		return nil, fmt.Errorf("%s: %w (want %s)", file, ErrMissingColumns, strings.Join(requiredCols, ", "))
	}

	return parseRows(cols, rows[headerIdx+1:], file, headerIdx+2)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectHeader scans rows for one naming every required column. Returns
// the column index map and the header row index.
func detectHeader(rows [][]string) (colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		if matchesHeader(cols) {
			return cols, rowIdx
		}
	}

	return nil, 0
}

func matchesHeader(cols colIndex) bool {
	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts records from the data rows. firstRow is the 1-based
// file line of the first data row, used for error context. Rows for other
// products are discarded; a kept row that fails to parse aborts the whole
// extract.
func parseRows(cols colIndex, rows [][]string, file string, firstRow int) (*ParseResult, error) {
	productIdx := cols[colProduct]
	quantityIdx := cols[colQuantity]
	priceIdx := cols[colPrice]
	dateIdx := cols[colDate]
	regionIdx := cols[colRegion]

	res := &ParseResult{}

	for i, row := range rows {
		rowNum := firstRow + i

		product := cellValue(row, productIdx)
		if product == "" {
			// Footer or padding row.
			continue
		}

		res.RowsRead++

		if !strings.EqualFold(product, Product) {
			continue
		}

		rawQuantity := cellValue(row, quantityIdx)

		quantity, err := strconv.ParseInt(rawQuantity, 10, 64)
		if err != nil {
			return nil, &sales.RowError{
				File: file,
				Row:  rowNum,
				Err:  fmt.Errorf("%w: %q", ErrMalformedQuantity, rawQuantity),
			}
		}

		price, err := parsePrice(cellValue(row, priceIdx))
		if err != nil {
			return nil, &sales.RowError{File: file, Row: rowNum, Err: err}
		}

		rawDate := cellValue(row, dateIdx)

		date, err := time.Parse(time.DateOnly, rawDate)
		if err != nil {
			return nil, &sales.RowError{
				File: file,
				Row:  rowNum,
				Err:  fmt.Errorf("%w: %q", sales.ErrMalformedDate, rawDate),
			}
		}

		res.Records = append(res.Records, sales.Record{
			Sales:  salesCents(price, quantity),
			Date:   date,
			Region: cellValue(row, regionIdx),
		})
	}

	return res, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
