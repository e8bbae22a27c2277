// Package store persists the unified sales dataset as a CSV artifact and
// serves reads from an in-memory copy loaded once at startup.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/soulfoods/morsel/internal/sales"
)

// header is the artifact contract: exactly these columns, in this order.
var header = []string{"Sales", "Date", "Region"}

type Store struct {
	path string

	// Immutable after Load, safe for concurrent reads.
	records []sales.Record
	regions []string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the artifact into memory. It is called once at startup; the
// dataset never changes while a reader is running.
func (s *Store) Load(ctx context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", sales.ErrSourceRead, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %v", sales.ErrSourceRead, err)
	}

	file := filepath.Base(s.path)

	if len(rows) == 0 || !slices.Equal(rows[0], header) {
		return fmt.Errorf("%s: unexpected artifact header", file)
	}

	records := make([]sales.Record, 0, len(rows)-1)

	for i, row := range rows[1:] {
		rowNum := i + 2

		if len(row) != len(header) {
			return &sales.RowError{
				File: file,
				Row:  rowNum,
				Err:  fmt.Errorf("expected %d columns, got %d", len(header), len(row)),
			}
		}

		cents, err := parseCents(row[0])
		if err != nil {
			return &sales.RowError{File: file, Row: rowNum, Err: err}
		}

		date, err := time.Parse(time.DateOnly, row[1])
		if err != nil {
			return &sales.RowError{
				File: file,
				Row:  rowNum,
				Err:  fmt.Errorf("%w: %q", sales.ErrMalformedDate, row[1]),
			}
		}

		records = append(records, sales.Record{Sales: cents, Date: date, Region: row[2]})
	}

	s.records = records
	s.regions = distinctRegions(records)

	return nil
}

// Len reports how many records the loaded dataset holds.
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) ListRecords(ctx context.Context, filter sales.Filter) ([]sales.Record, error) {
	records := make([]sales.Record, 0, len(s.records))

	for _, r := range s.records {
		if filter.Matches(r) {
			records = append(records, r)
		}
	}

	return records, nil
}

func (s *Store) Regions(ctx context.Context) ([]string, error) {
	return slices.Clone(s.regions), nil
}

// Write renders records as the unified artifact at path. The write is
// atomic: rows land in a temp file that then replaces path, so a failed
// run never leaves a partial artifact behind.
func Write(path string, records []sales.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)

	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{FormatCents(r.Sales), r.Date.Format(time.DateOnly), r.Region}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write record: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush artifact: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}

	return nil
}

// FormatCents renders a cent amount with two decimals, the way the
// artifact stores it.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// parseCents reads an artifact sales value back into cents.
func parseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", sales.ErrMalformedPrice, s)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func distinctRegions(records []sales.Record) []string {
	seen := make(map[string]struct{})

	var regions []string

	for _, r := range records {
		if _, ok := seen[r.Region]; ok {
			continue
		}

		seen[r.Region] = struct{}{}
		regions = append(regions, r.Region)
	}

	sort.Strings(regions)

	return regions
}
