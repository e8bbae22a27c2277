// Package report renders the sales dataset into files people actually
// send around: a CSV for spreadsheets and scripts, an XLSX workbook for
// everyone else.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/soulfoods/morsel/internal/sales"
	"github.com/soulfoods/morsel/internal/sales/store"
)

// Format selects the report file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily Sales"
)

// ParseFormat validates a format name from the outside world. Empty input
// defaults to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("unknown report format: %s", s)
}

// Service builds sales reports on top of the aggregation service.
type Service struct {
	sales *sales.Service
}

func NewService(salesService *sales.Service) *Service {
	return &Service{sales: salesService}
}

// CSV writes the report for the filtered dataset to w: a summary block,
// a blank separator line, then the daily series.
func (s *Service) CSV(ctx context.Context, filter sales.Filter, w io.Writer) error {
	daily, summary, err := s.build(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	for _, row := range summaryRows(filter, summary) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if err := cw.Write(nil); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, row := range dailyRows(daily) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing daily series: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Excel builds an XLSX workbook with a Summary sheet and a Daily Sales
// sheet.
func (s *Service) Excel(ctx context.Context, filter sales.Filter) (*excelize.File, error) {
	daily, summary, err := s.build(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	if err := writeSheet(f, summarySheet, summaryRows(filter, summary)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	if err := writeSheet(f, dailySheet, dailyRows(daily)); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteFile renders the report into dir and returns the written path.
// File names carry a timestamp and a short run id so repeated exports
// never collide.
func (s *Service) WriteFile(ctx context.Context, filter sales.Filter, dir string, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, fileName(filter, format))

	switch format {
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("creating report file: %w", err)
		}

		if err := s.CSV(ctx, filter, f); err != nil {
			f.Close()
			return "", err
		}

		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing report file: %w", err)
		}

		return path, nil

	case FormatXLSX:
		f, err := s.Excel(ctx, filter)
		if err != nil {
			return "", err
		}

		if err := f.SaveAs(path); err != nil {
			return "", fmt.Errorf("saving report file: %w", err)
		}

		return path, nil

	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

// build fetches both report views. ErrNoRows is advisory: an empty
// dataset still produces a valid, mostly zero report.
func (s *Service) build(ctx context.Context, filter sales.Filter) ([]sales.DailyTotal, *sales.Summary, error) {
	daily, summary, err := s.sales.Report(ctx, filter)
	if err != nil && !errors.Is(err, sales.ErrNoRows) {
		return nil, nil, fmt.Errorf("building report: %w", err)
	}

	return daily, summary, nil
}

func summaryRows(filter sales.Filter, summary *sales.Summary) [][]string {
	return [][]string{
		{"Metric", "Value"},
		{"Region", regionLabel(filter)},
		{"Total Sales", store.FormatCents(summary.TotalSales)},
		{"Average Daily Sales", store.FormatCents(summary.AverageDailySales)},
		{"Days", strconv.Itoa(summary.Days)},
		{"Sales Before Cutover", store.FormatCents(summary.BeforeCutoverSales)},
		{"Sales After Cutover", store.FormatCents(summary.AfterCutoverSales)},
		{"Higher Sales Period", string(summary.Comparison)},
	}
}

func dailyRows(daily []sales.DailyTotal) [][]string {
	rows := make([][]string, 0, len(daily)+1)
	rows = append(rows, []string{"Date", "Sales"})

	for _, d := range daily {
		rows = append(rows, []string{d.Date.Format(time.DateOnly), store.FormatCents(d.Sales)})
	}

	return rows
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}

		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	return nil
}

func regionLabel(filter sales.Filter) string {
	if filter.Region == "" {
		return "all"
	}

	return filter.Region
}

// fileName builds names like sales_report_north_20210115_104500_1a2b3c4d.csv.
func fileName(filter sales.Filter, format Format) string {
	label := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, regionLabel(filter))

	stamp := time.Now().UTC().Format("20060102_150405")
	runID := uuid.New().String()[:8]

	return fmt.Sprintf("sales_report_%s_%s_%s.%s", label, stamp, runID, format)
}
