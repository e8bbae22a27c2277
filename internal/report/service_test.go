package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/soulfoods/morsel/internal/sales"
)

// Fake repository serving a fixed record set.
type fakeRepo struct {
	records []sales.Record
}

func (f *fakeRepo) ListRecords(ctx context.Context, filter sales.Filter) ([]sales.Record, error) {
	var out []sales.Record

	for _, r := range f.records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}

	return out, nil
}

func (f *fakeRepo) Regions(ctx context.Context) ([]string, error) {
	return []string{"north", "south"}, nil
}

func testService() *Service {
	repo := &fakeRepo{records: []sales.Record{
		{Sales: 10000, Date: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC), Region: "north"},
		{Sales: 20000, Date: time.Date(2021, 1, 20, 0, 0, 0, 0, time.UTC), Region: "north"},
		{Sales: 5000, Date: time.Date(2021, 1, 10, 0, 0, 0, 0, time.UTC), Region: "south"},
	}}

	return NewService(sales.NewService(repo))
}

func TestService_CSV(t *testing.T) {
	svc := testService()

	var buf bytes.Buffer
	if err := svc.CSV(context.Background(), sales.Filter{Region: "north"}, &buf); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	got := buf.String()

	expectedLines := []string{
		"Metric,Value",
		"Region,north",
		"Total Sales,300.00",
		"Average Daily Sales,150.00",
		"Days,2",
		"Sales Before Cutover,100.00",
		"Sales After Cutover,200.00",
		"Higher Sales Period,after",
		"Date,Sales",
		"2021-01-10,100.00",
		"2021-01-20,200.00",
	}

	for _, line := range expectedLines {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("expected report to contain line %q, got:\n%s", line, got)
		}
	}
}

func TestService_CSV_EmptyFilter(t *testing.T) {
	svc := testService()

	var buf bytes.Buffer
	if err := svc.CSV(context.Background(), sales.Filter{Region: "nowhere"}, &buf); err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	got := buf.String()

	// An empty result still yields a well-formed report.
	if !strings.Contains(got, "Total Sales,0.00\n") {
		t.Errorf("expected zero total, got:\n%s", got)
	}

	if !strings.Contains(got, "Days,0\n") {
		t.Errorf("expected zero days, got:\n%s", got)
	}
}

func TestService_Excel(t *testing.T) {
	svc := testService()

	f, err := svc.Excel(context.Background(), sales.Filter{})
	if err != nil {
		t.Fatalf("Excel failed: %v", err)
	}

	total, err := f.GetCellValue(summarySheet, "B3")
	if err != nil {
		t.Fatalf("reading total cell: %v", err)
	}

	if total != "350.00" {
		t.Errorf("expected total 350.00, got %q", total)
	}

	firstDate, err := f.GetCellValue(dailySheet, "A2")
	if err != nil {
		t.Fatalf("reading date cell: %v", err)
	}

	if firstDate != "2021-01-10" {
		t.Errorf("expected first date 2021-01-10, got %q", firstDate)
	}
}

func TestService_WriteFile(t *testing.T) {
	svc := testService()
	dir := t.TempDir()

	path, err := svc.WriteFile(context.Background(), sales.Filter{Region: "north"}, dir, FormatXLSX)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), "sales_report_north_") {
		t.Errorf("unexpected file name: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	region, err := f.GetCellValue(summarySheet, "B2")
	if err != nil {
		t.Fatalf("reading region cell: %v", err)
	}

	if region != "north" {
		t.Errorf("expected region north, got %q", region)
	}
}

func TestService_WriteFile_UnknownFormat(t *testing.T) {
	svc := testService()

	_, err := svc.WriteFile(context.Background(), sales.Filter{}, t.TempDir(), Format("pdf"))
	if err == nil {
		t.Fatal("expected error for unknown format")
	}

	if !strings.Contains(err.Error(), "unknown report format") {
		t.Errorf("unexpected error: %v", err)
	}
}
