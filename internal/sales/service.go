package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sales
type Repository interface {
	ListRecords(ctx context.Context, filter Filter) ([]Record, error)
	Regions(ctx context.Context) ([]string, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Daily returns one total per calendar day, ascending by date.
func (s *Service) Daily(ctx context.Context, filter Filter) ([]DailyTotal, error) {
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return groupByDate(records), nil
}

// Summarize computes the cutover summary for the filtered record set.
func (s *Service) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return summarize(records), nil
}

// Report computes both views of one filtered read: the daily series and
// its summary. When the filter matches nothing it returns an empty series,
// a zero summary and ErrNoRows; callers decide whether that is worth a
// warning.
func (s *Service) Report(ctx context.Context, filter Filter) ([]DailyTotal, *Summary, error) {
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list records: %w", err)
	}

	daily := groupByDate(records)
	summary := summarize(records)

	if len(records) == 0 {
		return daily, summary, ErrNoRows
	}

	return daily, summary, nil
}

// Regions lists the distinct region names in the dataset, ascending.
func (s *Service) Regions(ctx context.Context) ([]string, error) {
	return s.repo.Regions(ctx)
}

func groupByDate(records []Record) []DailyTotal {
	byDate := make(map[time.Time]int64)
	for _, r := range records {
		byDate[r.Date] += r.Sales
	}

	totals := make([]DailyTotal, 0, len(byDate))
	for date, cents := range byDate {
		totals = append(totals, DailyTotal{Date: date, Sales: cents})
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})

	return totals
}

func summarize(records []Record) *Summary {
	sum := &Summary{Comparison: ComparisonAfter}

	days := make(map[time.Time]struct{})

	for _, r := range records {
		sum.TotalSales += r.Sales
		days[r.Date] = struct{}{}

		if r.Date.Before(CutoverDate) {
			sum.BeforeCutoverSales += r.Sales
		} else {
			sum.AfterCutoverSales += r.Sales
		}
	}

	sum.Days = len(days)
	if sum.Days > 0 {
		sum.AverageDailySales = averageCents(sum.TotalSales, sum.Days)
	}

	if sum.BeforeCutoverSales > sum.AfterCutoverSales {
		sum.Comparison = ComparisonBefore
	}

	return sum
}

// averageCents divides a cent total over days, rounding half up to the
// nearest cent.
func averageCents(total int64, days int) int64 {
	avg := decimal.NewFromInt(total).DivRound(decimal.NewFromInt(int64(days)), 0)

	return avg.IntPart()
}
