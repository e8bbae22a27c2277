package sales

import (
	"strings"
	"time"
)

// CutoverDate is the day the pink morsel price went up. Sales strictly
// before this date fall in the "before" bucket, everything on or after it
// in the "after" bucket.
var CutoverDate = time.Date(2021, time.January, 15, 0, 0, 0, 0, time.UTC)

// Comparison states which side of the cutover sold more.
type Comparison string

const (
	ComparisonBefore Comparison = "before"
	ComparisonAfter  Comparison = "after"
)

// Record is one processed row of the unified sales dataset.
type Record struct {
	Sales  int64 // Sales in cents
	Date   time.Time
	Region string
}

// DailyTotal is the summed sales figure for one calendar day.
type DailyTotal struct {
	Date  time.Time
	Sales int64 // cents
}

// Summary aggregates a filtered record set around the cutover date.
type Summary struct {
	TotalSales         int64
	AverageDailySales  int64
	BeforeCutoverSales int64
	AfterCutoverSales  int64
	Days               int
	Comparison         Comparison
}

// Filter narrows queries to a single region. The zero value matches every
// record.
type Filter struct {
	Region string
}

// Matches reports whether the record passes the filter. Region matching is
// case-insensitive; stored region text is never modified.
func (f Filter) Matches(r Record) bool {
	return f.Region == "" || strings.EqualFold(f.Region, r.Region)
}
