package sales

import (
	"time"

	"github.com/soulfoods/morsel/internal/sales"
)

// Money is carried as cents throughout the API; dates as ISO strings.
type dailyResponse struct {
	Date  string `json:"date"`
	Sales int64  `json:"sales"`
}

type summaryResponse struct {
	Region             string           `json:"region"`
	TotalSales         int64            `json:"total_sales"`
	AverageDailySales  int64            `json:"average_daily_sales"`
	BeforeCutoverSales int64            `json:"before_cutover_sales"`
	AfterCutoverSales  int64            `json:"after_cutover_sales"`
	Days               int              `json:"days"`
	Comparison         sales.Comparison `json:"comparison"`
}

type reportResponse struct {
	Daily   []dailyResponse `json:"daily"`
	Summary summaryResponse `json:"summary"`
}

type regionsResponse struct {
	Regions []string `json:"regions"`
}

func toRegionsResponse(regions []string) regionsResponse {
	if regions == nil {
		regions = []string{}
	}

	return regionsResponse{Regions: regions}
}

func toDailyList(daily []sales.DailyTotal) []dailyResponse {
	resp := make([]dailyResponse, len(daily))
	for i, d := range daily {
		resp[i] = dailyResponse{
			Date:  d.Date.Format(time.DateOnly),
			Sales: d.Sales,
		}
	}

	return resp
}

func toSummaryResponse(filter sales.Filter, summary *sales.Summary) summaryResponse {
	region := filter.Region
	if region == "" {
		region = "all"
	}

	return summaryResponse{
		Region:             region,
		TotalSales:         summary.TotalSales,
		AverageDailySales:  summary.AverageDailySales,
		BeforeCutoverSales: summary.BeforeCutoverSales,
		AfterCutoverSales:  summary.AfterCutoverSales,
		Days:               summary.Days,
		Comparison:         summary.Comparison,
	}
}
