package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/soulfoods/morsel/internal/sales"
)

const chartHeight = 10

type DashboardModel struct {
	CommonModel
	salesService *sales.Service

	regions   []string
	regionIdx int

	daily   []sales.DailyTotal
	summary *sales.Summary

	loading bool
	err     error
}

func NewDashboardModel(salesSvc *sales.Service) DashboardModel {
	return DashboardModel{
		salesService: salesSvc,
		loading:      true,
	}
}

func (m DashboardModel) Title() string { return "Sales Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | left/right: region | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.regions = msg.regions
		m.daily = msg.daily
		m.summary = msg.summary

		return m, nil

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "left", "h":
			if len(m.regions) > 0 {
				m.regionIdx = (m.regionIdx + len(m.regions)) % (len(m.regions) + 1)
				return m, m.loadCmd()
			}
		case "right", "l":
			if len(m.regions) > 0 {
				m.regionIdx = (m.regionIdx + 1) % (len(m.regions) + 1)
				return m, m.loadCmd()
			}
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading sales data...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [left/right] Region: %s", activeStyle(regionLabel(m.regions, m.regionIdx)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		m.viewChart(),
		"",
		m.viewSummary(),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DashboardModel) viewChart() string {
	if len(m.daily) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No sales data for this selection. Run the pipeline first.")
	}

	values := make([]float64, len(m.daily))
	for i, d := range m.daily {
		values[i] = float64(d.Sales) / 100.0
	}

	width := m.Width - 16
	if width < 60 {
		width = 60
	}

	caption := fmt.Sprintf("%s to %s", FormatDate(m.daily[0].Date), FormatDate(m.daily[len(m.daily)-1].Date))

	return asciigraph.Plot(values,
		asciigraph.Height(chartHeight),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

func (m DashboardModel) viewSummary() string {
	if m.summary == nil {
		return ""
	}

	rows := []string{
		fmt.Sprintf("%-22s %s", "Total Sales:", FormatAmount(m.summary.TotalSales)),
		fmt.Sprintf("%-22s %s", "Average Daily Sales:", FormatAmount(m.summary.AverageDailySales)),
		fmt.Sprintf("%-22s %d", "Days With Sales:", m.summary.Days),
		fmt.Sprintf("%-22s %s", "Sales Before Cutover:", FormatAmount(m.summary.BeforeCutoverSales)),
		fmt.Sprintf("%-22s %s", "Sales After Cutover:", FormatAmount(m.summary.AfterCutoverSales)),
		fmt.Sprintf("%-22s %s", "Higher Sales Period:", m.summary.Comparison),
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(rows, "\n"))
}

// Messages

type dashboardDataMsg struct {
	regions []string
	daily   []sales.DailyTotal
	summary *sales.Summary
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	filter := regionFilter(m.regions, m.regionIdx)

	return func() tea.Msg {
		ctx := context.Background()

		regions, err := m.salesService.Regions(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}

		daily, summary, err := m.salesService.Report(ctx, filter)
		if err != nil && !errors.Is(err, sales.ErrNoRows) {
			return dashboardDataMsg{err: err}
		}

		return dashboardDataMsg{regions: regions, daily: daily, summary: summary}
	}
}

// regionLabel names the cycled region selection; index zero is all regions.
func regionLabel(regions []string, idx int) string {
	if idx <= 0 || idx > len(regions) {
		return "All"
	}

	return regions[idx-1]
}

func regionFilter(regions []string, idx int) sales.Filter {
	if idx <= 0 || idx > len(regions) {
		return sales.Filter{}
	}

	return sales.Filter{Region: regions[idx-1]}
}
