package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soulfoods/morsel/internal/sales"
)

type RecordsModel struct {
	CommonModel
	repo sales.Repository

	table   table.Model
	records []sales.Record

	regions   []string
	regionIdx int

	loading bool
	err     error
}

func NewRecordsModel(repo sales.Repository) RecordsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Region", Width: 14},
		{Title: "Sales", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RecordsModel{
		repo:    repo,
		table:   t,
		loading: true,
	}
}

func (m RecordsModel) Title() string { return "Sales Records" }

func (m RecordsModel) ShortHelp() string {
	return "Esc: back | f: region filter | r: refresh"
}

func (m RecordsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRecordsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.records = msg.records
		m.regions = msg.regions
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			if len(m.regions) > 0 {
				m.regionIdx = (m.regionIdx + 1) % (len(m.regions) + 1)
				return m, m.loadCmd()
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m RecordsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [f] Region: %s | %d records",
		activeStyle(regionLabel(m.regions, m.regionIdx)),
		len(m.records),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			tableView,
		),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *RecordsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			FormatDate(r.Date),
			r.Region,
			FormatAmount(r.Sales),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadRecordsMsg struct {
	records []sales.Record
	regions []string
	err     error
}

func (m RecordsModel) loadCmd() tea.Cmd {
	filter := regionFilter(m.regions, m.regionIdx)

	return func() tea.Msg {
		ctx := context.Background()

		regions, err := m.repo.Regions(ctx)
		if err != nil {
			return loadRecordsMsg{err: err}
		}

		records, err := m.repo.ListRecords(ctx, filter)
		if err != nil {
			return loadRecordsMsg{err: err}
		}

		return loadRecordsMsg{records: records, regions: regions}
	}
}
