package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/soulfoods/morsel/internal/report"
	"github.com/soulfoods/morsel/internal/sales"
)

const reportTimeout = 2 * time.Minute

type reportState int

const (
	reportStateLoading reportState = iota
	reportStateForm
	reportStateGenerating
	reportStateResult
)

type ReportModel struct {
	CommonModel
	reportService *report.Service
	salesService  *sales.Service

	state reportState
	form  *huh.Form

	dir     string
	spinner spinner.Model

	path string
	err  error
}

func NewReportModel(reportSvc *report.Service, salesSvc *sales.Service, dir string) ReportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportModel{
		reportService: reportSvc,
		salesService:  salesSvc,
		dir:           dir,
		spinner:       s,
	}
}

func (m ReportModel) Title() string { return "Export Report" }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateResult:
		return "Esc: back to menu"
	case reportStateGenerating:
		return "Generating..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ReportModel) Init() tea.Cmd {
	return m.loadRegionsCmd()
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if regionsMsg, ok := msg.(reportRegionsMsg); ok {
		if regionsMsg.err != nil {
			m.state = reportStateResult
			m.err = regionsMsg.err
			return m, nil
		}

		m.form = m.buildForm(regionsMsg.regions)
		m.state = reportStateForm
		return m, m.form.Init()
	}

	switch m.state {
	case reportStateForm:
		return m.updateForm(msg)
	case reportStateGenerating:
		return m.updateGenerating(msg)
	case reportStateResult:
		return m.updateResult(msg)
	}

	// reportStateLoading
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m ReportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	region := m.form.GetString("region")
	if region == "all" {
		region = ""
	}

	format, err := report.ParseFormat(m.form.GetString("format"))
	if err != nil {
		m.state = reportStateResult
		m.err = err
		return m, nil
	}

	dir := m.form.GetString("dir")
	if dir == "" {
		dir = m.dir
	}

	m.state = reportStateGenerating
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.writeReportCmd(sales.Filter{Region: region}, dir, format))
}

func (m ReportModel) updateGenerating(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(reportDoneMsg); ok {
		m.state = reportStateResult
		m.path = result.path
		m.err = result.err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ReportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m ReportModel) buildForm(regions []string) *huh.Form {
	options := append([]string{"all"}, regions...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("region").
				Title("Region").
				Options(huh.NewOptions(options...)...),

			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(huh.NewOptions(string(report.FormatCSV), string(report.FormatXLSX))...),

			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Value(&m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ReportModel) View() string {
	switch m.state {
	case reportStateLoading:
		return lipgloss.NewStyle().Padding(1).Render("Loading regions...")

	case reportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case reportStateGenerating:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Writing report...", m.spinner.View()),
		)

	case reportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ReportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Report Written!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.path,
		),
	)
}

// Messages

type reportRegionsMsg struct {
	regions []string
	err     error
}

func (m ReportModel) loadRegionsCmd() tea.Cmd {
	return func() tea.Msg {
		regions, err := m.salesService.Regions(context.Background())
		return reportRegionsMsg{regions: regions, err: err}
	}
}

type reportDoneMsg struct {
	path string
	err  error
}

func (m ReportModel) writeReportCmd(filter sales.Filter, dir string, format report.Format) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
		defer cancel()

		path, err := m.reportService.WriteFile(ctx, filter, dir, format)
		if err != nil {
			return reportDoneMsg{err: err}
		}

		return reportDoneMsg{path: path}
	}
}
