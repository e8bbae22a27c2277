package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/soulfoods/morsel/internal/ingest"
)

const pipelineTimeout = 2 * time.Minute

type pipelineState int

const (
	pipelineStateForm pipelineState = iota
	pipelineStateRunning
	pipelineStateResult
)

type PipelineModel struct {
	CommonModel
	ingestService *ingest.Service

	state pipelineState
	form  *huh.Form

	dataDir  string
	artifact string

	spinner spinner.Model
	report  *ingest.RunReport
	err     error
}

func NewPipelineModel(svc *ingest.Service, dataDir, artifact string) PipelineModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := PipelineModel{
		ingestService: svc,
		dataDir:       dataDir,
		artifact:      artifact,
		spinner:       s,
	}
	m.form = m.buildForm()

	return m
}

func (m PipelineModel) Title() string { return "Run Pipeline" }

func (m PipelineModel) ShortHelp() string {
	switch m.state {
	case pipelineStateResult:
		return "Esc: back to menu"
	case pipelineStateRunning:
		return "Running..."
	}
	return "Esc: back | Enter: confirm"
}

func (m PipelineModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PipelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case pipelineStateForm:
		return m.updateForm(msg)
	case pipelineStateRunning:
		return m.updateRunning(msg)
	case pipelineStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m PipelineModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	dataDir := m.form.GetString("data_dir")
	if dataDir == "" {
		dataDir = m.dataDir
	}

	artifact := m.form.GetString("artifact")
	if artifact == "" {
		artifact = m.artifact
	}

	m.state = pipelineStateRunning
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runPipelineCmd(dataDir, artifact))
}

func (m PipelineModel) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(PipelineDoneMsg); ok {
		m.state = pipelineStateResult
		m.report = result.Report
		m.err = result.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m PipelineModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m PipelineModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("data_dir").
				Title("Data Directory").
				Description("Directory holding the daily sales extracts").
				Value(&m.dataDir),

			huh.NewInput().
				Key("artifact").
				Title("Artifact Path").
				Description("Where the unified dataset is written").
				Value(&m.artifact),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m PipelineModel) View() string {
	switch m.state {
	case pipelineStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case pipelineStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Running sales pipeline...", m.spinner.View()),
		)

	case pipelineStateResult:
		return m.viewResult()
	}

	return ""
}

func (m PipelineModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Pipeline Complete!")

	lines := []string{
		fmt.Sprintf("Run ID:    %s", m.report.RunID),
		fmt.Sprintf("Records:   %d", m.report.Records),
		fmt.Sprintf("Filtered:  %d", m.report.Filtered),
		fmt.Sprintf("Artifact:  %s", m.report.Artifact),
		fmt.Sprintf("Duration:  %s", m.report.Duration),
		"",
		"Extracts:",
	}

	for _, e := range m.report.Extracts {
		lines = append(lines, fmt.Sprintf("  %s  %d rows, %d kept", e.File, e.RowsRead, e.Kept))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			strings.Join(lines, "\n"),
		),
	)
}

// PipelineDoneMsg reports a finished pipeline run. The root model watches
// it too, so the read views pick up the fresh dataset.
type PipelineDoneMsg struct {
	Report *ingest.RunReport
	Err    error
}

func (m PipelineModel) runPipelineCmd(dataDir, artifact string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()

		report, err := m.ingestService.Run(ctx, ingest.Options{DataDir: dataDir, Artifact: artifact})
		if err != nil {
			return PipelineDoneMsg{Err: err}
		}

		return PipelineDoneMsg{Report: report}
	}
}
