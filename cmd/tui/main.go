package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/soulfoods/morsel/cmd/tui/internal/view"
	"github.com/soulfoods/morsel/internal/config"
	"github.com/soulfoods/morsel/internal/ingest"
	"github.com/soulfoods/morsel/internal/report"
	"github.com/soulfoods/morsel/internal/sales"
	"github.com/soulfoods/morsel/internal/sales/store"
)

type model struct {
	salesService  *sales.Service
	ingestService *ingest.Service
	reportService *report.Service

	store    *store.Store
	artifact string

	dataDir   string
	reportDir string

	datasetErr error

	currentView View

	dashboardView view.DashboardModel
	recordsView   view.RecordsModel
	pipelineView  view.PipelineModel
	reportView    view.ReportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewRecords   View = 2
	ViewPipeline  View = 3
	ViewReport    View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st := store.New(cfg.Data.Artifact)

	// The artifact may not exist until the pipeline has run once. The
	// read views render the empty dataset and point at the pipeline view.
	datasetErr := st.Load(context.Background())

	// Log lines would tear the TUI frame.
	ingestSvc := ingest.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	salesSvc := sales.NewService(st)
	reportSvc := report.NewService(salesSvc)

	return model{
		salesService:  salesSvc,
		ingestService: ingestSvc,
		reportService: reportSvc,
		store:         st,
		artifact:      cfg.Data.Artifact,
		dataDir:       cfg.Data.Dir,
		reportDir:     cfg.Data.ReportDir,
		datasetErr:    datasetErr,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(salesSvc),
		recordsView:   view.NewRecordsModel(st),
		pipelineView:  view.NewPipelineModel(ingestSvc, cfg.Data.Dir, cfg.Data.Artifact),
		reportView:    view.NewReportModel(reportSvc, salesSvc, cfg.Data.ReportDir),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.salesService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewRecords
				m.recordsView = view.NewRecordsModel(m.store)

				return m, m.recordsView.Init()
			case "3":
				m.currentView = ViewPipeline
				m.pipelineView = view.NewPipelineModel(m.ingestService, m.dataDir, m.artifact)

				return m, m.pipelineView.Init()
			case "4":
				m.currentView = ViewReport
				m.reportView = view.NewReportModel(m.reportService, m.salesService, m.reportDir)

				return m, m.reportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil

	case view.PipelineDoneMsg:
		// A successful run replaces the dataset the read views serve.
		if msg.Err == nil {
			st := store.New(msg.Report.Artifact)
			if err := st.Load(context.Background()); err == nil {
				m.artifact = msg.Report.Artifact
				m.store = st
				m.salesService = sales.NewService(st)
				m.reportService = report.NewService(m.salesService)
				m.datasetErr = nil
			}
		}
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewRecords:
		var newModel tea.Model
		newModel, cmd = m.recordsView.Update(msg)
		m.recordsView = newModel.(view.RecordsModel)
	case ViewPipeline:
		var newModel tea.Model
		newModel, cmd = m.pipelineView.Update(msg)
		m.pipelineView = newModel.(view.PipelineModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		menu := "Morsel TUI\n\n" +
			"1. Sales Dashboard\n" +
			"2. Browse Records\n" +
			"3. Run Pipeline\n" +
			"4. Export Report\n\n" +
			"q. Quit"

		if m.datasetErr != nil {
			menu += "\n\n" + lipgloss.NewStyle().Faint(true).Render(
				"No dataset loaded yet. Run the pipeline (3) to build it.",
			)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewRecords:
		return m.recordsView.View()
	case ViewPipeline:
		return m.pipelineView.View()
	case ViewReport:
		return m.reportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
