package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driving/tui/views/summary"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// request holds the source and options reruns use.
	request Request

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	resultsView  *results.View
	detailView   *detail.View
	summaryView  *summary.View
	settingsView *settings.View
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// report is the report on screen.
	report *domain.AnalysisReport

	// running is set while an analysis is in flight.
	running bool

	// showHelp toggles the full key reference.
	showHelp bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, req Request) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		request:      req,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		resultsView:  results.NewView(s, km),
		detailView:   detail.NewView(s),
		summaryView:  summary.NewView(s),
		settingsView: settings.NewView(s, ports.Settings),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewResults,
	}
	if req.Report != nil {
		a.setReport(req.Report)
	}
	return a, nil
}

// WithContext sets the context analysis runs use.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("cannibal - Keyword Cannibalization")}
	if a.report == nil {
		cmds = append(cmds, a.startAnalysis())
	}
	return tea.Batch(cmds...)
}

// startAnalysis marks the app busy and returns the command running the analysis.
func (a *App) startAnalysis() tea.Cmd {
	if a.request.Spec.Kind == "" {
		return nil
	}
	a.running = true
	a.statusBar.SetState(status.StateAnalysing)

	ctx := a.ctx
	spec := a.request.Spec
	opts := a.request.Options
	svc := a.ports.Analysis
	return func() tea.Msg {
		report, err := svc.AnalyzeSource(ctx, spec, opts)
		return messages.AnalysisCompleted{Report: report, Err: err}
	}
}

func (a *App) setReport(report *domain.AnalysisReport) {
	a.report = report
	a.resultsView.SetReport(report)
	a.summaryView.SetSummary(report.Summary)
	a.statusBar.SetState(status.StateResults)
	a.statusBar.SetResultCount(len(report.Results))
}

// applySettings copies the tunable analysis settings into the run options.
func (a *App) applySettings(s *domain.AppSettings) {
	if s == nil {
		return
	}
	a.request.Options.SimilarityThreshold = s.Analysis.SimilarityThreshold
	a.request.Options.Config.MinQueries = s.Analysis.MinQueries
	a.request.Options.Config.Weights = s.Analysis.Weights
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AnalysisRequested:
		if a.running {
			return a, nil
		}
		return a, a.startAnalysis()

	case messages.AnalysisCompleted:
		a.running = false
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.setReport(msg.Report)
		return a, nil

	case messages.ResultSelected:
		a.detailView.SetResult(msg.Result)
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.ViewChanged:
		return a.changeView(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// Typing into the filter must not trigger global keys.
	if a.currentView == messages.ViewResults && a.resultsView.Filtering() {
		a.resultsView, cmd = a.resultsView.Update(msg)
		a.syncStatus()
		return a, cmd
	}

	switch {
	case keymap.Matches(key, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(key, a.keymap.Help):
		a.showHelp = !a.showHelp
		return a, nil
	}

	switch a.currentView {
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
		a.syncStatus()
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewSummary:
		a.summaryView, cmd = a.summaryView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return a, cmd
}

func (a *App) syncStatus() {
	if a.running || a.err != nil {
		return
	}
	if a.resultsView.Filtering() {
		a.statusBar.SetState(status.StateFiltering)
		return
	}
	a.statusBar.SetState(status.StateResults)
	a.statusBar.SetResultCount(a.resultsView.Count())
}

func (a *App) changeView(view messages.ViewType) (tea.Model, tea.Cmd) {
	previous := a.currentView
	a.currentView = view

	switch view {
	case messages.ViewSettings:
		a.statusBar.SetState(status.StateSettings)
		return a, a.settingsView.Init()
	case messages.ViewResults:
		a.syncStatus()
		if previous == messages.ViewSettings && a.settingsView.TakeChanged() {
			a.applySettings(a.settingsView.Settings())
			if !a.running {
				return a, a.startAnalysis()
			}
		}
	case messages.ViewDetail, messages.ViewSummary:
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.detailView.View()
	case messages.ViewSummary:
		body = a.summaryView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	default:
		if a.report == nil && a.running {
			body = a.styles.Muted.Render("Analysing " + a.request.Spec.Describe() + "...")
		} else {
			body = a.resultsView.View()
		}
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if a.showHelp {
		b.WriteString(a.viewHelp())
		b.WriteString("\n")
	}
	b.WriteString(a.statusBar.View())
	return b.String()
}

func (a *App) viewHelp() string {
	var b strings.Builder
	for _, group := range a.keymap.FullHelp() {
		parts := make([]string, 0, len(group))
		for _, binding := range group {
			h := binding.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
		b.WriteString(a.styles.Help.Render(strings.Join(parts, " • ")))
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Report returns the report on screen, or nil.
func (a *App) Report() *domain.AnalysisReport {
	return a.report
}

// Options returns the options the next run uses.
func (a *App) Options() domain.AnalysisOptions {
	return a.request.Options
}

// Running reports whether an analysis is in flight.
func (a *App) Running() bool {
	return a.running
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	bodyHeight := max(height-2, 1)
	a.resultsView.SetDimensions(width, bodyHeight)
	a.detailView.SetDimensions(width, bodyHeight)
	a.summaryView.SetDimensions(width, bodyHeight)
	a.settingsView.SetDimensions(width, bodyHeight)
	a.statusBar.SetWidth(width)
}
