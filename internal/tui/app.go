// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for fairchance.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/fair-chance/internal/config"
	"github.com/kingrea/fair-chance/internal/delivery"
	"github.com/kingrea/fair-chance/internal/flow"
	"github.com/kingrea/fair-chance/internal/logbook"
	"github.com/kingrea/fair-chance/internal/store"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu appState = iota // Route menu
	stateStage                    // One of the four workflow stages
	statePage                     // Static informational page
)

// Menu titles double as route names.
const (
	routeOverview     = "Overview"
	routeAssessment   = "Individual Assessment"
	routePreliminary  = "Preliminary Notice"
	routeReassessment = "Reassessment"
	routeFinal        = "Final Decision"
	routeLegal        = "Legal Overview"
	routeComplaint    = "Complaint Process"
	routeExit         = "Exit"
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithContext sets the context used for store access and delivery.
func WithContext(ctx context.Context) AppOption {
	return func(a *App) {
		if ctx != nil {
			a.ctx = ctx
		}
	}
}

// WithCaseID opens a case other than the configured one.
func WithCaseID(id string) AppOption {
	return func(a *App) {
		if id = strings.TrimSpace(id); id != "" {
			a.caseID = id
		}
	}
}

// WithSender replaces the simulated notice sender.
func WithSender(sender delivery.Sender) AppOption {
	return func(a *App) {
		if sender != nil {
			a.sender = sender
		}
	}
}

// WithResponseSource replaces the simulated candidate response source.
func WithResponseSource(src delivery.ResponseSource) AppOption {
	return func(a *App) {
		if src != nil {
			a.responses = src
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithTickInterval changes how often the response countdown is refreshed.
func WithTickInterval(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.tickInterval = d
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	logbook *logbook.Logbook
	backend store.Backend
	forms   *store.FormStore

	ctx          context.Context
	caseID       string
	sender       delivery.Sender
	responses    delivery.ResponseSource
	clock        func() time.Time
	tickInterval time.Duration

	stageView *stageView
	pageView  *pageView

	// UI components
	mainMenu  list.Model // The main menu list
	statusMsg string     // Status message to display

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance. The caller must Close it.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	app := &App{
		state:        stateMainMenu,
		config:       cfg,
		ctx:          context.Background(),
		caseID:       cfg.CaseID(),
		sender:       delivery.NewSimulatedSender(cfg.Project.Notice.SendDelay),
		responses:    delivery.SimulatedResponses{Delay: cfg.Project.Notice.ResponseDelay},
		clock:        time.Now,
		tickInterval: countdownInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	var storeLog logbook.Logger = logbook.Discard
	if lb, err := logbook.New(cfg.LogPath(), logbook.WithClock(app.clock)); err == nil {
		app.logbook = lb
		storeLog = lb.Scope("store")
	}
	backend, err := store.Open(app.ctx, cfg.StoreOptions())
	if err != nil {
		app.logError("Store · %s backend unavailable, using local files: %v", cfg.Project.Store.Backend, err)
		backend, err = store.NewFileBackend(cfg.StateDir())
		if err != nil {
			return nil, err
		}
		app.statusMsg = fmt.Sprintf("%s store unavailable; saving to %s", cfg.Project.Store.Backend, cfg.StateDir())
	}
	app.backend = backend
	app.forms = store.NewFormStore(backend, app.caseID, store.WithLogger(storeLog), store.WithClock(app.clock))
	app.logInfo("Session opened · case %s · %s backend", app.caseID, cfg.Project.Store.Backend)

	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "⚖ FAIR CHANCE HIRING"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)
	app.mainMenu = mainMenu
	return app, nil
}

// Close releases the case record backend.
func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

// buildMainMenu lists every route. Only the four stages form the guided flow.
func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: routeOverview, desc: "How the fair chance process works"},
		menuItem{title: routeAssessment, desc: "Assess the conviction history against the job"},
		menuItem{title: routePreliminary, desc: "Send the preliminary decision notice"},
		menuItem{title: routeReassessment, desc: "Review the candidate's response"},
		menuItem{title: routeFinal, desc: "Send the final revocation notice"},
		menuItem{title: routeLegal, desc: "San Diego Fair Chance Ordinance text"},
		menuItem{title: routeComplaint, desc: "How candidates file a complaint"},
		menuItem{title: routeExit, desc: "Quit fairchance"},
	}
}

func (a *App) now() time.Time {
	return a.clock()
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		switch {
		case a.state == stateStage && a.stageView != nil:
			return a, a.stageView.Update(msg)
		case a.state == statePage && a.pageView != nil:
			return a, a.pageView.Update(msg)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateStage && a.stageView != nil && a.stageView.state.Sending {
				a.statusMsg = "Sending notice... wait for it to finish"
				return a, nil
			}
			if a.state != stateMainMenu {
				return a.returnToMainMenu()
			}
		case "enter":
			if a.state == stateMainMenu {
				return a.handleMainMenuSelection()
			}
		}
	}

	switch a.state {
	case stateMainMenu:
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		return a, cmd
	case stateStage:
		if a.stageView != nil {
			return a, a.stageView.Update(msg)
		}
	case statePage:
		if a.pageView != nil {
			return a, a.pageView.Update(msg)
		}
	}
	return a, nil
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	a.logInfo("Menu · %s selected", item.title)
	return a.openRoute(item.title)
}

func (a *App) openRoute(route string) (tea.Model, tea.Cmd) {
	switch route {
	case routeAssessment:
		return a.openStage(flow.StageAssessment)
	case routePreliminary:
		return a.openStage(flow.StagePreliminaryNotice)
	case routeReassessment:
		return a.openStage(flow.StageReassessment)
	case routeFinal:
		return a.openStage(flow.StageFinalNotice)
	case routeOverview:
		return a.openPage(pageOverview)
	case routeLegal:
		return a.openPage(pageLegal)
	case routeComplaint:
		return a.openPage(pageComplaint)
	case routeExit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) openStage(stage flow.Stage) (tea.Model, tea.Cmd) {
	a.closeStageView()
	view, cmd := newStageView(a, stage)
	if a.width > 0 && a.height > 0 {
		view.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}
	a.state = stateStage
	a.stageView = view
	a.pageView = nil
	a.statusMsg = ""
	return a, cmd
}

func (a *App) openPage(p page) (tea.Model, tea.Cmd) {
	width, height := a.width, a.height
	if width <= 0 || height <= 0 {
		width, height = 100, 40
	}
	view, err := newPageView(p, width, height)
	if err != nil {
		a.statusMsg = err.Error()
		a.logError("%v", err)
		return a, nil
	}
	a.closeStageView()
	a.state = statePage
	a.pageView = view
	a.statusMsg = ""
	return a, nil
}

// returnToMainMenu transitions back to the main menu. Dropping the stage view
// stops its countdown and cancels its response wait.
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.closeStageView()
	a.state = stateMainMenu
	a.pageView = nil
	a.statusMsg = ""
	a.logInfo("Returned to main menu")
	return a, nil
}

func (a *App) closeStageView() {
	if a.stageView == nil {
		return
	}
	a.stageView.close()
	a.stageView = nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateStage:
		if a.stageView != nil {
			content = a.stageView.View()
		}
	case statePage:
		if a.pageView != nil {
			content = lipgloss.JoinVertical(lipgloss.Left, stageTitleStyle.Render(a.pageView.page.title), "", a.pageView.View())
		}
	}
	return a.renderBoard(content, width-4)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
	return box
}

func (a *App) renderBoard(mainContent string, width int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render(fmt.Sprintf("⚖ FAIR CHANCE · case %s", a.caseID))

	if strings.TrimSpace(mainContent) == "" {
		mainContent = "Choose a step to begin."
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width)).
		Render(mainContent)

	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
