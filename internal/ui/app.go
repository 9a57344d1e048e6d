package ui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lodestar/internal/ingest"
	"github.com/five82/lodestar/internal/prefs"
	"github.com/five82/lodestar/internal/search"
	"github.com/five82/lodestar/internal/state"
)

// promptMode selects what the bottom input line is collecting.
type promptMode int

const (
	promptNone promptMode = iota
	promptSearch
	promptGoto
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Loader    *ingest.Loader
	Counter   *search.Counter
	Reload    func()
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Collaborators
	ctx       context.Context
	store     *state.Store
	loader    *ingest.Loader
	counter   *search.Counter
	reload    func()
	prefsPath string
	logger    *slog.Logger
	tick      time.Duration

	// Store subscription
	changes     <-chan struct{}
	unsubscribe func()

	// UI state
	keys     keyMap
	theme    Theme
	prefs    prefs.Prefs
	width    int
	height   int
	ready    bool
	showHelp bool
	spinning bool
	notice   string

	// Session data
	snap        state.State
	version     uint64
	status      ingest.Status
	top         int
	seenCursor  *int
	seenCurrent *int

	// Widgets
	viewport viewport.Model
	spinner  spinner.Model
	prompt   promptMode
	input    textinput.Model
}

// New creates a new Bubble Tea model and subscribes it to the store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = 150 * time.Millisecond
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	userPrefs := opts.Prefs
	theme := GetTheme(userPrefs.Theme)
	userPrefs.Theme = theme.Name

	input := textinput.New()
	input.CharLimit = 512

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		loader:    opts.Loader,
		counter:   opts.Counter,
		reload:    opts.Reload,
		prefsPath: prefsPath,
		logger:    logger,
		tick:      tick,
		keys:      DefaultKeyMap(),
		theme:     theme,
		prefs:     userPrefs,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))),
		),
		input: input,
	}
	if m.store != nil {
		m.changes, m.unsubscribe = m.store.Subscribe()
		m.snap = m.store.Snapshot()
	}
	if m.loader != nil {
		m.status = m.loader.Status()
	}
	return m
}

// Close releases the store subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tick),
		waitForChange(m.changes),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, m.bodyHeight())
			m.ready = true
		}
		m.viewport.Width = m.width
		m.viewport.Height = m.bodyHeight()
		m.clampTop()
		return m, nil

	case stateChangedMsg:
		m.applySnapshot()
		return m, waitForChange(m.changes)

	case tickMsg:
		return m.handleTick()

	case spinner.TickMsg:
		if !m.status.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleTick refreshes the ingest status and starts the spinner while a
// download is running.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.loader != nil {
		m.status = m.loader.Status()
	}
	if m.status.Loading && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// applySnapshot pulls the latest session state and follows cursor and
// current-match changes. Notifications for a version already applied are
// ignored.
func (m *Model) applySnapshot() {
	if m.store == nil {
		return
	}
	v := m.store.Version()
	if v == m.version && v != 0 {
		return
	}
	m.version = v
	m.snap = m.store.Snapshot()

	if cur := m.snap.CursorLine; cur != m.seenCursor {
		m.seenCursor = cur
		if cur != nil {
			m.centerOn(*cur)
		}
	}
	if cur := m.snap.Search.CurrentIndex; cur != m.seenCurrent {
		m.seenCurrent = cur
		if line, ok := m.currentMatchLine(); ok {
			m.centerOn(line)
		}
	}
	m.clampTop()
}

func (m Model) currentMatchLine() (int, bool) {
	if m.counter == nil {
		return 0, false
	}
	return m.counter.CurrentLine(m.snap)
}

// dispatch applies an action and refreshes the local snapshot immediately so
// the next key sees its effect.
func (m *Model) dispatch(a state.Action) {
	if m.store == nil {
		return
	}
	m.store.Dispatch(a)
	m.applySnapshot()
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "err", err)
	}
}

// Messages

type tickMsg time.Time

type stateChangedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
