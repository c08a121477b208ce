// Package tui provides a Bubble Tea terminal user interface for hot100-history.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/hot100-history/internal/chart"
	"github.com/handiism/hot100-history/internal/config"
	"github.com/handiism/hot100-history/internal/dataset"
	"github.com/handiism/hot100-history/internal/download"
	"github.com/handiism/hot100-history/internal/export"
	"github.com/handiism/hot100-history/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(0, 1)
)

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateInput
	StateSearching
	StateResults
	StateSaving
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// loadProgress is written by the dataset download and polled by the UI.
type loadProgress struct {
	written atomic.Int64
	total   atomic.Int64
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	songs     table.Model
	settings  *config.Settings
	logger    *slog.Logger
	logs      []LogEntry
	err       error

	// Dataset and lookups
	store   *dataset.Store
	service *chart.Service
	loading *loadProgress
	report  *model.Report

	ctx    context.Context
	cancel context.CancelFunc

	// Options
	format  export.Format
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Artist name, e.g. Taylor Swift"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	songs := table.New(
		table.WithColumns(songColumns()),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	store := dataset.NewStore()
	opts := chart.DefaultOptions()
	opts.Match = settings.ToMatchOptions()
	opts.History = settings.ToHistoryOptions()
	opts.Logger = logger

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateLoading,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		songs:     songs,
		settings:  settings,
		logger:    logger,
		store:     store,
		service:   chart.NewService(store, opts),
		loading:   &loadProgress{},
		ctx:       ctx,
		cancel:    cancel,
		format:    settings.Format(),
	}
}

func songColumns() []table.Column {
	return []table.Column{
		{Title: "Song", Width: 28},
		{Title: "Artist", Width: 24},
		{Title: "Debut", Width: 10},
		{Title: "Peak", Width: 4},
		{Title: "Weeks", Width: 5},
		{Title: "Runs", Width: 4},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadDataset(), m.tickProgress())
}

// Message types
type (
	// ProgressMsg carries a log line for the UI.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// LoadDoneMsg is sent when the dataset finished loading.
	LoadDoneMsg struct {
		Table *dataset.Table
		Err   error
	}

	// LookupDoneMsg is sent when an artist lookup finished.
	LookupDoneMsg struct {
		Report *model.Report
		Err    error
	}

	// SaveDoneMsg is sent when the export file was written.
	SaveDoneMsg struct {
		Path string
		Err  error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput, StateLoading:
				m.cancel()
				return m, tea.Quit
			case StateResults:
				m = m.reset()
				return m, nil
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateSearching
				return m, tea.Batch(m.lookup(m.textInput.Value()), m.spinner.Tick)
			}

		case "tab":
			if m.state == StateInput {
				if m.format == export.FormatXLSX {
					m.format = export.FormatCSV
				} else {
					m.format = export.FormatXLSX
				}
				return m, nil
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "s":
			if m.state == StateResults && m.report != nil {
				m.state = StateSaving
				return m, tea.Batch(m.save(m.report.Artist), m.spinner.Tick)
			}

		case "n":
			if m.state == StateResults || m.state == StateError {
				m = m.reset()
				return m, nil
			}

		case "q":
			if m.state == StateResults || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		m = m.addLog(msg.Event)

	case LoadDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = fmt.Errorf("loading chart data: %w", msg.Err)
			break
		}
		m.store.Swap(msg.Table)
		first, last := msg.Table.Span()
		m = m.addLog(download.ProgressEvent{
			Message: fmt.Sprintf("Loaded %d chart entries (%s to %s)", msg.Table.Len(), first.Format(model.DateLayout), last.Format(model.DateLayout)),
			Level:   download.LevelSuccess,
		})
		if msg.Table.Skipped > 0 {
			m = m.addLog(download.ProgressEvent{
				Message: fmt.Sprintf("Skipped %d malformed rows", msg.Table.Skipped),
				Level:   download.LevelWarning,
			})
		}
		m.state = StateInput

	case LookupDoneMsg:
		m = m.handleLookup(msg)

	case SaveDoneMsg:
		m.state = StateResults
		if msg.Err != nil {
			m = m.addLog(download.ProgressEvent{Message: fmt.Sprintf("Error saving: %v", msg.Err), Level: download.LevelError})
		} else {
			m = m.addLog(download.ProgressEvent{Message: "Saved " + msg.Path, Level: download.LevelSuccess})
		}

	case TickMsg:
		if m.state == StateLoading {
			var percent float64
			if total := m.loading.total.Load(); total > 0 {
				percent = float64(m.loading.written.Load()) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	switch m.state {
	case StateInput:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateResults:
		var cmd tea.Cmd
		m.songs, cmd = m.songs.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleLookup(msg LookupDoneMsg) Model {
	var noMatch *chart.NoMatchError
	switch {
	case msg.Err == nil:
		m.report = msg.Report
		m.songs.SetRows(songRows(msg.Report))
		m.songs.GotoTop()
		m.state = StateResults
		m = m.addLog(download.ProgressEvent{
			Message: fmt.Sprintf("Found %d songs for %s", len(msg.Report.Tables), msg.Report.Artist),
			Level:   download.LevelSuccess,
		})
		if d := msg.Report.Stats.DuplicateDates; d > 0 {
			m = m.addLog(download.ProgressEvent{Message: fmt.Sprintf("Resolved %d duplicate chart weeks", d), Level: download.LevelVerbose})
		}
	case errors.As(msg.Err, &noMatch):
		text := "No chart history for " + noMatch.Artist
		if len(noMatch.Suggestions) > 0 {
			text += " (did you mean " + strings.Join(noMatch.Suggestions, ", ") + "?)"
		}
		m = m.addLog(download.ProgressEvent{Message: text, Level: download.LevelWarning})
		m.state = StateInput
	case errors.Is(msg.Err, chart.ErrEmptyQuery):
		m.state = StateInput
	default:
		m.state = StateError
		m.err = msg.Err
	}
	return m
}

func songRows(report *model.Report) []table.Row {
	rows := make([]table.Row, 0, len(report.Summary))
	for _, s := range report.Summary {
		rows = append(rows, table.Row{
			s.Song,
			s.Artist,
			s.FirstWeek.Format(model.DateLayout),
			fmt.Sprint(s.Peak),
			fmt.Sprint(s.Weeks),
			fmt.Sprint(s.Runs),
		})
	}
	return rows
}

func (m Model) addLog(event download.ProgressEvent) Model {
	// Filter verbose messages if not in verbose mode
	if event.Level == download.LevelVerbose && !m.verbose {
		return m
	}
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	// Keep only last 8 logs
	if len(m.logs) > 8 {
		m.logs = m.logs[len(m.logs)-8:]
	}
	return m
}

func (m Model) reset() Model {
	m.state = StateInput
	m.report = nil
	m.err = nil
	m.songs.SetRows(nil)
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📈 Hot 100 Chart History"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Every Billboard Hot 100 week of an artist"))
	b.WriteString("\n\n")

	switch m.state {
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StateInput:
		b.WriteString(m.viewInput())
	case StateSearching:
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Searching the charts..."))
		b.WriteString("\n")
	case StateResults, StateSaving:
		b.WriteString(m.viewResults())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewLoading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Loading chart data..."))
	b.WriteString("\n\n")

	if total := m.loading.total.Load(); total > 0 {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"Downloaded: %.2f / %.2f MB",
			float64(m.loading.written.Load())/1024/1024,
			float64(total)/1024/1024,
		)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter artist name:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Export format: %s (tab)\n", m.format))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", m.settings.OutputDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewResults() string {
	var b strings.Builder

	if m.report != nil {
		b.WriteString(successStyle.Render(fmt.Sprintf("%s: %d songs, %d chart weeks", m.report.Artist, len(m.report.Tables), m.report.Stats.MatchedRows-m.report.Stats.DuplicateDates)))
		b.WriteString("\n\n")
	}
	b.WriteString(boxStyle.Render(m.songs.View()))
	b.WriteString("\n")
	if m.state == StateSaving {
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Saving..."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateLoading:
		return "esc: quit"
	case StateInput:
		return "enter: search • tab: format • ctrl+v: verbose • esc: quit"
	case StateResults:
		return "↑/↓: scroll • s: save • n: new search • q: quit"
	case StateError:
		return "n: new search • q: quit"
	}
	return ""
}

// loadDataset loads the chart data in the background.
func (m Model) loadDataset() tea.Cmd {
	return func() tea.Msg {
		opts := m.settings.ToLoaderOptions()
		opts.Logger = m.logger
		opts.OnProgress = func(written, total int64) {
			m.loading.written.Store(written)
			m.loading.total.Store(total)
		}

		table, err := dataset.NewLoader(opts).Load(m.ctx)
		return LoadDoneMsg{Table: table, Err: err}
	}
}

// lookup runs an artist lookup in the background.
func (m Model) lookup(artist string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.service.Lookup(m.ctx, artist)
		return LookupDoneMsg{Report: report, Err: err}
	}
}

// save writes the export through a one-artist download manager.
func (m Model) save(artist string) tea.Cmd {
	return func() tea.Msg {
		settings := *m.settings
		settings.ExportFormat = string(m.format)
		settings.MaxConcurrentExports = 1

		manager, err := download.NewManager(&settings, m.service, nil)
		if err != nil {
			return SaveDoneMsg{Err: err}
		}
		manager.AddArtists(artist)
		if err := manager.StartExports(m.ctx); err != nil {
			return SaveDoneMsg{Err: err}
		}

		results := manager.Results()
		if len(results) == 0 {
			return SaveDoneMsg{Err: fmt.Errorf("nothing exported")}
		}
		return SaveDoneMsg{Path: results[0].Path, Err: results[0].Err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(settings, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
