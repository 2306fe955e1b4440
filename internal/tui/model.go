package tui

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/database"
	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/quotes"
	"github.com/akyairhashvil/integrity/internal/source"
	"github.com/akyairhashvil/integrity/internal/util"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// BoardPublisher receives every evaluated set of boards.
type BoardPublisher interface {
	Publish(boards []models.Board, at time.Time, err error, stale bool)
}

// Options wires the board to its collaborators. Settings and Publisher are
// optional.
type Options struct {
	Source        source.Source
	Settings      database.SettingsRepository
	Publisher     BoardPublisher
	Quotes        *quotes.Rotator
	PollInterval  time.Duration
	QuoteInterval time.Duration
	EvalOptions   []milestone.Option
	ReportDir     string
	Now           func() time.Time
}

// MainModel is the root bubbletea model for the fullscreen board.
type MainModel struct {
	ctx       context.Context
	opts      Options
	keys      *HandlerRegistry
	spinner   spinner.Model
	snapshots []models.Snapshot
	boards    []models.Board
	loading   bool
	pollGen   int
	updated   time.Time
	err       error
	stale     bool
	quote     string
	message   string
	width     int
	height    int
}

func NewMainModel(ctx context.Context, opts Options) MainModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = config.DefaultPollInterval
	}
	if opts.QuoteInterval <= 0 {
		opts.QuoteInterval = config.DefaultQuoteInterval
	}
	if opts.Quotes == nil {
		opts.Quotes = quotes.NewRotator(nil, nil)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = CurrentTheme.Highlight

	m := MainModel{
		ctx:     ctx,
		opts:    opts,
		keys:    defaultRegistry(),
		spinner: sp,
		loading: true,
	}
	if opts.Settings != nil {
		if raw, ok := opts.Settings.GetSetting(ctx, database.SettingQuoteIndex); ok {
			if idx, err := strconv.Atoi(raw); err == nil {
				opts.Quotes.Restore(idx)
			}
		}
	}
	m.quote = opts.Quotes.Current(config.DefaultQuote)
	return m
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchCmd(m.ctx, m.opts.Source, m.opts.Now),
		quoteTickCmd(m.opts.QuoteInterval),
	)
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		next, cmd, _ := m.keys.Handle(m, msg.String())
		return next, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchResultMsg:
		m = m.applyFetch(msg)
		return m, refreshTickCmd(m.opts.PollInterval, m.pollGen)

	case refreshTickMsg:
		if m.loading || msg.gen != m.pollGen {
			return m, nil
		}
		var cmd tea.Cmd
		m, cmd = m.startFetch()
		return m, cmd

	case quoteTickMsg:
		m = m.rotateQuote()
		// Progress is date based, so re-evaluate in case midnight passed
		// while the source was unreachable.
		m.boards = evaluateAll(m.snapshots, m.opts.Now(), m.opts.EvalOptions)
		return m, quoteTickCmd(m.opts.QuoteInterval)

	case reportResultMsg:
		if msg.err != nil {
			util.LogError("export report", msg.err)
			m.message = "Export failed: " + msg.err.Error()
		} else {
			m.message = "Report saved to " + msg.path
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyFetch folds a refresh result into the model. A hard failure keeps
// the last good boards on screen and only changes the footer.
func (m MainModel) applyFetch(msg fetchResultMsg) MainModel {
	m.loading = false
	switch {
	case msg.err == nil:
		m.snapshots = msg.snapshots
		m.updated = msg.at
		m.err = nil
		m.stale = false
	case source.IsStale(msg.err):
		m.snapshots = msg.snapshots
		m.err = msg.err
		m.stale = true
	default:
		m.err = msg.err
		m.stale = false
	}
	m.boards = evaluateAll(m.snapshots, msg.at, m.opts.EvalOptions)

	if m.opts.Publisher != nil {
		m.opts.Publisher.Publish(m.boards, msg.at, m.err, m.stale)
	}
	if m.opts.Settings != nil && msg.err == nil {
		err := m.opts.Settings.SetSetting(m.ctx, database.SettingLastRefresh, msg.at.Format(time.RFC3339))
		util.LogError("save last refresh", err)
	}
	return m
}

// startFetch begins a refresh under a new poll generation, which retires
// any tick still pending from the previous one.
func (m MainModel) startFetch() (MainModel, tea.Cmd) {
	m.loading = true
	m.pollGen++
	return m, tea.Batch(m.spinner.Tick, fetchCmd(m.ctx, m.opts.Source, m.opts.Now))
}

func (m MainModel) rotateQuote() MainModel {
	m.quote = m.opts.Quotes.Next(config.DefaultQuote)
	if m.opts.Settings != nil && m.opts.Quotes.Len() > 0 {
		err := m.opts.Settings.SetSetting(m.ctx, database.SettingQuoteIndex, strconv.Itoa(m.opts.Quotes.Index()))
		util.LogError("save quote index", err)
	}
	return m
}

// Boards returns the boards currently on screen.
func (m MainModel) Boards() []models.Board {
	return m.boards
}

func evaluateAll(snapshots []models.Snapshot, today time.Time, opts []milestone.Option) []models.Board {
	if len(snapshots) == 0 {
		return nil
	}
	boards := make([]models.Board, 0, len(snapshots))
	for _, s := range snapshots {
		boards = append(boards, models.Evaluate(s, today, opts...))
	}
	return boards
}

// --- Key handlers ---

func handleQuit(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	return m, tea.Quit, true
}

func handleRefresh(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	if m.loading {
		return m, nil, true
	}
	m.message = ""
	m, cmd := m.startFetch()
	return m, cmd, true
}

func handleNextQuote(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	return m.rotateQuote(), nil, true
}

func handleExport(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	if len(m.boards) == 0 {
		m.message = "Nothing to export yet"
		return m, nil, true
	}
	dir := m.opts.ReportDir
	if dir == "" {
		dir = util.ReportsDir(config.AppName)
	}
	m.message = "Exporting report..."
	return m, reportCmd(m.boards, dir, m.opts.Now()), true
}

func handleCycleTheme(m MainModel, _ string) (MainModel, tea.Cmd, bool) {
	names := ThemeNames()
	for i, name := range names {
		if Themes[name].Name == CurrentTheme.Name {
			next := names[(i+1)%len(names)]
			SetTheme(next)
			m.spinner.Style = CurrentTheme.Highlight
			m.message = "Theme: " + CurrentTheme.Name
			util.Logger().Debug("theme changed", slog.String("theme", next))
			break
		}
	}
	return m, nil, true
}
