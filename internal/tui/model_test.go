package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/akyairhashvil/integrity/internal/database"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/quotes"
	"github.com/akyairhashvil/integrity/internal/source"
	"github.com/akyairhashvil/integrity/internal/source/sourcemock"
	"github.com/akyairhashvil/integrity/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang/mock/gomock"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 15, 0, 0, time.UTC)

type memorySettings struct {
	values map[string]string
}

func (s *memorySettings) GetSetting(_ context.Context, key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *memorySettings) SetSetting(_ context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

var _ database.SettingsRepository = (*memorySettings)(nil)

type recordingPublisher struct {
	calls  int
	boards []models.Board
	err    error
	stale  bool
}

func (p *recordingPublisher) Publish(boards []models.Board, _ time.Time, err error, stale bool) {
	p.calls++
	p.boards = boards
	p.err = err
	p.stale = stale
}

func sampleSnapshots() []models.Snapshot {
	return []models.Snapshot{
		testutil.NewSnapshot("Aaron").WithProgress(fixedNow, 10).
			WithReward(7, "Ice cream").WithReward(30, "Movie night").Build(),
		testutil.NewSnapshot("Michael").WithProgress(fixedNow, 14).
			WithReward(7, "Ice cream").WithReward(30, "Movie night").Build(),
	}
}

func newTestModel(t *testing.T, src source.Source) (MainModel, *memorySettings, *recordingPublisher) {
	t.Helper()
	settings := &memorySettings{}
	pub := &recordingPublisher{}
	rot := quotes.NewRotator([]quotes.Quote{{Text: "first"}, {Text: "second"}, {Text: "third"}}, rand.New(rand.NewSource(1)))
	m := NewMainModel(context.Background(), Options{
		Source:    src,
		Settings:  settings,
		Publisher: pub,
		Quotes:    rot,
		ReportDir: t.TempDir(),
		Now:       func() time.Time { return fixedNow },
	})
	return m, settings, pub
}

func update(t *testing.T, m MainModel, msg tea.Msg) (MainModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(MainModel), cmd
}

func runFetch(t *testing.T, m MainModel) MainModel {
	t.Helper()
	msg := fetchCmd(m.ctx, m.opts.Source, m.opts.Now)()
	next, cmd := update(t, m, msg)
	if cmd == nil {
		t.Fatalf("expected next refresh to be scheduled")
	}
	return next
}

func TestNewMainModelLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, _ := newTestModel(t, sourcemock.NewMockSource(ctrl))
	if !m.loading {
		t.Fatalf("expected loading state")
	}
	if m.View() == "" {
		t.Fatalf("expected non-empty view")
	}
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected init cmd")
	}
}

func TestNewMainModelRestoresQuote(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := &memorySettings{values: map[string]string{database.SettingQuoteIndex: "2"}}
	rot := quotes.NewRotator([]quotes.Quote{{Text: "a"}, {Text: "b"}, {Text: "c"}}, rand.New(rand.NewSource(1)))
	m := NewMainModel(context.Background(), Options{Source: sourcemock.NewMockSource(ctrl), Settings: settings, Quotes: rot})
	if m.quote != "c" {
		t.Fatalf("expected restored quote, got %q", m.quote)
	}
}

func TestFetchSuccessBuildsBoards(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil)

	m, settings, pub := newTestModel(t, src)
	m = runFetch(t, m)

	if m.loading || m.err != nil {
		t.Fatalf("expected settled model, loading=%v err=%v", m.loading, m.err)
	}
	boards := m.Boards()
	if len(boards) != 2 || boards[0].Person != "Aaron" || boards[1].Person != "Michael" {
		t.Fatalf("unexpected boards %+v", boards)
	}
	if boards[0].Progress != 10 || boards[0].Result.Next == nil || boards[0].Result.Next.Days != 20 {
		t.Fatalf("unexpected Aaron board %+v", boards[0])
	}
	if boards[1].Result.Today == nil || boards[1].Result.Today.Description != "Ice cream" {
		t.Fatalf("expected Michael to earn today's reward, got %+v", boards[1].Result)
	}
	if pub.calls != 1 || len(pub.boards) != 2 {
		t.Fatalf("expected boards published once, got %d", pub.calls)
	}
	if got := settings.values[database.SettingLastRefresh]; got != fixedNow.Format(time.RFC3339) {
		t.Fatalf("last refresh = %q", got)
	}
}

func TestFetchFailureKeepsLastBoards(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil),
		src.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("quota exceeded")),
	)

	m, _, pub := newTestModel(t, src)
	m = runFetch(t, m)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = runFetch(t, m)

	if len(m.Boards()) != 2 {
		t.Fatalf("expected last good boards kept, got %d", len(m.Boards()))
	}
	if m.err == nil || m.stale {
		t.Fatalf("expected hard error, got err=%v stale=%v", m.err, m.stale)
	}
	if !m.updated.Equal(fixedNow) {
		t.Fatalf("last updated should stay at the last success")
	}
	view := m.View()
	if !strings.Contains(view, "Error fetching data: quota exceeded") {
		t.Fatalf("expected error in footer, got:\n%s", view)
	}
	if !strings.Contains(view, "Aaron") {
		t.Fatalf("expected boards still rendered")
	}
	if pub.err == nil {
		t.Fatalf("expected error published")
	}
}

func TestFetchStaleServesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	stale := &source.StaleError{Since: fixedNow.Add(-time.Hour), Err: errors.New("offline")}
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), stale)

	m, settings, pub := newTestModel(t, src)
	m = runFetch(t, m)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if !m.stale || len(m.Boards()) != 2 {
		t.Fatalf("expected stale boards, stale=%v boards=%d", m.stale, len(m.Boards()))
	}
	if !pub.stale {
		t.Fatalf("expected stale flag published")
	}
	if _, ok := settings.values[database.SettingLastRefresh]; ok {
		t.Fatalf("stale data must not count as a refresh")
	}
	if !strings.Contains(m.View(), "showing data from") {
		t.Fatalf("expected stale notice in footer")
	}
}

func TestRefreshTickSkipsWhileLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, _ := newTestModel(t, sourcemock.NewMockSource(ctrl))
	_, cmd := update(t, m, refreshTickMsg{gen: m.pollGen, at: fixedNow})
	if cmd != nil {
		t.Fatalf("expected no overlapping fetch while loading")
	}
}

func TestRefreshTickStartsFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil)

	m, _, _ := newTestModel(t, src)
	m = runFetch(t, m)
	next, cmd := update(t, m, refreshTickMsg{gen: m.pollGen, at: fixedNow})
	if cmd == nil || !next.loading {
		t.Fatalf("expected fetch to start")
	}
}

func TestRefreshKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil)

	loading, _, _ := newTestModel(t, src)
	idle := runFetch(t, loading)

	tests := []struct {
		name      string
		model     MainModel
		wantFetch bool
	}{
		{name: "idle", model: idle, wantFetch: true},
		{name: "loading", model: loading, wantFetch: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.model
			m.message = "Report saved to /tmp/report.pdf"
			gen := m.pollGen

			next, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
			if !next.loading {
				t.Fatalf("expected loading after r")
			}
			if tt.wantFetch {
				if cmd == nil {
					t.Fatalf("expected fetch cmd")
				}
				if next.message != "" {
					t.Fatalf("expected message cleared, got %q", next.message)
				}
				if next.pollGen != gen+1 {
					t.Fatalf("expected new poll generation, got %d from %d", next.pollGen, gen)
				}
				return
			}
			if cmd != nil {
				t.Fatalf("expected r to be ignored while loading")
			}
			if next.message != m.message || next.pollGen != gen {
				t.Fatalf("expected model untouched while loading")
			}
		})
	}
}

func TestManualRefreshKeepsSinglePollChain(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	// Initial load, the manual refresh and exactly one poll afterwards.
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil).Times(3)

	m, _, _ := newTestModel(t, src)
	m = runFetch(t, m)
	oldChain := m.pollGen

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatalf("expected manual refresh to fetch")
	}
	m = runFetch(t, m)
	newChain := m.pollGen
	if newChain == oldChain {
		t.Fatalf("expected manual refresh to start a new poll generation")
	}

	fetches := 0
	for _, gen := range []int{newChain, oldChain} {
		next, cmd := update(t, m, refreshTickMsg{gen: gen, at: fixedNow.Add(time.Minute)})
		if cmd == nil {
			continue
		}
		fetches++
		m = runFetch(t, next)
	}
	if fetches != 1 {
		t.Fatalf("expected one fetch per poll interval, got %d", fetches)
	}
}

func TestQuitKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, _, _ := newTestModel(t, sourcemock.NewMockSource(ctrl))
	keys := []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	}
	for _, key := range keys {
		_, cmd := update(t, m, key)
		if cmd == nil {
			t.Fatalf("expected quit cmd for %q", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %q", key.String())
		}
	}
}

func TestNextQuoteKeySavesIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	m, settings, _ := newTestModel(t, sourcemock.NewMockSource(ctrl))
	before := m.quote
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.quote == before {
		t.Fatalf("expected a different quote")
	}
	if settings.values[database.SettingQuoteIndex] == "" {
		t.Fatalf("expected quote index saved")
	}
}

func TestQuoteTickReevaluatesDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil)

	m, _, _ := newTestModel(t, src)
	m = runFetch(t, m)
	m.opts.Now = func() time.Time { return fixedNow.AddDate(0, 0, 1) }
	m, cmd := update(t, m, quoteTickMsg(fixedNow))
	if cmd == nil {
		t.Fatalf("expected next quote tick")
	}
	if m.Boards()[0].Progress != 11 {
		t.Fatalf("expected progress to advance past midnight, got %d", m.Boards()[0].Progress)
	}
}

func TestExportKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil)

	m, _, _ := newTestModel(t, src)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd != nil || m.message != "Nothing to export yet" {
		t.Fatalf("expected export to be refused without boards")
	}

	m = runFetch(t, m)
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Fatalf("expected export cmd")
	}
	m, _ = update(t, m, cmd())
	if !strings.HasPrefix(m.message, "Report saved to ") {
		t.Fatalf("unexpected message %q", m.message)
	}
}

func TestViewRendersPanels(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(sampleSnapshots(), nil)

	m, _, _ := newTestModel(t, src)
	m = runFetch(t, m)
	for _, size := range []tea.WindowSizeMsg{{Width: 120, Height: 40}, {Width: 40, Height: 60}} {
		m, _ = update(t, m, size)
		view := m.View()
		for _, want := range []string{"Aaron", "Michael", "Today's Reward:", "20 more days for", "Last updated: 2025-03-10 09:15:00"} {
			if !strings.Contains(view, want) {
				t.Fatalf("width %d: expected %q in view:\n%s", size.Width, want, view)
			}
		}
	}
}

func TestThemeCycle(t *testing.T) {
	t.Cleanup(func() { SetTheme("default") })
	ctrl := gomock.NewController(t)
	m, _, _ := newTestModel(t, sourcemock.NewMockSource(ctrl))
	start := CurrentTheme.Name
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if CurrentTheme.Name == start {
		t.Fatalf("expected theme to change")
	}
	if !strings.HasPrefix(m.message, "Theme: ") {
		t.Fatalf("unexpected message %q", m.message)
	}
}
