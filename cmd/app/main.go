package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/akyairhashvil/integrity/internal/api"
	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/database"
	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/quotes"
	"github.com/akyairhashvil/integrity/internal/source"
	"github.com/akyairhashvil/integrity/internal/tui"
	"github.com/akyairhashvil/integrity/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

type options struct {
	configDir string
	env       string
	once      bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	opts := options{}
	fs.StringVar(&opts.configDir, "config-dir", util.ExecutableDir(), "directory holding the .env.<env> files")
	fs.StringVar(&opts.env, "env", "", "environment name (defaults to ENV or the host OS)")
	fs.BoolVar(&opts.once, "once", false, "print the board once and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.env == "" {
		opts.env = config.DetermineEnvironment()
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.configDir, opts.env)
	if err != nil {
		return err
	}

	logFile, err := util.OpenLogFile(filepath.Join(filepath.Dir(cfg.CachePath), config.LogFileName), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	util.Logger().Info("starting",
		slog.String("env", cfg.Env),
		slog.String("source", string(cfg.Source)),
		slog.Any("people", cfg.People),
		slog.String("tie_break", cfg.TodayPolicy.String()),
	)
	if !tui.SetTheme(cfg.Theme) {
		util.Logger().Warn("unknown theme", slog.String("theme", cfg.Theme))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.CachePath)
	if err != nil {
		return err
	}
	defer db.Close()

	src, err := source.New(ctx, cfg)
	if err != nil {
		return err
	}
	cached := source.NewCachedSource(src, db)
	evalOpts := []milestone.Option{milestone.WithTodayPolicy(cfg.TodayPolicy)}
	rotator := quotes.NewRotator(loadQuotes(cfg.QuoteFile), nil)

	if opts.once || !isTerminal(stdout) {
		return printOnce(ctx, cached, evalOpts, rotator, stdout, time.Now)
	}

	store := api.NewStore()
	if cfg.StatusAddr != "" {
		api.Version = tui.AppVersion
		server := api.NewServer(cfg.StatusAddr, store)
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			util.LogError("status api shutdown", server.Shutdown(shutdownCtx))
		}()
	}

	model := tui.NewMainModel(ctx, tui.Options{
		Source:        cached,
		Settings:      db,
		Publisher:     store,
		Quotes:        rotator,
		PollInterval:  cfg.PollInterval,
		QuoteInterval: cfg.QuoteInterval,
		EvalOptions:   evalOpts,
		ReportDir:     util.ReportsDir(config.AppName),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// printOnce fetches once and writes the plain board. Cached data is printed
// with a warning; a hard failure is returned.
func printOnce(ctx context.Context, src source.Source, evalOpts []milestone.Option, rotator *quotes.Rotator, w io.Writer, now func() time.Time) error {
	fetchCtx, cancel := context.WithTimeout(ctx, config.FetchTimeout)
	defer cancel()
	snapshots, err := src.Fetch(fetchCtx)
	if err != nil && !source.IsStale(err) {
		return err
	}
	today := now()
	boards := make([]models.Board, 0, len(snapshots))
	for _, s := range snapshots {
		boards = append(boards, models.Evaluate(s, today, evalOpts...))
	}
	if _, werr := io.WriteString(w, tui.PlainBoard(boards, rotator.Current(config.DefaultQuote))); werr != nil {
		return werr
	}
	if err != nil {
		_, werr := fmt.Fprintf(w, "\nWarning: %v\n", err)
		return werr
	}
	return nil
}

// loadQuotes falls back to no quotes, which shows the default line.
func loadQuotes(path string) []quotes.Quote {
	if path == "" {
		return nil
	}
	qs, err := quotes.Load(path)
	if err != nil {
		util.Logger().Warn("quotes unavailable", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	return qs
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
