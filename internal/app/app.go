package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lodestar/internal/config"
	"github.com/five82/lodestar/internal/ingest"
	"github.com/five82/lodestar/internal/logformat"
	"github.com/five82/lodestar/internal/prefs"
	"github.com/five82/lodestar/internal/state"
	"github.com/five82/lodestar/internal/ui"
)

// Options configure the lodestar application.
type Options struct {
	URL           string
	ConfigPath    string
	PrefsPath     string // empty uses default ~/.config/lodestar/prefs.toml
	Format        string // empty uses the config default, then detection
	CaseSensitive bool
	Debug         bool
}

// Run boots the lodestar TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.URL == "" {
		return errors.New("no log url given")
	}
	target, err := NormalizeURL(opts.URL)
	if err != nil {
		return fmt.Errorf("resolve log url: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	format := cfg.DefaultFormat
	if opts.Format != "" {
		if format, err = logformat.Parse(opts.Format); err != nil {
			return fmt.Errorf("parse format flag: %w", err)
		}
	}

	logger, logFile, err := openLogger(cfg.LogFile, opts.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs failed, using defaults", "err", err)
	}
	if opts.CaseSensitive {
		userPrefs.CaseSensitive = true
	}

	sink := ingest.SlogSink{Logger: logger.With("component", "ingest")}
	downloaderOpts := cfg.DownloaderOptions()
	downloaderOpts.Breadcrumbs = sink
	downloaderOpts.Reporter = sink

	session := NewSession(ingest.NewDownloader(downloaderOpts), format, logger)
	if userPrefs.CaseSensitive {
		session.Store.Dispatch(state.SetCaseSensitive{Sensitive: true})
	}

	counterCtx, stopCounter := context.WithCancel(ctx)
	counterDone := StartCounter(counterCtx, session.Counter)
	defer func() {
		session.Close()
		stopCounter()
		<-counterDone
	}()

	session.Load(ctx, target)

	uiErr := ui.Run(ui.Options{
		Context:   ctx,
		Store:     session.Store,
		Loader:    session.Loader,
		Counter:   session.Counter,
		Reload:    func() { session.Load(ctx, target) },
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger.With("component", "ui"),
	})
	if errors.Is(uiErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if uiErr != nil {
		return fmt.Errorf("run ui: %w", uiErr)
	}
	return nil
}
