package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/slotboard/internal/config"
	"github.com/javiermolinar/slotboard/internal/dateutil"
	"github.com/javiermolinar/slotboard/internal/db"
	"github.com/javiermolinar/slotboard/internal/logging"
	"github.com/javiermolinar/slotboard/internal/scheduling"
	"github.com/javiermolinar/slotboard/internal/slot"
	"github.com/javiermolinar/slotboard/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrSlotNotFound is returned by commands addressing a slot id that is not stored.
var ErrSlotNotFound = errors.New("slot not found")

// App holds the CLI application state.
type App struct {
	config  *config.Config
	root    *cobra.Command
	out     io.Writer
	now     func() time.Time
	debug   bool // Enable debug logging
	noColor bool

	// Opened on first use so that version and config work without a database.
	repo    *db.SQLite
	session *scheduling.Session
	syncer  *scheduling.Syncer
	logger  *zap.Logger
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, out: os.Stdout, now: time.Now}

	a.root = &cobra.Command{
		Use:   "slotboard",
		Short: "Plan installation appointment slots",
		Long: `Slotboard manages the slots installers can be booked into.

Run without arguments to open the interactive board, with day, week,
month, schedule and list views and drag-to-resize in the day grid.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.resizeCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.dayCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "slotboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// Close ends the session and releases the database.
func (a *App) Close() error {
	var errs []error
	if a.session != nil {
		errs = append(errs, a.session.Close())
		a.session = nil
	}
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
		a.repo = nil
	}
	if a.logger != nil {
		logging.Sync(a.logger)
		a.logger = nil
	}
	return errors.Join(errs...)
}

// today returns the current calendar date.
func (a *App) today() time.Time {
	return dateutil.Date(a.now())
}

// ensureSession opens the database and seeds a scheduling session from it,
// once. Every mutation made through the session is written back by a Syncer.
func (a *App) ensureSession(ctx context.Context, sink logging.Sink) (*scheduling.Session, error) {
	if a.session != nil {
		return a.session, nil
	}

	logCfg := a.config.Log
	if a.debug {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg, sink)
	if err != nil {
		return nil, err
	}
	a.logger = logger

	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo

	a.syncer = scheduling.NewSyncer(repo, logger.Named("sync"))
	s := scheduling.New(a.config,
		scheduling.WithLogger(logger),
		scheduling.WithClock(a.now),
		scheduling.WithObserver(a.syncer),
	)
	if err := s.Load(ctx, repo); err != nil {
		_ = s.Close()
		return nil, err
	}
	a.session = s
	return s, nil
}

// synced reports any storage failures from the mutations made so far.
func (a *App) synced() error {
	if a.syncer == nil {
		return nil
	}
	if err := a.syncer.Err(); err != nil {
		return fmt.Errorf("saving changes: %w", err)
	}
	return nil
}

// locate finds a slot by id in the session.
func (a *App) locate(s *scheduling.Session, id string) (time.Time, slot.TimeSlot, error) {
	date, sl, ok := s.Store().Locate(id)
	if !ok {
		return time.Time{}, slot.TimeSlot{}, fmt.Errorf("%w: %s", ErrSlotNotFound, id)
	}
	return date, sl, nil
}

func (a *App) runTUI(ctx context.Context) error {
	s, err := a.ensureSession(ctx, logging.SinkFile)
	if err != nil {
		return err
	}
	return tui.Run(s, tui.Options{
		Theme:  a.config.UI.Theme,
		Sync:   a.synced,
		Logger: a.logger.Named("tui"),
	})
}
