package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dori/focusboard/internal/board"
	"github.com/dori/focusboard/internal/calendar"
	"github.com/dori/focusboard/internal/config"
	"github.com/dori/focusboard/internal/db"
	"github.com/dori/focusboard/internal/focus"
	"github.com/dori/focusboard/internal/logging"
	"github.com/dori/focusboard/internal/model"
	"github.com/dori/focusboard/internal/notify"
	"github.com/dori/focusboard/internal/window"
	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// DefaultProjectTitle names the project created when none exist.
const DefaultProjectTitle = "Personal"

// ErrLocked is returned when another focusboard process holds the data directory.
var ErrLocked = errors.New("another instance of focusboard is already running")

// App holds the application state and dependencies
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *db.DB
	Projects *board.Projects
	Notifier *notify.Notifier
	Window   window.Controller
	Calendar *calendar.Service
	DataDir  string

	logCloser io.Closer
	calRepo   *calendar.SQLRepo
	lockFile  *flock.Flock
}

// Options controls how New opens the data directory.
type Options struct {
	// Exclusive takes the instance lock. Anything that writes board
	// snapshots must hold it so two writers never interleave.
	Exclusive bool
}

// New creates a new application instance
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger, closer, err := logging.New(cfg.Data.Dir, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Log:       logger,
		DataDir:   cfg.Data.Dir,
		Notifier:  notify.NewNotifier(cfg.Notify.Enabled),
		logCloser: closer,
	}

	if opts.Exclusive {
		if err := app.acquireLock(); err != nil {
			closer.Close()
			return nil, err
		}
	}

	database, err := db.Open(filepath.Join(cfg.Data.Dir, "focusboard.db"))
	if err != nil {
		app.releaseLock()
		closer.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	app.Projects = board.OpenProjects(database, board.Options{Logger: &app.Log})

	// A nil *CommandController must not become a non-nil interface.
	if wc := window.NewCommandController(cfg.Window.CompactCommand, cfg.Window.RestoreCommand, logger.With().Str("component", "window").Logger()); wc != nil {
		app.Window = wc
	}

	if err := app.openCalendar(); err != nil {
		app.Log.Warn().Err(err).Msg("calendar store unavailable")
	}

	app.Log.Debug().Str("data_dir", cfg.Data.Dir).Bool("exclusive", opts.Exclusive).Msg("app started")
	return app, nil
}

func (a *App) openCalendar() error {
	cfg := a.Config.Calendar
	calLog := a.Log.With().Str("component", "calendar").Logger()

	var repo *calendar.SQLRepo
	switch cfg.StoreDriver {
	case "postgres":
		r, err := calendar.OpenRepo(context.Background(), "postgres", cfg.StoreDSN)
		if err != nil {
			// keep a working service over the local store
			a.Calendar = calendar.New(cfg, calendar.NewSQLRepo(sqlx.NewDb(a.DB.DB, "sqlite3")), calendar.Options{Logger: &calLog})
			return err
		}
		a.calRepo = r
		repo = r
	default:
		repo = calendar.NewSQLRepo(sqlx.NewDb(a.DB.DB, "sqlite3"))
	}
	a.Calendar = calendar.New(cfg, repo, calendar.Options{Logger: &calLog})
	return nil
}

// Board opens the board of one project
func (a *App) Board(projectID string) *board.Store {
	l := a.Log.With().Str("board", projectID).Logger()
	return board.Open(a.DB, projectID, board.Options{Logger: &l})
}

// Timer returns a focus timer wired to the window controller and session history.
func (a *App) Timer(b focus.Board) *focus.Timer {
	l := a.Log.With().Str("component", "focus").Logger()
	return focus.New(b, focus.Options{
		Window:   a.Window,
		Recorder: a.DB,
		Logger:   &l,
	})
}

// DefaultProject returns the first project, creating one when the list is empty.
func (a *App) DefaultProject() model.Project {
	if list := a.Projects.List(); len(list) > 0 {
		return list[0]
	}
	p, _ := a.Projects.Add(DefaultProjectTitle, "")
	return p
}

// ResolveProject finds a project by id or title; empty ref means the default project.
func (a *App) ResolveProject(ref string) (model.Project, error) {
	if ref == "" {
		return a.DefaultProject(), nil
	}
	return a.Projects.Find(ref)
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "focusboard.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return ErrLocked
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if wc, ok := a.Window.(*window.CommandController); ok {
		wc.Wait()
	}

	if a.calRepo != nil {
		if err := a.calRepo.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close calendar store: %w", err))
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if a.logCloser != nil {
		a.logCloser.Close()
	}

	return errors.Join(errs...)
}
