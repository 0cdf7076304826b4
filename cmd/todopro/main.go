// Command todopro is a terminal host for the task data layer: accounts,
// categories, and the filtered task list, persisted in a local SQLite file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mlefevre/todopro/internal/auth"
	"github.com/mlefevre/todopro/internal/category"
	"github.com/mlefevre/todopro/internal/pipeline"
	"github.com/mlefevre/todopro/internal/prefs"
	"github.com/mlefevre/todopro/internal/session"
	"github.com/mlefevre/todopro/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "todopro:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		dbPath     = flag.String("db", "", "path to the SQLite database (default: config dir)")
		configDir  = flag.String("config", "", "config directory (default: ~/.config/todopro)")
		useKeyring = flag.Bool("keyring", true, "store the session in the system keyring")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	dir := *configDir
	if dir == "" {
		dir = prefs.DefaultDir()
	}

	preferences, err := prefs.Open(filepath.Join(dir, "prefs.yaml"))
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	if installID, err := preferences.InstallationID(); err == nil {
		logger.Debug("preferences loaded", "dir", dir, "installation", installID)
	}

	path := *dbPath
	if path == "" {
		path = filepath.Join(dir, "todopro.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	logger.Debug("store opened", "path", path)

	var sess session.Store = session.NewPrefsStore(preferences)
	if *useKeyring {
		if ks, err := session.NewKeyringStore(dir); err != nil {
			logger.Warn("keyring unavailable, falling back to preferences", "error", err)
		} else {
			sess = ks
		}
	}

	app := &App{
		logger:     logger,
		prefs:      preferences,
		auth:       auth.New(st, sess),
		categories: category.NewRegistry(preferences),
		tasks:      pipeline.New(st),
	}
	app.tasks.OnError(func(err error) {
		logger.Error("task write failed", "error", err)
	})

	return app.Run()
}
