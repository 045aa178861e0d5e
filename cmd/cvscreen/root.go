package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/client"
	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/session"
)

var rootCmd = &cobra.Command{
	Use:           "cvscreen",
	Short:         "Command line client for the CV screening API",
	Long:          "cvscreen signs in to a CV screening backend, uploads resumes and browses requirements, candidates and scores.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	baseURLFlag       string
	sessionDriverFlag string
	sessionPathFlag   string
	verboseFlag       bool
)

var errNotAuthenticated = errors.New("not logged in, run 'cvscreen login' first")

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "API base URL (overrides CV_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionDriverFlag, "session-driver", "", "Session store: sqlite, postgres or memory (overrides SESSION_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&sessionPathFlag, "session-path", "", "Path of the sqlite session database (overrides SESSION_DB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log every request")
}

// app bundles what a command needs. Close releases the session database.
type app struct {
	client *client.Client
	logger *zap.Logger
	close  func()
}

func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
	_ = a.logger.Sync()
}

func newApp() (*app, error) {
	cfg := config.Load()
	if baseURLFlag != "" {
		cfg.Client.BaseURL = baseURLFlag
	}
	if sessionDriverFlag != "" {
		cfg.Session.Driver = sessionDriverFlag
	}
	if sessionPathFlag != "" {
		cfg.Session.Path = sessionPathFlag
	}
	verbose := cfg.Client.Verbose || verboseFlag

	logger := zap.NewNop()
	if verbose {
		logger = config.NewLogger("development", true)
	}

	a := &app{logger: logger}

	var store session.Store
	if cfg.Session.Driver == "memory" {
		store = session.NewMemoryStore()
	} else {
		origin, err := session.Origin(cfg.Client.BaseURL)
		if err != nil {
			return nil, err
		}
		db, err := config.InitSessionDatabase(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open session store: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.close = func() { _ = sqlDB.Close() }
		}
		store = session.NewPersistentStore(repositories.NewSessionRepository(db), origin)
	}

	c, err := client.New(cfg.Client.BaseURL, store, client.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = c
	return a, nil
}

// newAuthedApp is newApp for commands that need a stored token.
func newAuthedApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if !a.client.Utils.IsAuthenticated() {
		a.Close()
		return nil, errNotAuthenticated
	}
	return a, nil
}

// resultError turns a failed envelope into a command error.
func resultError[T any](r *models.Result[T]) error {
	if r.Success {
		return nil
	}
	return errors.New(client.FormatError(r.Message))
}
