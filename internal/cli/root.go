// Package cli implements the appletgen command tree.
package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/appletgen/internal/config"
	"github.com/alexanderramin/appletgen/internal/db"
	"github.com/alexanderramin/appletgen/internal/llm"
	"github.com/alexanderramin/appletgen/internal/logger"
	"github.com/spf13/cobra"
)

// reportedError wraps an error whose details a command already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already shown to the user, so the caller
// should only set the exit status.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// App carries the resolved configuration and the collaborators commands
// share. The function fields are seams for tests; nil selects the real
// implementation.
type App struct {
	NewLLMClient  func(cfg llm.LLMConfig, obs llm.Observer) (llm.LLMClient, error)
	IsInteractive func() bool
	FillDraft     func(a *DraftAnswers) error
	Now           func() time.Time

	configPath string
	logMode    string

	cfg     config.Config
	log     *logger.Logger
	history *sql.DB
}

// NewRootCmd creates the top-level "appletgen" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "appletgen",
		Short:         "Turn math problems into interactive Zdog applets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().StringVar(&app.logMode, "log-mode", "", "log output: dev, prod or quiet")

	root.AddCommand(
		newNormalizeCmd(app),
		newSynthesizeCmd(app),
		newAssembleCmd(app),
		newIndexCmd(app),
		newPublishCmd(app),
		newRunCmd(app),
		newHistoryCmd(app),
		newDraftCmd(app),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-mode") {
		cfg.LogMode = a.logMode
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.With("command", cmd.Name())
	return nil
}

// Close releases the history database and flushes the logger.
func (a *App) Close() {
	if a.history != nil {
		a.history.Close()
		a.history = nil
	}
	if a.log != nil {
		a.log.Sync()
	}
}

func (a *App) logger() *logger.Logger {
	if a.log == nil {
		return logger.Nop()
	}
	return a.log
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) llmClient() (llm.LLMClient, error) {
	var obs llm.Observer = llm.NoopObserver{}
	if a.cfg.LLM.LogCalls {
		obs = llm.NewLogObserver(a.logger())
	}
	if a.NewLLMClient != nil {
		return a.NewLLMClient(a.cfg.LLM, obs)
	}
	return llm.NewClient(a.cfg.LLM, obs)
}

// historyDB opens the run ledger on first use.
func (a *App) historyDB() (*sql.DB, error) {
	if a.history != nil {
		return a.history, nil
	}
	if !a.cfg.History.Enabled {
		return nil, fmt.Errorf("run history is disabled")
	}
	database, err := db.OpenDB(a.cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	a.history = database
	return database, nil
}

// stringFlag returns the flag value when it was set and fallback otherwise.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}
