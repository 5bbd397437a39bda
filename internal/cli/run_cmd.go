package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/appletgen/internal/cli/formatter"
	"github.com/alexanderramin/appletgen/internal/db"
	"github.com/alexanderramin/appletgen/internal/deploy"
	"github.com/alexanderramin/appletgen/internal/pipeline"
	"github.com/alexanderramin/appletgen/internal/synth"
	"github.com/spf13/cobra"
)

func newRunCmd(app *App) *cobra.Command {
	var in pipeline.Input
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every stage from a prompt or record to the published index",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := app.newRunner(cmd, noHistory)
			if err != nil {
				return err
			}

			started := app.now()
			var res *pipeline.Result
			err = formatter.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Generating applet...", app.interactive(),
				func(ctx context.Context) error {
					var err error
					res, err = runner.Run(ctx, in)
					return err
				})
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err))
				return &reportedError{err: err}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRunResult(res, app.now().Sub(started)))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.PromptPath, "prompt", "", "section-headed text prompt")
	cmd.Flags().StringVar(&in.CSVPath, "csv", "", "record CSV")
	cmd.Flags().String("public-dir", "", "public site directory (default from config; empty skips deploy and index)")
	cmd.Flags().String("output-dir", "", "artifact directory (default from config)")
	cmd.Flags().String("slug-file", "", "file receiving the slug (default from config)")
	cmd.Flags().String("library", "", "local zdog.dist.min.js to install when the site lacks one")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the run in the history database")
	cmd.MarkFlagsMutuallyExclusive("prompt", "csv")
	cmd.MarkFlagsOneRequired("prompt", "csv")
	return cmd
}

func (a *App) newRunner(cmd *cobra.Command, noHistory bool) (*pipeline.Runner, error) {
	client, err := a.llmClient()
	if err != nil {
		return nil, err
	}

	r := &pipeline.Runner{
		Synth:     synth.New(client, synth.Config{MaxAttempts: a.cfg.Synth.MaxAttempts}, a.logger()),
		OutputDir: stringFlag(cmd, "output-dir", a.cfg.Output.Dir),
		SlugFile:  stringFlag(cmd, "slug-file", a.cfg.Output.SlugFile),
		Observer:  pipeline.NewLogStageObserver(a.logger()),
		Log:       a.logger(),
	}
	if dir := stringFlag(cmd, "public-dir", a.cfg.Public.Dir); dir != "" {
		r.Publisher = &deploy.Publisher{
			PublicDir:     dir,
			LibrarySource: stringFlag(cmd, "library", a.cfg.Public.LibrarySource),
			Log:           a.logger(),
		}
	}
	if a.cfg.History.Enabled && !noHistory {
		database, err := a.historyDB()
		if err != nil {
			return nil, err
		}
		r.Ledger = pipeline.NewSQLLedger(db.NewSQLiteUnitOfWork(database))
	}
	return r, nil
}
