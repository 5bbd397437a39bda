package cli

import (
	"fmt"

	"github.com/alexanderramin/appletgen/internal/cli/formatter"
	"github.com/alexanderramin/appletgen/internal/repository"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var slug string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := app.historyDB()
			if err != nil {
				return err
			}
			runs := repository.NewSQLiteRunRepo(database)
			ctx := cmd.Context()

			if slug != "" {
				run, err := runs.LatestBySlug(ctx, slug)
				if err != nil {
					return fmt.Errorf("latest run for %s: %w", slug, err)
				}
				events, err := runs.ListEvents(ctx, run.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRunDetail(run, events))
				return nil
			}

			list, err := runs.ListRecent(ctx, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(list, app.now()))
			if len(list) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show (0 for all)")
	cmd.Flags().StringVar(&slug, "slug", "", "show the latest run for one applet")
	return cmd
}
