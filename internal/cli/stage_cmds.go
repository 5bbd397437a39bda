package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/appletgen/internal/assembler"
	"github.com/alexanderramin/appletgen/internal/catalog"
	"github.com/alexanderramin/appletgen/internal/cli/formatter"
	"github.com/alexanderramin/appletgen/internal/deploy"
	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/fsutil"
	"github.com/alexanderramin/appletgen/internal/importer"
	"github.com/alexanderramin/appletgen/internal/normalize"
	"github.com/alexanderramin/appletgen/internal/synth"
	"github.com/spf13/cobra"
)

// stdoutPath selects standard output for --out.
const stdoutPath = "-"

func newNormalizeCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "normalize PROMPT",
		Short: "Convert a section-headed text prompt into the record CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rec, err := normalize.Normalize(f)
			if err != nil {
				return err
			}
			if err := importer.Validate(rec); err != nil {
				return err
			}

			if out == stdoutPath {
				return importer.WriteRecord(cmd.OutOrStdout(), rec)
			}
			if err := writeRecordFile(out, rec); err != nil {
				return err
			}
			app.logger().Info("record normalized", "input", args[0], "output", out)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecordSummary("Normalized", rec))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "applet_data.csv", `output CSV ("-" for stdout)`)
	return cmd
}

func newSynthesizeCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "synthesize CSV",
		Short: "Fill the missing fields of a record and generate its scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := loadValidRecord(args[0])
			if err != nil {
				return err
			}

			client, err := app.llmClient()
			if err != nil {
				return err
			}
			s := synth.New(client, synth.Config{MaxAttempts: app.cfg.Synth.MaxAttempts}, app.logger())

			var enriched *domain.AppletRecord
			err = formatter.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Synthesizing applet content...", app.interactive(),
				func(ctx context.Context) error {
					var err error
					enriched, err = s.Synthesize(ctx, rec)
					return err
				})
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err))
				return &reportedError{err: err}
			}

			if out == "" {
				out = args[0]
			}
			if out == stdoutPath {
				return importer.WriteRecord(cmd.OutOrStdout(), enriched)
			}
			if err := writeRecordFile(out, enriched); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecordSummary("Synthesized", enriched))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", `output CSV (default: rewrite the input, "-" for stdout)`)
	return cmd
}

func newAssembleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble CSV",
		Short: "Render a resolved record into the applet page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir := stringFlag(cmd, "output-dir", app.cfg.Output.Dir)
			slugFile := stringFlag(cmd, "slug-file", app.cfg.Output.SlugFile)

			rec, err := loadValidRecord(args[0])
			if err != nil {
				return err
			}
			art, err := assembler.Assemble(rec)
			if err != nil {
				return err
			}
			if err := assembler.WriteArtifact(outputDir, slugFile, art); err != nil {
				return err
			}

			app.logger().Info("applet assembled", "slug", art.Slug, "bytes", len(art.HTML))
			fmt.Fprintf(cmd.OutOrStdout(), "Assembled %s -> %s\n", formatter.Bold(art.Slug), outputDir)
			return nil
		},
	}

	cmd.Flags().String("output-dir", "", "artifact directory (default from config)")
	cmd.Flags().String("slug-file", "", "file receiving the slug (default from config)")
	return cmd
}

func newIndexCmd(app *App) *cobra.Command {
	var slug, title, description string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Add or update an applet card on the public index page",
		RunE: func(cmd *cobra.Command, args []string) error {
			publicDir := stringFlag(cmd, "public-dir", app.cfg.Public.Dir)
			if publicDir == "" {
				return deploy.ErrNoPublicDir
			}
			if want := domain.Slugify(slug); want != slug {
				return fmt.Errorf("slug %q is not normalized (did you mean %q?)", slug, want)
			}

			ctx := cmd.Context()
			store := catalog.Store{Dir: publicDir}
			cat, err := store.Read(ctx)
			if err != nil {
				return fmt.Errorf("reading index: %w", err)
			}
			added := cat.Upsert(domain.CatalogEntry{
				Slug:        slug,
				Title:       title,
				Description: description,
			})
			if err := store.Write(ctx, cat); err != nil {
				return fmt.Errorf("writing index: %w", err)
			}

			verb := "Updated"
			if added {
				verb = "Added"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d applets)\n", verb, formatter.Bold(slug), cat.Len())
			return nil
		},
	}

	cmd.Flags().String("public-dir", "", "public site directory (default from config)")
	cmd.Flags().StringVar(&slug, "slug", "", "applet slug")
	cmd.Flags().StringVar(&title, "title", "", "card title")
	cmd.Flags().StringVar(&description, "description", "", "card description")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newPublishCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy the assembled applet into the public site",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &deploy.Publisher{
				PublicDir:     stringFlag(cmd, "public-dir", app.cfg.Public.Dir),
				LibrarySource: stringFlag(cmd, "library", app.cfg.Public.LibrarySource),
				Log:           app.logger(),
			}
			outputDir := stringFlag(cmd, "output-dir", app.cfg.Output.Dir)
			slugFile := stringFlag(cmd, "slug-file", app.cfg.Output.SlugFile)

			slug, err := p.Publish(cmd.Context(), outputDir, slugFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s\n", formatter.Bold(slug))
			return nil
		},
	}

	cmd.Flags().String("public-dir", "", "public site directory (default from config)")
	cmd.Flags().String("output-dir", "", "artifact directory (default from config)")
	cmd.Flags().String("slug-file", "", "slug file written by assemble (default from config)")
	cmd.Flags().String("library", "", "local zdog.dist.min.js to install when the site lacks one")
	return cmd
}

func loadValidRecord(path string) (*domain.AppletRecord, error) {
	rec, err := importer.LoadRecord(path)
	if err != nil {
		return nil, err
	}
	if err := importer.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func writeRecordFile(path string, rec *domain.AppletRecord) error {
	return fsutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return importer.WriteRecord(w, rec)
	})
}
