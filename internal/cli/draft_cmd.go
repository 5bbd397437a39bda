package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/appletgen/internal/cli/formatter"
	"github.com/alexanderramin/appletgen/internal/fsutil"
	"github.com/alexanderramin/appletgen/internal/normalize"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// DraftAnswers holds what the draft wizard collects. Multi-line list
// fields take one entry per line.
type DraftAnswers struct {
	Title      string
	GradeLevel string
	Concept    string
	Objectives string
	Question   string
	Hints      string
	Notes      string
}

var errNotInteractive = errors.New("draft needs an interactive terminal")

func newDraftCmd(app *App) *cobra.Command {
	var out string
	var force bool

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Write a text prompt through an interactive form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				exists, err := fsutil.Exists(out)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("%s already exists (use --force to overwrite)", out)
				}
			}

			fill := app.FillDraft
			if fill == nil {
				if !app.interactive() {
					return errNotInteractive
				}
				fill = runDraftForm
			}

			var a DraftAnswers
			if err := fill(&a); err != nil {
				return err
			}

			prompt := a.Prompt()
			rec, err := normalize.NormalizeString(prompt)
			if err != nil {
				return err
			}
			if err := fsutil.WriteFileAtomic(out, []byte(prompt), 0o644); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecordSummary("Draft", rec))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Next: appletgen run --prompt %s\n", out, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "prompt.txt", "prompt file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// Prompt renders the answers as a section-headed prompt the normalizer
// reads back.
func (a DraftAnswers) Prompt() string {
	var b strings.Builder
	scalar := func(header, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if strings.Contains(value, "\n") {
			fmt.Fprintf(&b, "%s:\n%s\n", header, value)
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", header, value)
	}
	list := func(header, value string) {
		var items []string
		for _, line := range strings.Split(value, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
			if line != "" {
				items = append(items, "- "+line)
			}
		}
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n%s\n", header, strings.Join(items, "\n"))
	}

	scalar("TITLE", a.Title)
	scalar("GRADE LEVEL", a.GradeLevel)
	scalar("CONCEPT", a.Concept)
	list("LEARNING OBJECTIVES", a.Objectives)
	scalar("QUESTION/PROMPT", a.Question)
	list("HINTS FOR SOLUTION", a.Hints)
	scalar("ADDITIONAL NOTES", a.Notes)
	return b.String()
}

func runDraftForm(a *DraftAnswers) error {
	return draftForm(a).Run()
}

func draftForm(a *DraftAnswers) *huh.Form {
	required := func(name string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", name)
			}
			return nil
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Shown on the index card; the synthesizer invents one when empty.").
				Value(&a.Title),
			huh.NewInput().
				Title("Grade level").
				Placeholder("6").
				Value(&a.GradeLevel),
			huh.NewInput().
				Title("Concept").
				Placeholder("Volume of rectangular prisms").
				Value(&a.Concept),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Question").
				Description("The problem exactly as students read it.").
				Value(&a.Question).
				Validate(required("question")),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Learning objectives").
				Description("One per line.").
				Value(&a.Objectives),
			huh.NewText().
				Title("Hints").
				Description("One per line.").
				Value(&a.Hints),
			huh.NewText().
				Title("Additional notes").
				Value(&a.Notes),
		),
	).WithTheme(appletgenHuhTheme()).WithShowHelp(false)
}

// appletgenHuhTheme styles huh forms with the formatter palette.
func appletgenHuhTheme() *huh.Theme {
	t := huh.ThemeBase()
	accent := lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	dim := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	fg := lipgloss.NewStyle().Foreground(formatter.ColorFg)

	t.Focused.Title = accent.Bold(true)
	t.Focused.Description = dim
	t.Focused.TextInput.Cursor = accent
	t.Focused.TextInput.Prompt = accent
	t.Focused.TextInput.Text = fg
	t.Focused.TextInput.Placeholder = dim
	t.Focused.FocusedButton = fg.Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = dim.Padding(0, 1)

	t.Blurred.Title = dim
	t.Blurred.TextInput.Prompt = dim
	t.Blurred.TextInput.Text = dim
	return t
}
