package formatter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/importer"
	"github.com/alexanderramin/appletgen/internal/pipeline"
	"github.com/alexanderramin/appletgen/internal/synth"
)

// FormatRecordSummary shows which parts of a record are filled in.
func FormatRecordSummary(title string, rec *domain.AppletRecord) string {
	var b strings.Builder
	name := rec.Title
	if name == "" {
		name = Dim("(untitled)")
	} else {
		name = Bold(name)
	}
	b.WriteString(Field("title", name))
	b.WriteString(Field("question", Truncate(strings.ReplaceAll(rec.QuestionText, "\n", " "), 60)))
	b.WriteString(Field("given", countOrMissing(len(rec.Given))))
	b.WriteString(Field("to find", countOrMissing(len(rec.ToFind))))
	b.WriteString(Field("compute", countOrMissing(len(rec.ComputeSteps))))
	b.WriteString(Field("check", countOrMissing(len(rec.CheckSteps))))
	b.WriteString(Field("connect", countOrMissing(len(rec.ConnectQuestions))))
	if rec.HasScene() {
		b.WriteString(Field("scene", StyleGreen.Render("present")))
	} else {
		b.WriteString(Field("scene", StyleYellow.Render("missing")))
	}
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

func countOrMissing(n int) string {
	if n == 0 {
		return StyleYellow.Render("missing")
	}
	return StyleGreen.Render(fmt.Sprintf("%d", n))
}

// FormatRunResult renders the outcome of a successful pipeline run.
func FormatRunResult(res *pipeline.Result, elapsed time.Duration) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("Applet generated.") + "\n\n")
	if res.Record != nil {
		b.WriteString(Field("title", Bold(res.Record.Title)))
	}
	b.WriteString(Field("slug", res.Slug))
	b.WriteString(Field("stage", StageBadge(res.Stage)))
	b.WriteString(Field("page", res.PagePath))
	if res.PublishedPath != "" {
		b.WriteString(Field("public", res.PublishedPath))
	}
	if res.Indexed {
		verb := "updated"
		if res.Added {
			verb = "added"
		}
		b.WriteString(Field("index", "entry "+verb))
	}
	b.WriteString(Field("run", TruncID(res.RunID)+Dim("  "+FormatDuration(elapsed))))
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatError renders a failure, naming the stage and listing validation
// problems or model violations when the error carries them.
func FormatError(err error) string {
	var b strings.Builder

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		b.WriteString(StyleRed.Render("Run halted at stage "+string(stageErr.Stage)) + "\n")
	} else {
		b.WriteString(StyleRed.Render("Error") + "\n")
	}

	var details []string
	var verr *importer.ValidationError
	var serr *synth.SynthesisError
	switch {
	case errors.As(err, &verr):
		for _, e := range verr.Errs {
			details = append(details, e.Error())
		}
	case errors.As(err, &serr) && len(serr.Violations) > 0:
		details = serr.Violations
	}
	if len(details) == 0 {
		b.WriteString("  " + err.Error() + "\n")
		return b.String()
	}
	for _, d := range details {
		b.WriteString(StyleRed.Render("  - ") + d + "\n")
	}
	return b.String()
}

// FormatHistory renders runs as a table, newest first.
func FormatHistory(runs []*domain.Run, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No runs recorded.") + "\n"
	}
	headers := []string{"ID", "STARTED", "STATUS", "STAGE", "SLUG", "TIME", "ERROR"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		slug := r.Slug
		if slug == "" {
			slug = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			HumanTimestampFrom(r.StartedAt, now),
			StatusPill(r.Status),
			StageBadge(r.Stage),
			slug,
			FormatDuration(r.Duration()),
			Dim(Truncate(r.Error, 40)),
		})
	}
	return RenderBox("Runs", strings.TrimRight(RenderTable(headers, rows), "\n"))
}

// FormatRunDetail renders one run and the stages it passed through.
func FormatRunDetail(run *domain.Run, events []domain.RunEvent) string {
	var b strings.Builder
	b.WriteString(Field("id", run.ID))
	b.WriteString(Field("input", run.InputPath))
	if run.Title != "" {
		b.WriteString(Field("title", Bold(run.Title)))
	}
	b.WriteString(Field("status", StatusPill(run.Status)))
	b.WriteString(Field("stage", StageBadge(run.Stage)))
	if run.Error != "" {
		b.WriteString(Field("error", StyleRed.Render(run.Error)))
	}
	if len(events) > 0 {
		b.WriteString("\n" + Header("Stages") + "\n")
		for _, ev := range events {
			b.WriteString(fmt.Sprintf("  %s  %s\n", Dim(ev.At.Local().Format("15:04:05")), StageBadge(ev.Stage)))
		}
	}
	return RenderBox(run.Slug, strings.TrimRight(b.String(), "\n"))
}
