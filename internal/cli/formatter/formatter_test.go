package formatter

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/importer"
	"github.com/alexanderramin/appletgen/internal/pipeline"
	"github.com/alexanderramin/appletgen/internal/synth"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "SLUG"},
		[][]string{{"1", "box-dimensions-challenge"}, {"22", "cone"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "ID  SLUG", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "──  ────────────────────────", lines[1])
	assert.Equal(t, "1   box-dimensions-challenge", lines[2])
	assert.Equal(t, "22  cone", lines[3])
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestampFrom(tt.at, now))
		})
	}
	assert.Contains(t, HumanTimestampFrom(now.Add(-72*time.Hour), now), "2026")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Áre…", Truncate("Área total", 4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", FormatDuration(0))
	assert.Equal(t, "1.5s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
}

func TestFormatError_StageAndViolations(t *testing.T) {
	err := &pipeline.StageError{
		Stage: domain.StageSynthesized,
		Err:   &synth.SynthesisError{Attempts: 3, Violations: []string{`missing required key "scene"`}},
	}
	out := stripANSI(FormatError(err))
	assert.Contains(t, out, "Run halted at stage synthesized")
	assert.Contains(t, out, `- missing required key "scene"`)
}

func TestFormatError_ValidationList(t *testing.T) {
	err := &importer.ValidationError{Errs: []error{errors.New("question_text is required"), errors.New("hint_2 is empty")}}
	out := stripANSI(FormatError(err))
	assert.Contains(t, out, "- question_text is required")
	assert.Contains(t, out, "- hint_2 is empty")
}

func TestFormatError_Plain(t *testing.T) {
	out := stripANSI(FormatError(errors.New("boom")))
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "boom")
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
	done := now.Add(-58 * time.Minute)
	runs := []*domain.Run{
		{ID: "0123456789abcdef", Slug: "box", Stage: domain.StageIndexed, Status: domain.RunSucceeded, StartedAt: now.Add(-time.Hour), FinishedAt: &done},
		{ID: "fedcba9876543210", Stage: domain.StageNormalized, Status: domain.RunFailed, Error: "synthesized: model unavailable", StartedAt: now.Add(-2 * time.Hour)},
	}

	out := stripANSI(FormatHistory(runs, now))
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "2m0s")
	assert.Contains(t, out, "synthesized: model unavailable")
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatHistory(nil, time.Now())), "No runs recorded.")
}

func TestFormatRecordSummary(t *testing.T) {
	rec := &domain.AppletRecord{QuestionText: "What is the volume?", Given: []string{"a", "b"}}
	out := stripANSI(FormatRecordSummary("Record", rec))
	assert.Contains(t, out, "(untitled)")
	assert.Contains(t, out, "What is the volume?")
	assert.Regexp(t, `GIVEN\s+2`, out)
	assert.Regexp(t, `SCENE\s+missing`, out)
}

func TestFormatRunResult(t *testing.T) {
	res := &pipeline.Result{
		RunID:         "0123456789abcdef",
		Stage:         domain.StageIndexed,
		Record:        &domain.AppletRecord{Title: "Box Dimensions Challenge"},
		Slug:          "box-dimensions-challenge",
		PagePath:      "output/index.html",
		PublishedPath: "public/box-dimensions-challenge/index.html",
		Indexed:       true,
		Added:         true,
	}
	out := stripANSI(FormatRunResult(res, 2*time.Second))
	assert.Contains(t, out, "Box Dimensions Challenge")
	assert.Contains(t, out, "public/box-dimensions-challenge/index.html")
	assert.Contains(t, out, "entry added")
	assert.Contains(t, out, "2.0s")
}
