package normalize

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
)

const bulletMarker = "- "

var questionStartRe = regexp.MustCompile(`^\s*\d+[.)]\s*(.*)$`)

// builder accumulates section content as events arrive.
type builder struct {
	scalars    map[state][]string
	objectives []string
	hints      []string
	connect    []domain.ConnectQuestion
}

func newBuilder() *builder {
	return &builder{scalars: make(map[state][]string)}
}

func (b *builder) apply(s state, ev event) {
	switch ev.kind {
	case evNone:
		return
	case evHeader:
		// Text after the colon is the first content line of the section.
		if strings.TrimSpace(ev.text) == "" {
			return
		}
	}

	switch s {
	case stateTitle, stateGrade, stateConcept, stateQuestion, stateNotes:
		b.scalars[s] = append(b.scalars[s], ev.text)
	case stateObjectives:
		b.objectives = appendListLine(b.objectives, ev.text)
	case stateHints:
		b.hints = appendListLine(b.hints, ev.text)
	case stateConnect:
		b.connectLine(ev.text)
	}
}

// appendListLine starts a new entry on a bullet, otherwise continues the
// previous one. Blank lines are skipped.
func appendListLine(items []string, line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return items
	}
	if text, ok := cutBullet(trimmed); ok {
		if text == "" {
			return items
		}
		return append(items, text)
	}
	if len(items) == 0 {
		return append(items, trimmed)
	}
	items[len(items)-1] += " " + trimmed
	return items
}

func cutBullet(trimmed string) (string, bool) {
	if trimmed == "-" {
		return "", true
	}
	if rest, ok := strings.CutPrefix(trimmed, bulletMarker); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

func (b *builder) connectLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if m := questionStartRe.FindStringSubmatch(trimmed); m != nil {
		b.connect = append(b.connect, domain.ConnectQuestion{Question: strings.TrimSpace(m[1])})
		return
	}

	text, bullet := cutBullet(trimmed)
	if !bullet {
		text = trimmed
	}
	if opt, ok := parseOption(text); ok {
		b.addOption(opt)
		return
	}
	if bullet {
		if text != "" {
			b.addOption(domain.Option{Text: text})
		}
		return
	}

	// Untagged continuation line.
	if len(b.connect) == 0 {
		b.connect = append(b.connect, domain.ConnectQuestion{Question: trimmed})
		return
	}
	q := &b.connect[len(b.connect)-1]
	if n := len(q.Options); n > 0 {
		q.Options[n-1].Text = joinSpace(q.Options[n-1].Text, trimmed)
		return
	}
	q.Question = joinSpace(q.Question, trimmed)
}

func (b *builder) addOption(o domain.Option) {
	if len(b.connect) == 0 {
		b.connect = append(b.connect, domain.ConnectQuestion{})
	}
	q := &b.connect[len(b.connect)-1]
	q.Options = append(q.Options, o)
}

// parseOption recognizes a labelled option such as "WRONG: text".
func parseOption(s string) (domain.Option, bool) {
	label, rest, found := strings.Cut(s, ":")
	if !found {
		return domain.Option{}, false
	}
	correct, ok := optionLabels[strings.ToUpper(strings.TrimSpace(label))]
	if !ok {
		return domain.Option{}, false
	}
	return domain.Option{Text: strings.TrimSpace(rest), Correct: correct}, true
}

func joinSpace(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}

func (b *builder) record() *domain.AppletRecord {
	return &domain.AppletRecord{
		Title:              b.scalar(stateTitle),
		QuestionText:       b.scalar(stateQuestion),
		GradeLevel:         b.scalar(stateGrade),
		Concept:            b.scalar(stateConcept),
		AdditionalNotes:    b.scalar(stateNotes),
		LearningObjectives: b.objectives,
		Hints:              b.hints,
		ConnectQuestions:   b.connect,
	}
}

// scalar joins the section lines verbatim, trimming outer blank lines.
func (b *builder) scalar(s state) string {
	lines := b.scalars[s]
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return ""
	}
	out := make([]string, end-start)
	for i, l := range lines[start:end] {
		out[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(out, "\n")
}
