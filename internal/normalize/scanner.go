package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// state is the section the scanner is currently inside.
type state int

const (
	stateStart state = iota
	stateTitle
	stateGrade
	stateConcept
	stateObjectives
	stateQuestion
	stateHints
	stateConnect
	stateNotes
	stateIgnored
)

var headers = map[string]state{
	"TITLE":               stateTitle,
	"GRADE LEVEL":         stateGrade,
	"GRADE":               stateGrade,
	"CONCEPT":             stateConcept,
	"LEARNING OBJECTIVES": stateObjectives,
	"OBJECTIVES":          stateObjectives,
	"QUESTION/PROMPT":     stateQuestion,
	"QUESTION":            stateQuestion,
	"PROMPT":              stateQuestion,
	"HINTS FOR SOLUTION":  stateHints,
	"HINTS":               stateHints,
	"CONNECT QUESTIONS":   stateConnect,
	"ADDITIONAL NOTES":    stateNotes,
	"NOTES":               stateNotes,
}

// optionLabels look like headers but are connect-question content. The value
// is whether the option counts as correct.
var optionLabels = map[string]bool{
	"CORRECT":   true,
	"WRONG":     false,
	"INCORRECT": false,
}

var headerRe = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z /]*?)\s*:\s*(.*)$`)

type eventKind int

const (
	evNone eventKind = iota
	evHeader
	evLine
)

// event is what a line contributes to the section it lands in.
type event struct {
	kind eventKind
	text string
}

// step is the scanner transition. It is pure: the next state and the event
// depend only on the current state and the line.
func step(cur state, line string) (state, event) {
	if m := headerRe.FindStringSubmatch(line); m != nil {
		name := strings.ToUpper(strings.Join(strings.Fields(m[1]), " "))
		if next, ok := headers[name]; ok {
			return next, event{kind: evHeader, text: m[2]}
		}
		if _, isOption := optionLabels[name]; !isOption && isHeaderShaped(m[1]) {
			return stateIgnored, event{kind: evNone}
		}
	}
	if cur == stateIgnored || cur == stateStart {
		return cur, event{kind: evNone}
	}
	return cur, event{kind: evLine, text: line}
}

// isHeaderShaped reports whether name is written in capitals and long enough
// not to be a variable like "V" or "A".
func isHeaderShaped(name string) bool {
	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 3
}
