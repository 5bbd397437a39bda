// Package normalize turns a section-headed text prompt into one canonical
// applet record.
//
// A prompt looks like:
//
//	TITLE: Box Dimensions Challenge
//	GRADE LEVEL: 6
//	QUESTION/PROMPT: A box is 2 by 3 by 4 units. What is its volume?
//	HINTS FOR SOLUTION:
//	- multiply the three edges
//	CONNECT QUESTIONS:
//	1. Doubling the height does what to the volume?
//	- CORRECT: doubles it
//	- WRONG: quadruples it
//
// Headers are matched case-insensitively. Unknown upper-case headers and
// their bodies are skipped.
package normalize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
)

// ErrMissingQuestion is returned when the prompt has no question text.
var ErrMissingQuestion = errors.New("prompt has no QUESTION/PROMPT section")

// maxLineBytes caps a single prompt line.
const maxLineBytes = 1 << 20

// NormalizeString is Normalize over an in-memory prompt.
func NormalizeString(s string) (*domain.AppletRecord, error) {
	return Normalize(strings.NewReader(s))
}

// Normalize scans the prompt line by line and builds the record.
func Normalize(r io.Reader) (*domain.AppletRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	b := newBuilder()
	state := stateStart
	for sc.Scan() {
		var ev event
		state, ev = step(state, strings.TrimRight(sc.Text(), "\r"))
		b.apply(state, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading prompt: %w", err)
	}

	rec := b.record()
	if strings.TrimSpace(rec.QuestionText) == "" {
		return nil, ErrMissingQuestion
	}
	return rec, nil
}
