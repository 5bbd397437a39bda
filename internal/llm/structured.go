package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExtractStep names the part of object extraction that rejected a reply.
type ExtractStep string

const (
	StepLocate  ExtractStep = "locate"  // no '{' in the reply
	StepBalance ExtractStep = "balance" // the object never closes
	StepDecode  ExtractStep = "decode"  // not valid JSON after repairs
)

// ExtractError reports why a model reply did not yield a JSON object. It
// matches ErrInvalidOutput under errors.Is.
type ExtractError struct {
	Step ExtractStep
	// Offset is the byte position inside the object where decoding failed,
	// or -1.
	Offset int64
	Err    error
}

func (e *ExtractError) Error() string {
	switch e.Step {
	case StepLocate:
		return fmt.Sprintf("%v: no JSON object in response", ErrInvalidOutput)
	case StepBalance:
		return fmt.Sprintf("%v: JSON object is not closed", ErrInvalidOutput)
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("%v: JSON syntax error at byte %d: %v", ErrInvalidOutput, e.Offset, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrInvalidOutput, e.Err)
}

func (e *ExtractError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidOutput}
	}
	return []error{ErrInvalidOutput, e.Err}
}

// Hint is an instruction that can be sent back to the model so its next
// reply avoids the same failure.
func (e *ExtractError) Hint() string {
	switch e.Step {
	case StepLocate:
		return "reply with exactly one JSON object and no other text"
	case StepBalance:
		return "the JSON object was cut off; close every brace and bracket"
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("the JSON object has a syntax error near byte %d; use strict JSON without comments or trailing commas", e.Offset)
	}
	return "use strict JSON without comments or trailing commas"
}

// ExtractObject returns the members of the first JSON object in a model
// reply, kept raw so callers can tell a missing key from a null or mistyped
// one. Markdown fences, prose around the object, comments and numbers
// written as ".5" are tolerated. Failures are *ExtractError.
func ExtractObject(raw string) (map[string]json.RawMessage, error) {
	body, err := objectSpan(dropFenceLines(raw))
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(repair(body)), &obj); err != nil {
		ee := &ExtractError{Step: StepDecode, Offset: -1, Err: err}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			ee.Offset = se.Offset
		}
		return nil, ee
	}
	return obj, nil
}

func dropFenceLines(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if !strings.HasPrefix(strings.TrimSpace(l), "```") {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

// quoting tracks whether the bytes fed to it are inside a string literal.
type quoting struct{ inString, escaped bool }

// quoted consumes c and reports whether it belongs to a string literal,
// quotes included.
func (q *quoting) quoted(c byte) bool {
	switch {
	case q.escaped:
		q.escaped = false
		return true
	case q.inString && c == '\\':
		q.escaped = true
		return true
	case c == '"':
		q.inString = !q.inString
		return true
	}
	return q.inString
}

// objectSpan returns the first balanced {...} in s.
func objectSpan(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", &ExtractError{Step: StepLocate, Offset: -1}
	}
	var q quoting
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		if q.quoted(c) {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", &ExtractError{Step: StepBalance, Offset: -1}
}

// repair drops // and /* */ comments and rewrites ".5" as "0.5", leaving
// string literals untouched.
func repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var q quoting
	for i := 0; i < len(s); i++ {
		c := s[i]
		if q.quoted(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					i = len(s)
					continue
				}
				i += end + 3
				continue
			}
		}
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && opensNumber(b.String()) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// opensNumber reports whether a value may start right after written.
func opensNumber(written string) bool {
	t := strings.TrimRight(written, " \t\r\n")
	if t == "" {
		return true
	}
	switch t[len(t)-1] {
	case ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
