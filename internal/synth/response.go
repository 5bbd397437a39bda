package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/importer"
	"github.com/alexanderramin/appletgen/internal/llm"
	"github.com/alexanderramin/appletgen/internal/scene"
)

// filled holds the validated values of the requested keys.
type filled struct {
	title        string
	given        []string
	toFind       []string
	computeSteps []string
	checkSteps   []string
	connect      []domain.ConnectQuestion
	scene        json.RawMessage
}

// parseResponse validates text against the requested keys. Keys the model
// returns without being asked are ignored.
func parseResponse(text string, required []Key) (*filled, []string) {
	obj, err := llm.ExtractObject(text)
	if err != nil {
		var ee *llm.ExtractError
		if errors.As(err, &ee) {
			return nil, []string{fmt.Sprintf("response is not a usable JSON object (%s step failed): %s", ee.Step, ee.Hint())}
		}
		return nil, []string{fmt.Sprintf("response is not a JSON object: %v", err)}
	}

	out := &filled{}
	var violations []string
	for _, k := range required {
		raw, ok := obj[string(k)]
		if !ok || string(raw) == "null" {
			violations = append(violations, fmt.Sprintf("missing required key %q", k))
			continue
		}
		violations = append(violations, out.decode(k, raw)...)
	}
	if len(violations) > 0 {
		return nil, violations
	}
	return out, nil
}

func (f *filled) decode(k Key, raw json.RawMessage) []string {
	switch k {
	case KeyTitle:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return []string{fmt.Sprintf("%q must be a string", k)}
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.ContainsAny(s, "\r\n") {
			return []string{fmt.Sprintf("%q must be a non-empty single line", k)}
		}
		f.title = s
	case KeyGiven, KeyToFind:
		items, errs := decodeStrings(k, raw)
		if len(errs) > 0 {
			return errs
		}
		if errs := checkFacts(k, items); len(errs) > 0 {
			return errs
		}
		if k == KeyGiven {
			f.given = items
		} else {
			f.toFind = items
		}
	case KeyComputeSteps, KeyCheckSteps:
		items, errs := decodeStrings(k, raw)
		if len(errs) > 0 {
			return errs
		}
		if k == KeyComputeSteps {
			f.computeSteps = items
		} else {
			f.checkSteps = items
		}
	case KeyConnectQuestions:
		var qs []domain.ConnectQuestion
		if err := json.Unmarshal(raw, &qs); err != nil {
			return []string{fmt.Sprintf("%q must be an array of {question, options[{text, correct}]}: %v", k, err)}
		}
		if len(qs) == 0 {
			return []string{fmt.Sprintf("%q must not be empty", k)}
		}
		for i := range qs {
			qs[i].Question = strings.TrimSpace(qs[i].Question)
			for j := range qs[i].Options {
				qs[i].Options[j].Text = strings.TrimSpace(qs[i].Options[j].Text)
			}
		}
		if errs := importer.ValidateConnectQuestions(qs); len(errs) > 0 {
			return errorStrings(errs)
		}
		f.connect = qs
	case KeyScene:
		if errs := scene.Validate(raw); len(errs) > 0 {
			return errorStrings(errs)
		}
		compact, err := scene.Compact(raw)
		if err != nil {
			return []string{err.Error()}
		}
		f.scene = compact
	}
	return nil
}

// decodeStrings requires a non-empty array of non-empty strings.
func decodeStrings(k Key, raw json.RawMessage) ([]string, []string) {
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, []string{fmt.Sprintf("%q must be an array of strings", k)}
	}
	if len(items) == 0 {
		return nil, []string{fmt.Sprintf("%q must not be empty", k)}
	}
	var errs []string
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
		if items[i] == "" {
			errs = append(errs, fmt.Sprintf("%q[%d] must not be empty", k, i))
		}
	}
	return items, errs
}

func checkFacts(k Key, items []string) []string {
	var errs []string
	for i, s := range items {
		if strings.ContainsAny(s, "\r\n") {
			errs = append(errs, fmt.Sprintf("%q[%d] must be a single line", k, i))
		}
		if n := len([]rune(s)); n > MaxFactLength {
			errs = append(errs, fmt.Sprintf("%q[%d] is %d characters, limit is %d", k, i, n, MaxFactLength))
		}
	}
	return errs
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// apply copies the filled values into rec. Only keys that were absent are
// ever requested, so present fields are never overwritten.
func (f *filled) apply(rec *domain.AppletRecord, required []Key) {
	for _, k := range required {
		switch k {
		case KeyTitle:
			rec.Title = f.title
		case KeyGiven:
			rec.Given = f.given
		case KeyToFind:
			rec.ToFind = f.toFind
		case KeyComputeSteps:
			rec.ComputeSteps = f.computeSteps
		case KeyCheckSteps:
			rec.CheckSteps = f.checkSteps
		case KeyConnectQuestions:
			rec.ConnectQuestions = f.connect
		case KeyScene:
			rec.Scene = f.scene
		}
	}
}
