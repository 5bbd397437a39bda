package importer

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
)

// Column names of the canonical tabular form. Repeated groups carry a numeric
// suffix (given_1, connect_option_wrong_2_1) that fixes identity and order.
const (
	ColTitle           = "title"
	ColQuestionText    = "question_text"
	ColGradeLevel      = "grade_level"
	ColConcept         = "concept"
	ColAdditionalNotes = "additional_notes"
	ColSceneJSON       = "scene_json"

	PrefixGiven          = "given"
	PrefixToFind         = "tofind"
	PrefixComputeStep    = "compute_step"
	PrefixCheckStep      = "check_step"
	PrefixObjective      = "learning_objective"
	PrefixHint           = "hint"
	PrefixConnectQ       = "connect_question"
	PrefixOptionCorrect  = "connect_option_correct"
	PrefixOptionWrong    = "connect_option_wrong"
)

var scalarColumns = map[string]bool{
	ColTitle: true, ColQuestionText: true, ColGradeLevel: true,
	ColConcept: true, ColAdditionalNotes: true, ColSceneJSON: true,
}

// listPrefixes take one numeric suffix; option prefixes take two.
var listPrefixes = []string{
	PrefixGiven, PrefixToFind, PrefixComputeStep, PrefixCheckStep,
	PrefixObjective, PrefixHint, PrefixConnectQ,
}

var optionPrefixes = []string{PrefixOptionCorrect, PrefixOptionWrong}

// fieldKey is a parsed column name.
type fieldKey struct {
	prefix string
	n, m   int // 0 when absent
}

// parseField maps a column name to its key. ok is false for columns that do
// not belong to the schema (preamble rows, spreadsheet notes).
func parseField(name string) (fieldKey, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if scalarColumns[name] {
		return fieldKey{prefix: name}, true
	}
	// Longest prefixes first so connect_option_* never matches connect_question.
	for _, p := range optionPrefixes {
		rest, found := strings.CutPrefix(name, p+"_")
		if !found {
			continue
		}
		a, b, found := strings.Cut(rest, "_")
		if !found {
			return fieldKey{}, false
		}
		n, errN := strconv.Atoi(a)
		m, errM := strconv.Atoi(b)
		if errN != nil || errM != nil || n <= 0 || m <= 0 {
			return fieldKey{}, false
		}
		return fieldKey{prefix: p, n: n, m: m}, true
	}
	for _, p := range listPrefixes {
		rest, found := strings.CutPrefix(name, p+"_")
		if !found {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return fieldKey{}, false
		}
		return fieldKey{prefix: p, n: n}, true
	}
	return fieldKey{}, false
}

// buildRecord turns parsed name/value pairs into a record. Empty values are
// treated as absent; repeated groups are ordered by their numeric suffix.
func buildRecord(fields map[fieldKey]string) *domain.AppletRecord {
	rec := &domain.AppletRecord{}
	lists := make(map[string]map[int]string)
	options := make(map[int][]indexedOption)

	for k, v := range fields {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		switch k.prefix {
		case ColTitle:
			rec.Title = v
		case ColQuestionText:
			rec.QuestionText = v
		case ColGradeLevel:
			rec.GradeLevel = v
		case ColConcept:
			rec.Concept = v
		case ColAdditionalNotes:
			rec.AdditionalNotes = v
		case ColSceneJSON:
			rec.Scene = []byte(v)
		case PrefixOptionCorrect, PrefixOptionWrong:
			options[k.n] = append(options[k.n], indexedOption{
				correct: k.prefix == PrefixOptionCorrect,
				m:       k.m,
				text:    v,
			})
		default:
			if lists[k.prefix] == nil {
				lists[k.prefix] = make(map[int]string)
			}
			lists[k.prefix][k.n] = v
		}
	}

	rec.Given = ordered(lists[PrefixGiven])
	rec.ToFind = ordered(lists[PrefixToFind])
	rec.ComputeSteps = ordered(lists[PrefixComputeStep])
	rec.CheckSteps = ordered(lists[PrefixCheckStep])
	rec.LearningObjectives = ordered(lists[PrefixObjective])
	rec.Hints = ordered(lists[PrefixHint])

	questions := lists[PrefixConnectQ]
	for _, n := range sortedKeys(questions) {
		opts := options[n]
		// Correct options first, then wrong ones, each by their own index.
		sort.SliceStable(opts, func(i, j int) bool {
			if opts[i].correct != opts[j].correct {
				return opts[i].correct
			}
			return opts[i].m < opts[j].m
		})
		q := domain.ConnectQuestion{Question: questions[n]}
		for _, o := range opts {
			q.Options = append(q.Options, domain.Option{Text: o.text, Correct: o.correct})
		}
		rec.ConnectQuestions = append(rec.ConnectQuestions, q)
	}
	return rec
}

type indexedOption struct {
	correct bool
	m       int
	text    string
}

func ordered(m map[int]string) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}

func sortedKeys(m map[int]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// rows flattens a record into name/value pairs in canonical column order.
func rows(rec *domain.AppletRecord) [][2]string {
	var out [][2]string
	add := func(name, value string) {
		if value != "" {
			out = append(out, [2]string{name, value})
		}
	}
	addList := func(prefix string, items []string) {
		for i, v := range items {
			add(fmt.Sprintf("%s_%d", prefix, i+1), v)
		}
	}

	add(ColTitle, rec.Title)
	add(ColQuestionText, rec.QuestionText)
	addList(PrefixGiven, rec.Given)
	addList(PrefixToFind, rec.ToFind)
	addList(PrefixComputeStep, rec.ComputeSteps)
	addList(PrefixCheckStep, rec.CheckSteps)
	for i, q := range rec.ConnectQuestions {
		n := i + 1
		add(fmt.Sprintf("%s_%d", PrefixConnectQ, n), q.Question)
		correct, wrong := 0, 0
		for _, o := range q.Options {
			if o.Correct {
				correct++
				add(fmt.Sprintf("%s_%d_%d", PrefixOptionCorrect, n, correct), o.Text)
			} else {
				wrong++
				add(fmt.Sprintf("%s_%d_%d", PrefixOptionWrong, n, wrong), o.Text)
			}
		}
	}
	add(ColGradeLevel, rec.GradeLevel)
	add(ColConcept, rec.Concept)
	addList(PrefixObjective, rec.LearningObjectives)
	addList(PrefixHint, rec.Hints)
	add(ColAdditionalNotes, rec.AdditionalNotes)
	if rec.HasScene() {
		add(ColSceneJSON, string(rec.Scene))
	}
	return out
}

// LoadRecord reads a record from a CSV file on disk.
func LoadRecord(path string) (*domain.AppletRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec, err := ReadRecord(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}
