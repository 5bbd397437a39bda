package domain

import "encoding/json"

// AppletRecord is the canonical description of one applet, regardless of
// whether it came from a text prompt or a spreadsheet row.
type AppletRecord struct {
	Title            string
	QuestionText     string
	Given            []string
	ToFind           []string
	ComputeSteps     []string
	CheckSteps       []string
	ConnectQuestions []ConnectQuestion

	// Scene is the Zdog scene program as a JSON object. Empty until synthesized
	// unless the author supplied one.
	Scene json.RawMessage

	GradeLevel         string
	Concept            string
	LearningObjectives []string
	Hints              []string
	AdditionalNotes    string
}

// ConnectQuestion is a multiple-choice item. Options are unordered; the
// Correct label decides which ones count.
type ConnectQuestion struct {
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// CorrectCount returns the number of options labelled correct.
func (q ConnectQuestion) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.Correct {
			n++
		}
	}
	return n
}

// WrongCount returns the number of options labelled incorrect.
func (q ConnectQuestion) WrongCount() int {
	return len(q.Options) - q.CorrectCount()
}

// HasScene reports whether a non-empty scene program is attached.
func (r *AppletRecord) HasScene() bool {
	return len(r.Scene) > 0 && string(r.Scene) != "null"
}

// Resolved reports whether every field the synthesizer can fill is present.
func (r *AppletRecord) Resolved() bool {
	return r.Title != "" &&
		len(r.Given) > 0 &&
		len(r.ToFind) > 0 &&
		len(r.ComputeSteps) > 0 &&
		len(r.CheckSteps) > 0 &&
		len(r.ConnectQuestions) > 0 &&
		r.HasScene()
}

// Slug returns the catalog key derived from the record title.
func (r *AppletRecord) Slug() string {
	return Slugify(r.Title)
}

// Clone returns a deep copy so callers can enrich a record without touching
// the input.
func (r *AppletRecord) Clone() *AppletRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Given = cloneStrings(r.Given)
	c.ToFind = cloneStrings(r.ToFind)
	c.ComputeSteps = cloneStrings(r.ComputeSteps)
	c.CheckSteps = cloneStrings(r.CheckSteps)
	c.LearningObjectives = cloneStrings(r.LearningObjectives)
	c.Hints = cloneStrings(r.Hints)
	if r.Scene != nil {
		c.Scene = append(json.RawMessage(nil), r.Scene...)
	}
	if r.ConnectQuestions != nil {
		c.ConnectQuestions = make([]ConnectQuestion, len(r.ConnectQuestions))
		for i, q := range r.ConnectQuestions {
			c.ConnectQuestions[i] = ConnectQuestion{
				Question: q.Question,
				Options:  append([]Option(nil), q.Options...),
			}
		}
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
