package testutil

import (
	"encoding/json"
	"time"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/google/uuid"
)

type RunOption func(*domain.Run)

func WithRunSlug(slug, title string) RunOption {
	return func(r *domain.Run) {
		r.Slug = slug
		r.Title = title
	}
}

func WithRunStartedAt(t time.Time) RunOption {
	return func(r *domain.Run) {
		r.StartedAt = t.UTC().Truncate(time.Second)
	}
}

// NewTestRun builds a running, pending run for the given input path.
func NewTestRun(inputPath string, opts ...RunOption) *domain.Run {
	r := &domain.Run{
		ID:        uuid.New().String(),
		InputPath: inputPath,
		Stage:     domain.StagePending,
		Status:    domain.RunRunning,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BoxScene is a minimal valid scene with two named views.
const BoxScene = `{"global":{"dragRotate":true,"zoom":1.5},"scenes":{"box":{"shapes":[{"type":"Box","id":"box","options":{"width":120,"height":60,"depth":80,"stroke":false,"color":"#C25"}}]},"net":{"shapes":[{"type":"Rect","options":{"width":120,"height":80,"stroke":2,"color":"#636"}}]}}}`

// NewBoxRecord returns a fully resolved record for the box dimensions
// problem. Callers may clear fields to model partial input.
func NewBoxRecord() *domain.AppletRecord {
	return &domain.AppletRecord{
		Title:        "Box Dimensions Challenge",
		QuestionText: "A box is 12 cm long, 6 cm high and 8 cm deep. What is its volume?",
		Given:        []string{"Length is 12 cm", "Height is 6 cm", "Depth is 8 cm"},
		ToFind:       []string{"The volume of the box"},
		ComputeSteps: []string{"Multiply length by height", "Multiply the result by depth"},
		CheckSteps:   []string{"Estimate 10 x 6 x 10 = 600"},
		ConnectQuestions: []domain.ConnectQuestion{{
			Question: "Which formula gives the volume of a box?",
			Options: []domain.Option{
				{Text: "V = l x w x h", Correct: true},
				{Text: "V = l + w + h"},
			},
		}},
		Scene:      json.RawMessage(BoxScene),
		GradeLevel: "6",
		Concept:    "Volume of rectangular prisms",
	}
}
