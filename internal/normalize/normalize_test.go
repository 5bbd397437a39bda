package normalize

import (
	"testing"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxPrompt = `TITLE: Box Dimensions Challenge
GRADE LEVEL: 6
CONCEPT: Volume of rectangular prisms

LEARNING OBJECTIVES:
- Compute the volume of a box
- Relate edge lengths
  to volume

QUESTION/PROMPT:
A box is 2 by 3 by 4 units.
What is its volume?

HINTS FOR SOLUTION:
- Multiply the three edges

CONNECT QUESTIONS:
1. Doubling the height does what to the volume?
- CORRECT: doubles it
- WRONG: quadruples it

ADDITIONAL NOTES: Keep the numbers small.
`

func TestNormalize_FullPrompt(t *testing.T) {
	rec, err := NormalizeString(boxPrompt)
	require.NoError(t, err)

	assert.Equal(t, "Box Dimensions Challenge", rec.Title)
	assert.Equal(t, "6", rec.GradeLevel)
	assert.Equal(t, "Volume of rectangular prisms", rec.Concept)
	assert.Equal(t, []string{"Compute the volume of a box", "Relate edge lengths to volume"}, rec.LearningObjectives)
	assert.Equal(t, "A box is 2 by 3 by 4 units.\nWhat is its volume?", rec.QuestionText)
	assert.Equal(t, []string{"Multiply the three edges"}, rec.Hints)
	assert.Equal(t, "Keep the numbers small.", rec.AdditionalNotes)

	require.Len(t, rec.ConnectQuestions, 1)
	q := rec.ConnectQuestions[0]
	assert.Equal(t, "Doubling the height does what to the volume?", q.Question)
	assert.Equal(t, []domain.Option{
		{Text: "doubles it", Correct: true},
		{Text: "quadruples it", Correct: false},
	}, q.Options)

	assert.Empty(t, rec.Given)
	assert.Empty(t, rec.ComputeSteps)
	assert.False(t, rec.HasScene())
}

func TestNormalize_MissingQuestion(t *testing.T) {
	_, err := NormalizeString("TITLE: Nothing to ask\nCONCEPT: sets\n")
	assert.ErrorIs(t, err, ErrMissingQuestion)

	_, err = NormalizeString("QUESTION/PROMPT:\n\n   \n")
	assert.ErrorIs(t, err, ErrMissingQuestion)
}

func TestNormalize_CaseInsensitiveHeadersAndAliases(t *testing.T) {
	rec, err := NormalizeString("question: what is 1 + 1?\nhints:\n- count\n")
	require.NoError(t, err)
	assert.Equal(t, "what is 1 + 1?", rec.QuestionText)
	assert.Equal(t, []string{"count"}, rec.Hints)
}

func TestNormalize_UnknownHeaderIgnoredUntilNextKnown(t *testing.T) {
	prompt := `QUESTION/PROMPT: Find the area.
TEACHER COMMENTS: not for students
this line is dropped too
CONCEPT: Area
`
	rec, err := NormalizeString(prompt)
	require.NoError(t, err)
	assert.Equal(t, "Find the area.", rec.QuestionText)
	assert.Equal(t, "Area", rec.Concept)
}

func TestNormalize_ShortCapitalLabelIsContent(t *testing.T) {
	rec, err := NormalizeString("QUESTION/PROMPT: A prism has\nV: 24 cubic units\n")
	require.NoError(t, err)
	assert.Equal(t, "A prism has\nV: 24 cubic units", rec.QuestionText)
}

func TestNormalize_ConnectVariants(t *testing.T) {
	prompt := `QUESTION: q
CONNECT QUESTIONS:
1) Which is prime?
CORRECT: 7
WRONG: 8
- 9
2. Which shape has
four equal sides?
- CORRECT: a square
  with right angles
- WRONG: a kite
`
	rec, err := NormalizeString(prompt)
	require.NoError(t, err)
	require.Len(t, rec.ConnectQuestions, 2)

	first := rec.ConnectQuestions[0]
	assert.Equal(t, "Which is prime?", first.Question)
	assert.Equal(t, []domain.Option{{Text: "7", Correct: true}, {Text: "8"}, {Text: "9"}}, first.Options)

	second := rec.ConnectQuestions[1]
	assert.Equal(t, "Which shape has four equal sides?", second.Question)
	assert.Equal(t, []domain.Option{{Text: "a square with right angles", Correct: true}, {Text: "a kite"}}, second.Options)
}

func TestNormalize_IncorrectLabelKeepsLaterQuestions(t *testing.T) {
	prompt := `QUESTION: q?
CONNECT QUESTIONS:
1. What?
CORRECT: a
INCORRECT: b
2. Next?
- CORRECT: c
- WRONG: d
`
	rec, err := NormalizeString(prompt)
	require.NoError(t, err)
	require.Len(t, rec.ConnectQuestions, 2)
	assert.Equal(t, []domain.Option{{Text: "a", Correct: true}, {Text: "b"}}, rec.ConnectQuestions[0].Options)
	assert.Equal(t, "Next?", rec.ConnectQuestions[1].Question)
	assert.Equal(t, []domain.Option{{Text: "c", Correct: true}, {Text: "d"}}, rec.ConnectQuestions[1].Options)
}

func TestNormalize_TextBeforeFirstHeaderDropped(t *testing.T) {
	rec, err := NormalizeString("hello there\nQUESTION: q?\n")
	require.NoError(t, err)
	assert.Equal(t, "q?", rec.QuestionText)
}

func TestStep(t *testing.T) {
	tests := []struct {
		name     string
		cur      state
		line     string
		want     state
		wantKind eventKind
		wantText string
	}{
		{"known header", stateStart, "CONCEPT: Area", stateConcept, evHeader, "Area"},
		{"header with spacing", stateQuestion, "  grade   level :  5", stateGrade, evHeader, "5"},
		{"body line", stateQuestion, "What is x?", stateQuestion, evLine, "What is x?"},
		{"unknown header", stateQuestion, "RUBRIC: 4 points", stateIgnored, evNone, ""},
		{"ignored body", stateIgnored, "anything", stateIgnored, evNone, ""},
		{"option label", stateConnect, "CORRECT: yes", stateConnect, evLine, "CORRECT: yes"},
		{"incorrect label", stateConnect, "INCORRECT: no", stateConnect, evLine, "INCORRECT: no"},
		{"before first header", stateStart, "preamble", stateStart, evNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ev := step(tt.cur, tt.line)
			assert.Equal(t, tt.want, next)
			assert.Equal(t, tt.wantKind, ev.kind)
			assert.Equal(t, tt.wantText, ev.text)
		})
	}
}
