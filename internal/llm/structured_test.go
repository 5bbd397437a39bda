package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject_Replies(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		title string
	}{
		{"plain", `{"title":"Box","zoom":0.95}`, "Box"},
		{"fenced", "```json\n{\"title\":\"Cone\",\"zoom\":0.88}\n```", "Cone"},
		{"prose around", "Here is the scene:\n{\"title\":\"Prism\"}\nHope that helps!", "Prism"},
		{"fence among prose", "Some text\n```\n{\"title\":\"Cone\"}\n```\nMore text", "Cone"},
		{"braces in string", `{"title":"Set {a, b} \"quoted\""}`, `Set {a, b} "quoted"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ExtractObject(tt.raw)
			require.NoError(t, err)
			var title string
			require.NoError(t, json.Unmarshal(obj["title"], &title))
			assert.Equal(t, tt.title, title)
		})
	}
}

func TestExtractObject_NestedSceneStaysRaw(t *testing.T) {
	obj, err := ExtractObject(`{"scene":{"scenes":{"compute_1":{"shapes":[{"type":"Box"}]}}}}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scenes":{"compute_1":{"shapes":[{"type":"Box"}]}}}`, string(obj["scene"]))
}

func TestExtractObject_CommentsAndLeadingDecimals(t *testing.T) {
	raw := "{\n  // scale of the canvas\n  \"title\": \"Box // not a comment\",\n  \"zoom\": .5 /* half */,\n  \"offset\": [-.25, /* x */ .75]\n}"
	obj, err := ExtractObject(raw)
	require.NoError(t, err)
	assert.Equal(t, `"Box // not a comment"`, string(obj["title"]))
	assert.Equal(t, "0.5", string(obj["zoom"]))
	assert.JSONEq(t, `[-0.25, 0.75]`, string(obj["offset"]))
}

func TestExtractObject_KeepsRawMembers(t *testing.T) {
	obj, err := ExtractObject("Sure!\n{\"given\": null, \"tofind\": [\"area\"]}")
	require.NoError(t, err)
	assert.Equal(t, "null", string(obj["given"]))
	assert.JSONEq(t, `["area"]`, string(obj["tofind"]))
	_, ok := obj["title"]
	assert.False(t, ok)
}

func TestExtractObject_ReportsFailingStep(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		step ExtractStep
		hint string
	}{
		{"no object", "I don't know what you mean.", StepLocate, "exactly one JSON object"},
		{"truncated", `{"title":"Box","scene":{"scenes":{`, StepBalance, "cut off"},
		{"syntax", `{"title":"Box", broken}`, StepDecode, "near byte"},
		{"trailing comma", `{"title":"Box",}`, StepDecode, "trailing commas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractObject(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOutput)

			var ee *ExtractError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.step, ee.Step)
			assert.Contains(t, ee.Hint(), tt.hint)
		})
	}
}

func TestExtractObject_DecodeErrorKeepsCause(t *testing.T) {
	_, err := ExtractObject(`{"title": tru}`)
	var se *json.SyntaxError
	assert.ErrorAs(t, err, &se)
}
