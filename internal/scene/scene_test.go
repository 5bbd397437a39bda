package scene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProgram = `{
  "global": {"dragRotate": false, "zoom": 1.2, "isometric": true},
  "scenes": {
    "comprehend_1": {"shapes": [
      {"type": "Group", "id": "cube_group", "options": {"translate": {"x": 0}}, "children": [
        {"type": "Box", "options": {"width": 75, "fill": true}},
        {"type": "Box", "options": {"width": 75, "stroke": 2.5, "fill": false}}
      ]}
    ]},
    "compute_1": {"shapes": []}
  }
}`

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(json.RawMessage(validProgram)))
}

func TestValidate_NotObject(t *testing.T) {
	errs := Validate(json.RawMessage(`[1,2]`))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "JSON object")
}

func TestValidate_MissingScenes(t *testing.T) {
	errs := Validate(json.RawMessage(`{"global":{}}`))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "scene.scenes")
}

func TestValidate_UnsupportedShape(t *testing.T) {
	raw := `{"scenes":{"s1":{"shapes":[{"type":"Text"}]}}}`
	errs := Validate(json.RawMessage(raw))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `unsupported shape "Text"`)
}

func TestValidate_NestedChildError(t *testing.T) {
	raw := `{"scenes":{"s1":{"shapes":[{"type":"Group","children":[{"options":{}}]}]}}}`
	errs := Validate(json.RawMessage(raw))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "scene.scenes.s1.shapes[0].children[0].type is required")
}

func TestValidate_ShapesNotArray(t *testing.T) {
	raw := `{"scenes":{"s1":{"shapes":{"type":"Box"}}}}`
	errs := Validate(json.RawMessage(raw))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "shapes must be an array")
}

func TestValidate_GlobalMustBeObject(t *testing.T) {
	raw := `{"global":"iso","scenes":{"s1":{"shapes":[]}}}`
	errs := Validate(json.RawMessage(raw))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "scene.global")
}

func TestCompact_StableBytes(t *testing.T) {
	a, err := Compact(json.RawMessage("{ \"scenes\" : {\n \"s\": {\"shapes\": []}} }"))
	require.NoError(t, err)
	assert.Equal(t, `{"scenes":{"s":{"shapes":[]}}}`, string(a))
}
