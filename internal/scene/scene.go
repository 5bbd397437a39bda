// Package scene validates Zdog scene programs produced for the visualize tab.
//
// A scene program is a JSON object:
//
//	{
//	  "global": {"dragRotate": false, "zoom": 1.2, "isometric": true},
//	  "scenes": {
//	    "comprehend_1": {"shapes": [{"type": "Box", "id": "cube", "options": {...}, "children": [...]}]}
//	  }
//	}
package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ShapeTypes is the set of Zdog constructors a scene may reference.
var ShapeTypes = map[string]bool{
	"Anchor":      true,
	"Box":         true,
	"Cone":        true,
	"Cylinder":    true,
	"Ellipse":     true,
	"Group":       true,
	"Hemisphere":  true,
	"Polygon":     true,
	"Rect":        true,
	"RoundedRect": true,
	"Shape":       true,
}

// maxDepth bounds children nesting.
const maxDepth = 16

type program struct {
	Global json.RawMessage            `json:"global"`
	Scenes map[string]json.RawMessage `json:"scenes"`
}

type sceneBody struct {
	Shapes json.RawMessage `json:"shapes"`
}

type shape struct {
	Type     *string         `json:"type"`
	ID       json.RawMessage `json:"id"`
	Options  json.RawMessage `json:"options"`
	Children json.RawMessage `json:"children"`
}

// Validate checks raw against the scene program shape and returns every
// violation found. A nil slice means the program is valid.
func Validate(raw json.RawMessage) []error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return []error{fmt.Errorf("scene must be a JSON object")}
	}

	var p program
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return []error{fmt.Errorf("scene: %v", err)}
	}

	var errs []error
	if len(p.Global) > 0 && !isKind(p.Global, '{') && !isNull(p.Global) {
		errs = append(errs, fmt.Errorf("scene.global must be an object"))
	}
	if len(p.Scenes) == 0 {
		errs = append(errs, fmt.Errorf("scene.scenes must be a non-empty object"))
		return errs
	}

	names := make([]string, 0, len(p.Scenes))
	for name := range p.Scenes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prefix := fmt.Sprintf("scene.scenes.%s", name)
		body := p.Scenes[name]
		if !isKind(body, '{') {
			errs = append(errs, fmt.Errorf("%s must be an object", prefix))
			continue
		}
		var sb sceneBody
		if err := json.Unmarshal(body, &sb); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", prefix, err))
			continue
		}
		if !isKind(sb.Shapes, '[') {
			errs = append(errs, fmt.Errorf("%s.shapes must be an array", prefix))
			continue
		}
		errs = append(errs, validateShapes(prefix+".shapes", sb.Shapes, 0)...)
	}
	return errs
}

func validateShapes(prefix string, raw json.RawMessage, depth int) []error {
	if depth > maxDepth {
		return []error{fmt.Errorf("%s: nesting deeper than %d", prefix, maxDepth)}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []error{fmt.Errorf("%s: %v", prefix, err)}
	}

	var errs []error
	for i, item := range items {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		if !isKind(item, '{') {
			errs = append(errs, fmt.Errorf("%s must be an object", p))
			continue
		}
		var s shape
		if err := json.Unmarshal(item, &s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", p, err))
			continue
		}
		switch {
		case s.Type == nil:
			errs = append(errs, fmt.Errorf("%s.type is required", p))
		case !ShapeTypes[*s.Type]:
			errs = append(errs, fmt.Errorf("%s.type: unsupported shape %q", p, *s.Type))
		}
		if len(s.Options) > 0 && !isKind(s.Options, '{') {
			errs = append(errs, fmt.Errorf("%s.options must be an object", p))
		}
		if len(s.Children) > 0 {
			if !isKind(s.Children, '[') {
				errs = append(errs, fmt.Errorf("%s.children must be an array", p))
				continue
			}
			errs = append(errs, validateShapes(p+".children", s.Children, depth+1)...)
		}
	}
	return errs
}

// Compact returns raw with insignificant whitespace removed so that equal
// programs embed as equal bytes.
func Compact(raw json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("compacting scene: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

func isKind(raw json.RawMessage, open byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == open
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
