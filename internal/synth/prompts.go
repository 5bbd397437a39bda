package synth

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/appletgen/internal/domain"
)

const systemPrompt = `You are a math teacher and 3D graphics author. You complete the description of one math problem for an interactive applet and design its Zdog scenes.

You MUST output ONLY a JSON object containing exactly the keys you are asked for. No prose, no markdown, no comments.

## Scene program format

{
  "global": {"dragRotate": false, "zoom": 1.2, "isometric": true},
  "scenes": {
    "comprehend_1": {"shapes": [ ... ]},
    "compute_1": {"shapes": [ ... ]},
    "connect_1": {"shapes": [ ... ]}
  }
}

Each shape is {"type": "<Type>", "id": "<unique id>", "options": { ... Zdog options ... }, "children": [ ... shapes ... ]}.
Valid types: Anchor, Box, Cone, Cylinder, Ellipse, Group, Hemisphere, Polygon, Rect, RoundedRect, Shape.
Zdog has no Text shape; never use one.

## Visual guidance

- Make the scenes specific to this problem and its numbers.
- Wrap each solid in a Group holding a filled shape plus a wireframe overlay (fill false, stroke 2.5).
- Use one scene per comprehend, compute and connect step.
- Keep colors contrasting and sizes between 20 and 200 units.
`

// buildUserPrompt describes rec and lists the keys to return.
func buildUserPrompt(rec *domain.AppletRecord, required []Key) string {
	var b strings.Builder

	b.WriteString("## Problem\n\n")
	writeField(&b, "Title", rec.Title)
	writeField(&b, "Question", rec.QuestionText)
	writeField(&b, "Grade level", rec.GradeLevel)
	writeField(&b, "Concept", rec.Concept)
	writeList(&b, "Learning objectives", rec.LearningObjectives)
	writeList(&b, "Hints", rec.Hints)
	writeField(&b, "Additional notes", rec.AdditionalNotes)
	writeList(&b, "Given", rec.Given)
	writeList(&b, "To find", rec.ToFind)
	writeList(&b, "Compute steps", rec.ComputeSteps)
	writeList(&b, "Check steps", rec.CheckSteps)
	if len(rec.ConnectQuestions) > 0 {
		b.WriteString("Connect questions:\n")
		for i, q := range rec.ConnectQuestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
			for _, o := range q.Options {
				label := "WRONG"
				if o.Correct {
					label = "CORRECT"
				}
				fmt.Fprintf(&b, "   - %s: %s\n", label, o.Text)
			}
		}
	}

	b.WriteString("\n## Required output keys\n\n")
	for _, k := range required {
		fmt.Fprintf(&b, "- %q: %s\n", string(k), keyTypes[k])
	}
	b.WriteString("\nReturn ONLY a JSON object with these keys.\n")
	return b.String()
}

// correctionPrompt asks the model to fix the listed violations.
func correctionPrompt(base string, violations []string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n## Correction\n\nYour previous answer was rejected:\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	b.WriteString("Return the complete JSON object again with these problems fixed.\n")
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, value)
}

func writeList(b *strings.Builder, name string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", name)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
