package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Box Dimensions Challenge":       "box-dimensions-challenge",
		"  Cubes -> Larger Cube!  ":      "cubes-larger-cube",
		"Café: Área & Volume":            "cafe-area-volume",
		"Volume_of_a_Cylinder (Part 2)":  "volume-of-a-cylinder-part-2",
		"ALREADY-slugged--title":         "already-slugged-title",
		"":                               DefaultSlug,
		"!!!":                            DefaultSlug,
		"数学":                             DefaultSlug,
		"3D Shapes 101":                  "3d-shapes-101",
		"JS":                             "js-applet",
		"js!":                            "js-applet",
		"JS Basics":                      "js-basics",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	assert.Equal(t, Slugify("Box Dimensions Challenge"), Slugify("box   dimensions challenge"))
}

func TestNewCatalogEntry(t *testing.T) {
	rec := &AppletRecord{
		Title:        "Box Dimensions Challenge",
		QuestionText: "A box has\n a volume of 240 cubic cm.",
	}
	e := NewCatalogEntry(rec)
	assert.Equal(t, "box-dimensions-challenge", e.Slug)
	assert.Equal(t, "Box Dimensions Challenge", e.Title)
	assert.Equal(t, "./box-dimensions-challenge/", e.Link)
	assert.Equal(t, "A box has a volume of 240 cubic cm.", e.Description)
}

func TestSummarize_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := Summarize(long, DescriptionLimit)
	assert.LessOrEqual(t, len([]rune(got)), DescriptionLimit)
	assert.True(t, strings.HasSuffix(got, "..."))
}
