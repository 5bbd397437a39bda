// Package assembler renders a resolved applet record into a single
// self-contained HTML page.
package assembler

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/fsutil"
	"github.com/alexanderramin/appletgen/internal/importer"
	"github.com/alexanderramin/appletgen/internal/scene"
)

// LibraryPath is where every applet page expects the shared Zdog build,
// relative to its own directory.
const LibraryPath = "../js/zdog.dist.min.js"

// Default output file names.
const (
	PageFile        = "index.html"
	DefaultSlugFile = "applet_name.txt"
)

// ErrUnresolvedRecord is returned when the record lacks a title or scene.
var ErrUnresolvedRecord = errors.New("record is not resolved: title and scene are required")

//go:embed templates/applet.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/applet.html.tmpl"))

// Artifact is one rendered applet.
type Artifact struct {
	Slug  string
	Title string
	HTML  []byte
}

type tab struct {
	ID    string
	Label string
}

type pageData struct {
	Title            string
	Description      string
	Question         string
	Given            []string
	ToFind           []string
	ComputeSteps     []string
	CheckSteps       []string
	ConnectQuestions []domain.ConnectQuestion
	Tabs             []tab
	SceneNames       []string
	Scene            template.JS
	LibraryPath      string
}

// Assemble renders rec. The same record always yields identical bytes.
func Assemble(rec *domain.AppletRecord) (*Artifact, error) {
	if rec == nil || rec.Title == "" || !rec.HasScene() {
		return nil, ErrUnresolvedRecord
	}
	if err := importer.Validate(rec); err != nil {
		return nil, err
	}

	sceneJS, names, err := embedScene(rec.Scene)
	if err != nil {
		return nil, err
	}

	data := pageData{
		Title:            rec.Title,
		Description:      domain.Summarize(rec.QuestionText, domain.DescriptionLimit),
		Question:         rec.QuestionText,
		Given:            rec.Given,
		ToFind:           rec.ToFind,
		ComputeSteps:     rec.ComputeSteps,
		CheckSteps:       rec.CheckSteps,
		ConnectQuestions: rec.ConnectQuestions,
		Tabs:             tabsFor(rec),
		SceneNames:       names,
		Scene:            sceneJS,
		LibraryPath:      LibraryPath,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering applet: %w", err)
	}
	return &Artifact{Slug: rec.Slug(), Title: rec.Title, HTML: buf.Bytes()}, nil
}

// tabsFor lists the tabs in display order. Problem and Visualize are always
// present; the others only when they have content.
func tabsFor(rec *domain.AppletRecord) []tab {
	tabs := []tab{{"problem", "Problem"}, {"visualize", "Visualize"}}
	if len(rec.ComputeSteps) > 0 {
		tabs = append(tabs, tab{"compute", "Compute"})
	}
	if len(rec.CheckSteps) > 0 {
		tabs = append(tabs, tab{"check", "Check"})
	}
	if len(rec.ConnectQuestions) > 0 {
		tabs = append(tabs, tab{"connect", "Connect"})
	}
	return tabs
}

// embedScene compacts the program, escapes it for a script block and
// returns its scene names in sorted order.
func embedScene(raw json.RawMessage) (template.JS, []string, error) {
	compact, err := scene.Compact(raw)
	if err != nil {
		return "", nil, err
	}
	var p struct {
		Scenes map[string]json.RawMessage `json:"scenes"`
	}
	if err := json.Unmarshal(compact, &p); err != nil {
		return "", nil, fmt.Errorf("decoding scene: %w", err)
	}
	names := make([]string, 0, len(p.Scenes))
	for name := range p.Scenes {
		names = append(names, name)
	}
	sort.Strings(names)

	var safe bytes.Buffer
	json.HTMLEscape(&safe, compact)
	return template.JS(safe.String()), names, nil
}

// WriteArtifact writes <dir>/index.html and, when slugFile is set, the
// slug the deployment step should publish under.
func WriteArtifact(dir, slugFile string, art *Artifact) error {
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, PageFile), art.HTML, 0o644); err != nil {
		return err
	}
	if slugFile == "" {
		return nil
	}
	return fsutil.WriteFileAtomic(slugFile, []byte(art.Slug+"\n"), 0o644)
}

// ReadSlugFile returns the slug recorded by WriteArtifact.
func ReadSlugFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	slug := string(bytes.TrimSpace(data))
	if slug == "" {
		return "", fmt.Errorf("slug file %s is empty", path)
	}
	return slug, nil
}
