// Package pipeline runs the applet stages in order: normalize, synthesize,
// assemble, deploy and index. A failing stage halts the run and nothing
// already written is rolled back; re-running the same input is the recovery.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/appletgen/internal/assembler"
	"github.com/alexanderramin/appletgen/internal/catalog"
	"github.com/alexanderramin/appletgen/internal/deploy"
	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/fsutil"
	"github.com/alexanderramin/appletgen/internal/importer"
	"github.com/alexanderramin/appletgen/internal/logger"
	"github.com/alexanderramin/appletgen/internal/normalize"
	"github.com/alexanderramin/appletgen/internal/synth"
)

// RecordFile is the enriched record written next to the artifact so a
// later run can start from it without calling the model again.
const RecordFile = "applet_data.csv"

var ErrNoInput = errors.New("exactly one of prompt or csv input is required")

// Input names the source of one run.
type Input struct {
	PromptPath string
	CSVPath    string
}

func (in Input) path() string {
	if in.PromptPath != "" {
		return in.PromptPath
	}
	return in.CSVPath
}

// StageError names the stage that halted a run.
type StageError struct {
	Stage domain.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Result describes a completed run.
type Result struct {
	RunID      string
	Stage      domain.Stage
	Record     *domain.AppletRecord
	Slug       string
	PagePath   string
	RecordPath string
	// PublishedPath and Indexed are set only when a public directory is
	// configured.
	PublishedPath string
	Indexed       bool
	Added         bool
}

// Runner wires the stages. Synth and OutputDir are required; a nil
// Publisher or one without a public directory ends the run after assembly.
type Runner struct {
	Synth     synth.Synthesizer
	OutputDir string
	SlugFile  string
	Publisher *deploy.Publisher
	Observer  StageObserver
	Ledger    Ledger
	Log       *logger.Logger
}

func (r *Runner) slugFile() string {
	if r.SlugFile != "" {
		return r.SlugFile
	}
	return filepath.Join(r.OutputDir, assembler.DefaultSlugFile)
}

func (r *Runner) publishing() bool {
	return r.Publisher != nil && r.Publisher.PublicDir != ""
}

// Run executes every stage for in. The returned error is a *StageError
// unless the input itself is malformed or the ledger cannot start.
func (r *Runner) Run(ctx context.Context, in Input) (*Result, error) {
	if (in.PromptPath == "") == (in.CSVPath == "") {
		return nil, ErrNoInput
	}
	if r.Synth == nil || r.OutputDir == "" {
		return nil, errors.New("pipeline runner is not configured")
	}

	ledger := r.Ledger
	if ledger == nil {
		ledger = noopLedger{}
	}
	runID, err := ledger.Start(ctx, in.path())
	if err != nil {
		return nil, fmt.Errorf("starting run: %w", err)
	}

	s := &session{Runner: r, ledger: ledger, res: &Result{RunID: runID, Stage: domain.StagePending}}
	runErr := s.execute(ctx, in)

	// The ledger must record the outcome even when ctx was cancelled.
	if err := ledger.Finish(context.WithoutCancel(ctx), runID, runErr); err != nil {
		r.log().Error("recording run outcome failed", "run_id", runID, "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("recording run outcome: %w", err)
		}
	}
	if runErr != nil {
		return s.res, runErr
	}
	return s.res, nil
}

// session holds the state of one run.
type session struct {
	*Runner
	ledger Ledger
	res    *Result
}

func (s *session) execute(ctx context.Context, in Input) error {
	rec, err := stage(ctx, s, domain.StageNormalized, func() (*domain.AppletRecord, error) {
		return load(in)
	})
	if err != nil {
		return err
	}

	rec, err = stage(ctx, s, domain.StageSynthesized, func() (*domain.AppletRecord, error) {
		out, err := s.Synth.Synthesize(ctx, rec)
		if err != nil {
			return nil, err
		}
		s.res.RecordPath = filepath.Join(s.OutputDir, RecordFile)
		if err := writeRecord(s.res.RecordPath, out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return err
	}
	s.res.Record = rec

	art, err := stage(ctx, s, domain.StageAssembled, func() (*assembler.Artifact, error) {
		art, err := assembler.Assemble(rec)
		if err != nil {
			return nil, err
		}
		if err := assembler.WriteArtifact(s.OutputDir, s.slugFile(), art); err != nil {
			return nil, err
		}
		s.res.PagePath = filepath.Join(s.OutputDir, assembler.PageFile)
		return art, nil
	})
	if err != nil {
		return err
	}
	s.res.Slug = art.Slug

	if !s.publishing() {
		s.log().Info("no public directory configured, skipping deploy and index", "slug", art.Slug)
		return nil
	}

	if _, err := stage(ctx, s, domain.StageDeployed, func() (string, error) {
		slug, err := s.Publisher.Publish(ctx, s.OutputDir, s.slugFile())
		if err != nil {
			return "", err
		}
		s.res.PublishedPath = filepath.Join(s.Publisher.PublicDir, slug, assembler.PageFile)
		return slug, nil
	}); err != nil {
		return err
	}

	_, err = stage(ctx, s, domain.StageIndexed, func() (bool, error) {
		store := catalog.Store{Dir: s.Publisher.PublicDir}
		cat, err := store.Read(ctx)
		if err != nil {
			return false, fmt.Errorf("reading index: %w", err)
		}
		added := cat.Upsert(domain.NewCatalogEntry(rec))
		if err := store.Write(ctx, cat); err != nil {
			return false, fmt.Errorf("writing index: %w", err)
		}
		s.res.Indexed = true
		s.res.Added = added
		return added, nil
	})
	return err
}

// stage runs fn as the step that reaches target. Observers always hear
// about it; the ledger is advanced only on success.
func stage[T any](ctx context.Context, s *session, target domain.Stage, fn func() (T, error)) (T, error) {
	var zero T
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return zero, s.fail(ctx, target, started, err)
	}

	out, err := fn()
	if err != nil {
		return zero, s.fail(ctx, target, started, err)
	}

	slug, title := "", ""
	if rec, ok := any(out).(*domain.AppletRecord); ok && rec.Title != "" {
		slug, title = rec.Slug(), rec.Title
	}
	if err := s.ledger.Advance(ctx, s.res.RunID, target, slug, title); err != nil {
		return zero, s.fail(ctx, target, started, fmt.Errorf("recording stage: %w", err))
	}

	s.res.Stage = target
	s.observer().ObserveStage(ctx, StageEvent{
		RunID:     s.res.RunID,
		Stage:     target,
		StartedAt: started,
		Duration:  time.Since(started),
		Fields:    map[string]any{"slug": slug},
	})
	return out, nil
}

func (s *session) fail(ctx context.Context, target domain.Stage, started time.Time, err error) error {
	s.observer().ObserveStage(ctx, StageEvent{
		RunID:     s.res.RunID,
		Stage:     target,
		StartedAt: started,
		Duration:  time.Since(started),
		Err:       err,
	})
	return &StageError{Stage: target, Err: err}
}

func (r *Runner) observer() StageObserver {
	if r.Observer == nil {
		return NoopStageObserver{}
	}
	return r.Observer
}

func (r *Runner) log() *logger.Logger {
	if r.Log == nil {
		return logger.Nop()
	}
	return r.Log
}

// load reads and validates the input record before any model call.
func load(in Input) (*domain.AppletRecord, error) {
	var (
		rec *domain.AppletRecord
		err error
	)
	if in.PromptPath != "" {
		rec, err = loadPrompt(in.PromptPath)
	} else {
		rec, err = importer.LoadRecord(in.CSVPath)
	}
	if err != nil {
		return nil, err
	}
	if err := importer.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func loadPrompt(path string) (*domain.AppletRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return normalize.Normalize(f)
}

func writeRecord(path string, rec *domain.AppletRecord) error {
	data, err := importer.FormatRecord(rec)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, []byte(data), 0o644)
}
