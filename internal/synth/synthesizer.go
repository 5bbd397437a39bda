// Package synth fills the absent fields of an applet record and produces
// its scene program through a generative model.
package synth

import (
	"context"
	"errors"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/llm"
	"github.com/alexanderramin/appletgen/internal/logger"
)

// DefaultMaxAttempts bounds schema retries per record.
const DefaultMaxAttempts = 3

// Synthesizer resolves a record. The input is never modified.
type Synthesizer interface {
	Synthesize(ctx context.Context, rec *domain.AppletRecord) (*domain.AppletRecord, error)
}

// Config tunes the synthesizer.
type Config struct {
	MaxAttempts int
}

type modelSynthesizer struct {
	client llm.LLMClient
	cfg    Config
	log    *logger.Logger
}

// New creates a Synthesizer backed by an LLM client.
func New(client llm.LLMClient, cfg Config, log *logger.Logger) Synthesizer {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &modelSynthesizer{client: client, cfg: cfg, log: log.With("component", "synth")}
}

var errNilRecord = errors.New("nil record")

func (s *modelSynthesizer) Synthesize(ctx context.Context, rec *domain.AppletRecord) (*domain.AppletRecord, error) {
	if rec == nil {
		return nil, errNilRecord
	}
	required := RequiredKeys(rec)
	if len(required) == 0 {
		return rec.Clone(), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, &SynthesisError{Err: err}
	}
	if !s.client.Available(ctx) {
		return nil, &SynthesisError{Err: llm.ErrUnavailable}
	}

	base := buildUserPrompt(rec, required)
	prompt := base
	task := llm.TaskSynthesize
	var violations []string

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		resp, err := s.client.Generate(ctx, llm.GenerateRequest{
			Task:         task,
			SystemPrompt: systemPrompt,
			UserPrompt:   prompt,
			JSON:         true,
		})
		if err != nil {
			return nil, &SynthesisError{Attempts: attempt, Err: err}
		}

		var f *filled
		f, violations = parseResponse(resp.Text, required)
		if len(violations) == 0 {
			out := rec.Clone()
			f.apply(out, required)
			s.log.Debug("synthesis accepted", "attempt", attempt, "keys", len(required))
			return out, nil
		}

		s.log.Warn("synthesis response rejected", "attempt", attempt, "violations", len(violations), "first", violations[0])
		prompt = correctionPrompt(base, violations)
		task = llm.TaskRepair
	}

	return nil, &SynthesisError{Attempts: s.cfg.MaxAttempts, Violations: violations}
}
