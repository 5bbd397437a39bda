package pipeline

import (
	"context"
	"time"

	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/logger"
)

// StageEvent reports the outcome of one stage of a run.
type StageEvent struct {
	RunID     string
	Stage     domain.Stage
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// StageObserver receives stage events as the runner advances.
type StageObserver interface {
	ObserveStage(ctx context.Context, event StageEvent)
}

// NoopStageObserver ignores all events.
type NoopStageObserver struct{}

func (NoopStageObserver) ObserveStage(context.Context, StageEvent) {}

type logStageObserver struct {
	log *logger.Logger
}

// NewLogStageObserver emits one "pipeline_stage" line per event.
func NewLogStageObserver(log *logger.Logger) StageObserver {
	if log == nil {
		return NoopStageObserver{}
	}
	return &logStageObserver{log: log}
}

func (o *logStageObserver) ObserveStage(_ context.Context, event StageEvent) {
	kv := make([]any, 0, 8+len(event.Fields)*2)
	kv = append(kv,
		"run_id", event.RunID,
		"stage", string(event.Stage),
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Err == nil,
	)
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}
	if event.Err != nil {
		kv = append(kv, "error", event.Err.Error())
		o.log.Error("pipeline_stage", kv...)
		return
	}
	o.log.Info("pipeline_stage", kv...)
}
