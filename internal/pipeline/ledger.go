package pipeline

import (
	"context"

	"github.com/alexanderramin/appletgen/internal/db"
	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/repository"
	"github.com/google/uuid"
)

// Ledger records the stage each run reached.
type Ledger interface {
	Start(ctx context.Context, inputPath string) (string, error)
	Advance(ctx context.Context, runID string, stage domain.Stage, slug, title string) error
	Finish(ctx context.Context, runID string, runErr error) error
}

// SQLLedger writes the ledger through a unit of work so that each stage
// update and its event land together.
type SQLLedger struct {
	uow db.UnitOfWork
}

func NewSQLLedger(uow db.UnitOfWork) *SQLLedger {
	return &SQLLedger{uow: uow}
}

func (l *SQLLedger) Start(ctx context.Context, inputPath string) (string, error) {
	run := &domain.Run{
		ID:        uuid.New().String(),
		InputPath: inputPath,
		Stage:     domain.StagePending,
		Status:    domain.RunRunning,
	}
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).Create(ctx, run)
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (l *SQLLedger) Advance(ctx context.Context, runID string, stage domain.Stage, slug, title string) error {
	return l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).UpdateStage(ctx, runID, stage, slug, title)
	})
}

// Finish marks the run succeeded when runErr is nil and failed otherwise.
func (l *SQLLedger) Finish(ctx context.Context, runID string, runErr error) error {
	status, msg := domain.RunSucceeded, ""
	if runErr != nil {
		status, msg = domain.RunFailed, runErr.Error()
	}
	return l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).Finish(ctx, runID, status, msg)
	})
}

type noopLedger struct{}

func (noopLedger) Start(context.Context, string) (string, error) { return uuid.New().String(), nil }
func (noopLedger) Advance(context.Context, string, domain.Stage, string, string) error {
	return nil
}
func (noopLedger) Finish(context.Context, string, error) error { return nil }
