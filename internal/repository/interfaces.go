package repository

import (
	"context"

	"github.com/alexanderramin/appletgen/internal/domain"
)

// RunRepo persists the pipeline run ledger.
type RunRepo interface {
	Create(ctx context.Context, r *domain.Run) error
	UpdateStage(ctx context.Context, id string, stage domain.Stage, slug, title string) error
	Finish(ctx context.Context, id string, status domain.RunStatus, errMsg string) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Run, error)
	LatestBySlug(ctx context.Context, slug string) (*domain.Run, error)
	ListEvents(ctx context.Context, runID string) ([]domain.RunEvent, error)
}
