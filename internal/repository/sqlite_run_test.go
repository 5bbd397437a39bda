package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/appletgen/internal/db"
	"github.com/alexanderramin/appletgen/internal/domain"
	"github.com/alexanderramin/appletgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunRepo(t *testing.T) *SQLiteRunRepo {
	t.Helper()
	return NewSQLiteRunRepo(testutil.NewTestDB(t))
}

func TestRunRepo_CreateAndGetByID(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()

	run := testutil.NewTestRun("prompts/box.txt")
	require.NoError(t, repo.Create(ctx, run))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "prompts/box.txt", got.InputPath)
	assert.Equal(t, domain.StagePending, got.Stage)
	assert.Equal(t, domain.RunRunning, got.Status)
	assert.True(t, run.StartedAt.Equal(got.StartedAt))
	assert.Nil(t, got.FinishedAt)
}

func TestRunRepo_GetByID_NotFound(t *testing.T) {
	repo := newRunRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepo_UpdateStageKeepsSlugWhenEmpty(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()

	run := testutil.NewTestRun("box.txt")
	require.NoError(t, repo.Create(ctx, run))

	require.NoError(t, repo.UpdateStage(ctx, run.ID, domain.StageNormalized, "box-dimensions-challenge", "Box Dimensions Challenge"))
	require.NoError(t, repo.UpdateStage(ctx, run.ID, domain.StageSynthesized, "", ""))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageSynthesized, got.Stage)
	assert.Equal(t, "box-dimensions-challenge", got.Slug)
	assert.Equal(t, "Box Dimensions Challenge", got.Title)

	events, err := repo.ListEvents(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.StagePending, events[0].Stage)
	assert.Equal(t, domain.StageNormalized, events[1].Stage)
	assert.Equal(t, domain.StageSynthesized, events[2].Stage)
}

func TestRunRepo_UpdateStage_UnknownRun(t *testing.T) {
	repo := newRunRepo(t)

	err := repo.UpdateStage(context.Background(), "nope", domain.StageAssembled, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepo_Finish(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()

	run := testutil.NewTestRun("box.txt")
	require.NoError(t, repo.Create(ctx, run))
	require.NoError(t, repo.Finish(ctx, run.ID, domain.RunFailed, "synthesized: model unavailable"))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunFailed, got.Status)
	assert.Equal(t, "synthesized: model unavailable", got.Error)
	require.NotNil(t, got.FinishedAt)
	assert.False(t, got.FinishedAt.Before(got.StartedAt))
}

func TestRunRepo_ListRecentNewestFirst(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, name := range []string{"a.txt", "b.txt", "c.txt"} {
		run := testutil.NewTestRun(name, testutil.WithRunStartedAt(base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, repo.Create(ctx, run))
	}

	runs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.txt", runs[0].InputPath)
	assert.Equal(t, "b.txt", runs[1].InputPath)

	all, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRunRepo_LatestBySlug(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	older := testutil.NewTestRun("v1.txt", testutil.WithRunSlug("box", "Box"), testutil.WithRunStartedAt(base))
	newer := testutil.NewTestRun("v2.txt", testutil.WithRunSlug("box", "Box"), testutil.WithRunStartedAt(base.Add(time.Hour)))
	other := testutil.NewTestRun("w.txt", testutil.WithRunSlug("wheel", "Wheel"), testutil.WithRunStartedAt(base.Add(2*time.Hour)))
	for _, r := range []*domain.Run{older, newer, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	got, err := repo.LatestBySlug(ctx, "box")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = repo.LatestBySlug(ctx, "cone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepo_WithinTxRollsBackEvent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	injected := errors.New("disk full")

	// Exec 1 inserts the run, exec 2 its first event.
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected}
	run := testutil.NewTestRun("box.txt")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return NewSQLiteRunRepo(tx).Create(ctx, run)
	})
	assert.ErrorIs(t, err, injected)

	_, err = NewSQLiteRunRepo(database).GetByID(ctx, run.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
