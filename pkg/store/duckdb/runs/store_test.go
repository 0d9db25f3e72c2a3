package runs

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/de-tools/campaign-atlas/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupTestDB(t *testing.T) *sql.DB {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	return db
}

func setupFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	store, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func newRun(id string, startedAt time.Time) *domain.PipelineRun {
	return &domain.PipelineRun{
		ID:        id,
		Status:    domain.RunStatusRunning,
		StartedAt: startedAt,
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		store, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestStore_CreateAndList(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, f.store.Create(ctx, newRun("run-1", base)))
	require.NoError(t, f.store.Create(ctx, newRun("run-2", base.Add(time.Hour))))
	require.NoError(t, f.store.Create(ctx, newRun("run-3", base.Add(2*time.Hour))))

	t.Run("most recent first", func(t *testing.T) {
		runs, err := f.store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "run-3", runs[0].ID)
		assert.Equal(t, "run-1", runs[2].ID)
		assert.Equal(t, domain.RunStatusRunning, runs[0].Status)
		assert.Nil(t, runs[0].FinishedAt)
		assert.Nil(t, runs[0].Error)
	})

	t.Run("limit", func(t *testing.T) {
		runs, err := f.store.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("duplicate id", func(t *testing.T) {
		assert.Error(t, f.store.Create(ctx, newRun("run-1", base)))
	})
}

func TestStore_Finish(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("finished with warnings", func(t *testing.T) {
		run := newRun("run-ok", started)
		require.NoError(t, f.store.Create(ctx, run))

		finished := started.Add(time.Minute)
		run.Status = domain.RunStatusFinished
		run.FinishedAt = &finished
		run.CampaignRecords = 120
		run.CustomerRecords = 800
		run.Warnings = []string{"workbook export failed"}
		require.NoError(t, f.store.Finish(ctx, run))

		runs, err := f.store.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, domain.RunStatusFinished, runs[0].Status)
		assert.Equal(t, 120, runs[0].CampaignRecords)
		assert.Equal(t, 800, runs[0].CustomerRecords)
		assert.Equal(t, []string{"workbook export failed"}, runs[0].Warnings)
		require.NotNil(t, runs[0].FinishedAt)
		assert.Equal(t, finished.Unix(), runs[0].FinishedAt.Unix())
	})

	t.Run("failed", func(t *testing.T) {
		run := newRun("run-failed", started.Add(time.Hour))
		require.NoError(t, f.store.Create(ctx, run))

		msg := "VALIDATION_ERROR: zero/negative cost"
		run.Status = domain.RunStatusFailed
		run.Error = &msg
		require.NoError(t, f.store.Finish(ctx, run))

		runs, err := f.store.List(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, runs[0].Error)
		assert.Equal(t, msg, *runs[0].Error)
	})

	t.Run("unknown run", func(t *testing.T) {
		err := f.store.Finish(ctx, newRun("missing", started))
		assert.Error(t, err)
	})
}

func TestStore_CreateCompletedRun(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	started := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	finished := started.Add(30 * time.Second)
	msg := "load campaigns: connection refused"

	run := newRun("run-done", started)
	run.Status = domain.RunStatusFailed
	run.FinishedAt = &finished
	run.Error = &msg
	run.Warnings = []string{"s3 upload skipped"}
	require.NoError(t, f.store.Create(ctx, run))

	runs, err := f.store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NotNil(t, runs[0].FinishedAt)
	assert.Equal(t, finished.Unix(), runs[0].FinishedAt.Unix())
	require.NotNil(t, runs[0].Error)
	assert.Equal(t, msg, *runs[0].Error)
	assert.Equal(t, []string{"s3 upload skipped"}, runs[0].Warnings)
}
