package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/streakmap/domain"
	"github.com/fastygo/streakmap/repository"
)

func TestActivityRepository_IncrementAccumulatesAndClamps(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Activities()

	_, err := repo.Increment(ctx, &domain.ActivityEntry{TaskID: "t1", UserID: "u1", Date: "2024-01-01", Count: 2})
	require.NoError(t, err)
	got, err := repo.Increment(ctx, &domain.ActivityEntry{TaskID: "t1", UserID: "u1", Date: "2024-01-01", Count: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)

	got, err = repo.Increment(ctx, &domain.ActivityEntry{TaskID: "t1", UserID: "u1", Date: "2024-01-01", Count: -9})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)

	entries, err := repo.List(ctx, repository.ActivityFilter{TaskID: "t1"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestActivityRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Activities()
	for _, e := range []domain.ActivityEntry{
		{TaskID: "t1", UserID: "u1", Date: "2024-01-03", Count: 1},
		{TaskID: "t1", UserID: "u1", Date: "2024-01-01", Count: 1},
		{TaskID: "t2", UserID: "u2", Date: "2024-01-02", Count: 1},
	} {
		_, err := repo.Increment(ctx, &e)
		require.NoError(t, err)
	}

	entries, err := repo.List(ctx, repository.ActivityFilter{UserID: "u1", From: "2024-01-02"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-03", entries[0].Date)

	entries, err = repo.List(ctx, repository.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2024-01-01", entries[0].Date)
}

func TestTaskRepository_OwnershipChecks(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tasks := store.Tasks()

	created, err := tasks.Create(ctx, &domain.Task{UserID: "u1", Name: "Run"})
	require.NoError(t, err)

	_, err = tasks.UpdateIntensityLevels(ctx, created.ID, "u2", domain.DefaultIntensityLevels())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, created.ID, "u2"), domain.ErrTaskNotFound)

	_, err = store.Activities().Increment(ctx, &domain.ActivityEntry{TaskID: created.ID, UserID: "u1", Date: "2024-01-01", Count: 1})
	require.NoError(t, err)
	require.NoError(t, tasks.Delete(ctx, created.ID, "u1"))

	entries, err := store.Activities().List(ctx, repository.ActivityFilter{TaskID: created.ID})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUserRepository_UpsertByGoogleID(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	first := &domain.User{GoogleID: "g1", Name: "Ada"}
	require.NoError(t, users.UpsertByGoogleID(ctx, first))
	second := &domain.User{GoogleID: "g1", Name: "Ada Lovelace"}
	require.NoError(t, users.UpsertByGoogleID(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	got, err := users.GetByGoogleID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
}

func TestTaskRepository_ListCapsPageSize(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Tasks()
	for i := 0; i < repository.MaxPageSize+1; i++ {
		_, err := repo.Create(ctx, &domain.Task{UserID: "u1", Name: "Task", IntensityLevels: domain.DefaultIntensityLevels()})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, repository.TaskFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, page, repository.MaxPageSize)

	rest, err := repo.List(ctx, repository.TaskFilter{UserID: "u1", Offset: repository.MaxPageSize})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
