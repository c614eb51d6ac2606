package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/repo"
	"github.com/linkstash/server/internal/testutil"
)

func TestTagRepoCreateBatch(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	tags := repo.NewTagRepo(db)
	ctx := context.Background()

	created, err := tags.CreateBatch(ctx, []string{"go", "db"}, 1)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, tag := range created {
		require.NotZero(t, tag.ID)
		require.Equal(t, 1, tag.UsageCount)
	}

	// conflicting names are skipped, not duplicated
	again, err := tags.CreateBatch(ctx, []string{"go", "web"}, 0)
	require.NoError(t, err)
	require.Len(t, again, 1)
	require.Equal(t, "web", again[0].Name)

	all, err := tags.ListByNames(ctx, []string{"go", "db", "web"})
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestTagRepoUsageArithmetic(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	tags := repo.NewTagRepo(db)
	ctx := context.Background()

	created, err := tags.CreateBatch(ctx, []string{"refcount"}, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	id := created[0].ID

	require.NoError(t, tags.IncrementUsage(ctx, []int64{id}))
	require.NoError(t, tags.IncrementUsage(ctx, []int64{id}))

	got, err := tags.ListByIDs(ctx, []int64{id})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 3, got[0].UsageCount)

	require.NoError(t, tags.DecrementUsage(ctx, []int64{id}))
	got, err = tags.ListByIDs(ctx, []int64{id})
	require.NoError(t, err)
	require.Equal(t, 2, got[0].UsageCount)

	// empty id sets are no-ops
	require.NoError(t, tags.IncrementUsage(ctx, nil))
	require.NoError(t, tags.DecrementUsage(ctx, nil))
}

func TestTagRepoDeleteUnused(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	tags := repo.NewTagRepo(db)
	ctx := context.Background()

	_, err := tags.CreateBatch(ctx, []string{"dead"}, 0)
	require.NoError(t, err)
	_, err = tags.CreateBatch(ctx, []string{"alive"}, 1)
	require.NoError(t, err)

	deleted, err := tags.DeleteUnused(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	remaining, err := tags.ListByNames(ctx, []string{"dead", "alive"})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "alive", remaining[0].Name)
}

func TestTagRepoPopularAndSearch(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	tags := repo.NewTagRepo(db)
	ctx := context.Background()

	created, err := tags.CreateBatch(ctx, []string{"golang", "gopher", "rust"}, 1)
	require.NoError(t, err)
	require.Len(t, created, 3)
	_, err = tags.CreateBatch(ctx, []string{"unused"}, 0)
	require.NoError(t, err)

	var golangID int64
	for _, tag := range created {
		if tag.Name == "golang" {
			golangID = tag.ID
		}
	}
	require.NoError(t, tags.IncrementUsage(ctx, []int64{golangID}))

	popular, err := tags.ListPopular(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	require.Equal(t, "golang", popular[0].Name)

	found, err := tags.SearchByName(ctx, "go", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
}
