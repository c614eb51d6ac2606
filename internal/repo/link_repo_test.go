package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/listing"
	"github.com/linkstash/server/internal/repo"
	"github.com/linkstash/server/internal/testutil"
)

func TestLinkRepoCRUD(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, db, "crud@example.com")
	links := repo.NewLinkRepo(db)

	link := createTestLink(t, db, user.ID, "first")
	require.NotZero(t, link.ID)
	require.False(t, link.CreatedAt.IsZero())

	link.Title = "renamed"
	link.Thumbnail = "1/abc.png"
	require.NoError(t, links.Update(ctx, link))

	got, err := links.GetByID(ctx, link.ID)
	require.NoError(t, err)
	require.Equal(t, "renamed", got.Title)
	require.Equal(t, "1/abc.png", got.Thumbnail)

	row, err := links.GetRow(ctx, link.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Nickname, row.Author)
	require.False(t, row.IsBookmarked)

	require.NoError(t, links.Delete(ctx, link.ID))
	_, err = links.GetByID(ctx, link.ID)
	require.Error(t, err)
}

func TestLinkRepoListPage(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, db, "page@example.com")
	links := repo.NewLinkRepo(db)

	var ids []int64
	for i := 0; i < 7; i++ {
		link := createTestLink(t, db, user.ID, fmt.Sprintf("item-%d", i))
		ids = append(ids, link.ID)
	}

	cursor, err := listing.NewCursor(nil, listing.OrderDesc, 3)
	require.NoError(t, err)

	var visited []int64
	for {
		rows, err := links.ListPage(ctx, user.ID, listing.Filters{}, cursor)
		require.NoError(t, err)
		page, meta := listing.TrimPage(rows, cursor, func(r repo.LinkRow) int64 { return r.ID })
		for _, row := range page {
			visited = append(visited, row.ID)
		}
		if !meta.HasNextPage {
			break
		}
		cursor.ID = meta.NextCursor
	}

	require.Len(t, visited, len(ids))
	for i := 1; i < len(visited); i++ {
		require.Greater(t, visited[i-1], visited[i], "descending id order")
	}
}

func TestLinkRepoListPageBookmarkFilter(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, db, "filter@example.com")
	links := repo.NewLinkRepo(db)
	bookmarks := repo.NewLinkBookmarkRepo(db)

	plain := createTestLink(t, db, user.ID, "plain")
	marked := createTestLink(t, db, user.ID, "marked")
	_, err := bookmarks.Toggle(ctx, marked.ID, user.ID, true)
	require.NoError(t, err)

	cursor, err := listing.NewCursor(nil, listing.OrderDesc, 10)
	require.NoError(t, err)

	yes := true
	rows, err := links.ListPage(ctx, user.ID, listing.Filters{IsBookmarked: &yes}, cursor)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, marked.ID, rows[0].ID)
	require.True(t, rows[0].IsBookmarked)

	no := false
	rows, err = links.ListPage(ctx, user.ID, listing.Filters{IsBookmarked: &no}, cursor)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, plain.ID, rows[0].ID)

	rows, err = links.ListPage(ctx, user.ID, listing.Filters{Keyword: "mark"}, cursor)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, marked.ID, rows[0].ID)
}
