package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/repo"
	"github.com/linkstash/server/internal/testutil"
)

func TestBookmarkToggleIdempotent(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := createTestUser(t, db, "bm@example.com")
	link := createTestLink(t, db, user.ID, "toggle-target")
	bookmarks := repo.NewLinkBookmarkRepo(db)

	// no row yet: reads as not bookmarked
	record, err := bookmarks.Get(ctx, link.ID, user.ID)
	require.NoError(t, err)
	require.False(t, record.IsBookmarked)

	final, err := bookmarks.Toggle(ctx, link.ID, user.ID, true)
	require.NoError(t, err)
	require.True(t, final)

	// repeating the same request converges instead of erroring
	final, err = bookmarks.Toggle(ctx, link.ID, user.ID, true)
	require.NoError(t, err)
	require.True(t, final)

	count, err := bookmarks.Count(ctx, link.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	final, err = bookmarks.Toggle(ctx, link.ID, user.ID, false)
	require.NoError(t, err)
	require.False(t, final)

	count, err = bookmarks.Count(ctx, link.ID)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	record, err = bookmarks.Get(ctx, link.ID, user.ID)
	require.NoError(t, err)
	require.False(t, record.IsBookmarked)

	// after any number of toggles the pair holds exactly one row
	var rows int
	err = db.QueryRow("SELECT COUNT(*) FROM link_bookmarks WHERE link_id = $1 AND user_id = $2", link.ID, user.ID).Scan(&rows)
	require.NoError(t, err)
	require.Equal(t, 1, rows)
}

func TestBookmarkPerUser(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	link := createTestLink(t, db, alice.ID, "shared")
	bookmarks := repo.NewLinkBookmarkRepo(db)

	_, err := bookmarks.Toggle(ctx, link.ID, alice.ID, true)
	require.NoError(t, err)

	record, err := bookmarks.Get(ctx, link.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, record.IsBookmarked)

	count, err := bookmarks.Count(ctx, link.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
