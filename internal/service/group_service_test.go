package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/linkstash/server/internal/pkg/errors"
	"github.com/linkstash/server/internal/repo"
	"github.com/linkstash/server/internal/service"
)

func newGroupService(fx *linkFixture) *service.GroupService {
	return service.NewGroupService(fx.db,
		repo.NewGroupRepo(fx.db), repo.NewLinkRepo(fx.db),
		repo.NewGroupBookmarkRepo(fx.db), repo.NewUserRepo(fx.db))
}

func TestGroupGetCountsViews(t *testing.T) {
	fx, cleanup := setupLinkFixture(t)
	defer cleanup()
	groups := newGroupService(fx)
	ctx := context.Background()

	created, err := groups.Create(ctx, fx.user.ID, service.GroupInput{Title: "reading list"})
	require.NoError(t, err)

	first, err := groups.Get(ctx, fx.user.ID, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, first.Views)

	second, err := groups.Get(ctx, fx.user.ID, created.ID)
	require.NoError(t, err)
	require.Equal(t, 2, second.Views)

	_, err = groups.Get(ctx, fx.user.ID, created.ID+9999)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestGroupSetLinks(t *testing.T) {
	fx, cleanup := setupLinkFixture(t)
	defer cleanup()
	groups := newGroupService(fx)
	ctx := context.Background()

	created, err := groups.Create(ctx, fx.user.ID, service.GroupInput{Title: "collection"})
	require.NoError(t, err)

	linkA, err := fx.links.Create(ctx, fx.user.ID, service.LinkInput{Title: "a", LinkURL: "https://example.com/a"})
	require.NoError(t, err)
	linkB, err := fx.links.Create(ctx, fx.user.ID, service.LinkInput{Title: "b", LinkURL: "https://example.com/b"})
	require.NoError(t, err)

	require.NoError(t, groups.SetLinks(ctx, fx.user.ID, created.ID, []int64{linkA.ID, linkB.ID}))

	got, err := groups.Get(ctx, fx.user.ID, created.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.LinkedLinks)

	// replacement, not accumulation
	require.NoError(t, groups.SetLinks(ctx, fx.user.ID, created.ID, []int64{linkB.ID}))
	got, err = groups.Get(ctx, fx.user.ID, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.LinkedLinks)

	// unknown link ids are rejected wholesale
	err = groups.SetLinks(ctx, fx.user.ID, created.ID, []int64{linkA.ID, linkB.ID + 9999})
	require.ErrorIs(t, err, appErr.ErrNotFound)

	// non-owners cannot touch membership
	err = groups.SetLinks(ctx, fx.other.ID, created.ID, []int64{linkA.ID})
	require.ErrorIs(t, err, appErr.ErrForbidden)
}

func TestGroupBookmark(t *testing.T) {
	fx, cleanup := setupLinkFixture(t)
	defer cleanup()
	groups := newGroupService(fx)
	ctx := context.Background()

	created, err := groups.Create(ctx, fx.user.ID, service.GroupInput{Title: "bookmarkable"})
	require.NoError(t, err)

	final, err := groups.ToggleBookmark(ctx, created.ID, fx.other.ID, true)
	require.NoError(t, err)
	require.True(t, final)

	got, err := groups.Get(ctx, fx.other.ID, created.ID)
	require.NoError(t, err)
	require.True(t, got.IsBookmarked)
}
