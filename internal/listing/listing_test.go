package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseOrder(t *testing.T) {
	order, err := ParseOrder("")
	require.NoError(t, err)
	require.Equal(t, OrderDesc, order)

	order, err = ParseOrder("ASC")
	require.NoError(t, err)
	require.Equal(t, OrderAsc, order)

	_, err = ParseOrder("sideways")
	require.Error(t, err)
}

func TestNewCursor(t *testing.T) {
	c, err := NewCursor(nil, "", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTake, c.Take)
	require.Equal(t, OrderDesc, c.Order)
	require.Nil(t, c.ID)

	c, err = NewCursor(nil, OrderAsc, 5000)
	require.NoError(t, err)
	require.Equal(t, MaxTake, c.Take)

	_, err = NewCursor(nil, OrderDesc, -1)
	require.Error(t, err)
}

func TestCursorBound(t *testing.T) {
	c, err := NewCursor(nil, OrderDesc, 10)
	require.NoError(t, err)
	_, ok := c.Bound("l")
	require.False(t, ok)

	id := int64(42)
	c, err = NewCursor(&id, OrderDesc, 10)
	require.NoError(t, err)
	pred, ok := c.Bound("l")
	require.True(t, ok)
	require.Equal(t, "l.id < ?", pred.Expr)
	require.Equal(t, []interface{}{int64(42)}, pred.Args)

	c, err = NewCursor(&id, OrderAsc, 10)
	require.NoError(t, err)
	pred, ok = c.Bound("l")
	require.True(t, ok)
	require.Equal(t, "l.id > ?", pred.Expr)
	require.Equal(t, 11, c.FetchLimit())
}

func TestTrimPageDetectsNextPage(t *testing.T) {
	c, err := NewCursor(nil, OrderDesc, 3)
	require.NoError(t, err)

	// fetch returned take+1 rows: page is full and a next page exists
	rows := []int64{30, 20, 10, 5}
	page, meta := TrimPage(rows, c, func(v int64) int64 { return v })
	require.Equal(t, []int64{30, 20, 10}, page)
	require.True(t, meta.HasNextPage)
	require.NotNil(t, meta.NextCursor)
	require.Equal(t, int64(10), *meta.NextCursor)
}

func TestTrimPageExactBoundary(t *testing.T) {
	// exactly take rows in the store: full page, but no next page
	c, err := NewCursor(nil, OrderDesc, 3)
	require.NoError(t, err)

	rows := []int64{30, 20, 10}
	page, meta := TrimPage(rows, c, func(v int64) int64 { return v })
	require.Len(t, page, 3)
	require.False(t, meta.HasNextPage)
	require.Nil(t, meta.NextCursor)
}

func TestTrimPageEmpty(t *testing.T) {
	c, err := NewCursor(nil, OrderDesc, 10)
	require.NoError(t, err)

	page, meta := TrimPage(nil, c, func(v int64) int64 { return v })
	require.Empty(t, page)
	require.False(t, meta.HasNextPage)
	require.Nil(t, meta.NextCursor)
}

// Walking a fixed id set page by page must visit every row exactly once, in
// both directions.
func TestCursorFullTraversal(t *testing.T) {
	ids := []int64{1, 3, 7, 9, 12, 15, 21, 22, 30, 31, 40}

	fetch := func(c Cursor) []int64 {
		var out []int64
		if c.Order == OrderDesc {
			for i := len(ids) - 1; i >= 0; i-- {
				if c.ID == nil || ids[i] < *c.ID {
					out = append(out, ids[i])
				}
				if len(out) == c.FetchLimit() {
					break
				}
			}
		} else {
			for _, id := range ids {
				if c.ID == nil || id > *c.ID {
					out = append(out, id)
				}
				if len(out) == c.FetchLimit() {
					break
				}
			}
		}
		return out
	}

	for _, order := range []Order{OrderDesc, OrderAsc} {
		cursor, err := NewCursor(nil, order, 3)
		require.NoError(t, err)

		var visited []int64
		for pages := 0; ; pages++ {
			require.Less(t, pages, len(ids)+1, "traversal did not terminate")
			page, meta := TrimPage(fetch(cursor), cursor, func(v int64) int64 { return v })
			visited = append(visited, page...)
			if !meta.HasNextPage {
				break
			}
			cursor.ID = meta.NextCursor
		}
		require.Len(t, visited, len(ids))
		seen := map[int64]bool{}
		for _, id := range visited {
			require.False(t, seen[id], "id %d visited twice", id)
			seen[id] = true
		}
	}
}

func TestComposeEmptyFilters(t *testing.T) {
	preds := Filters{}.Compose(LinkSource, 1)
	require.Empty(t, preds)

	clause, args := Where(preds)
	require.Equal(t, "TRUE", clause)
	require.Nil(t, args)
}

func TestComposeKeywordAndDates(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	f := Filters{Keyword: " golang ", StartDate: &start, EndDate: &end}

	preds := f.Compose(LinkSource, 1)
	require.Len(t, preds, 3)
	require.Equal(t, "l.title ILIKE ?", preds[0].Expr)
	require.Equal(t, []interface{}{"%golang%"}, preds[0].Args)

	clause, args := Where(preds)
	require.Equal(t, "(l.title ILIKE ?) AND (l.created_at >= ?) AND (l.created_at <= ?)", clause)
	require.Len(t, args, 3)
}

func TestComposeBookmarkFilter(t *testing.T) {
	yes, no := true, false

	preds := Filters{IsBookmarked: &yes}.Compose(LinkSource, 7)
	require.Len(t, preds, 1)
	require.Contains(t, preds[0].Expr, "EXISTS (SELECT 1 FROM link_bookmarks")
	require.Contains(t, preds[0].Expr, "b.link_id = l.id")
	require.Equal(t, []interface{}{int64(7)}, preds[0].Args)

	preds = Filters{IsBookmarked: &no}.Compose(GroupSource, 7)
	require.Len(t, preds, 1)
	require.Contains(t, preds[0].Expr, "NOT EXISTS (SELECT 1 FROM group_bookmarks")
	require.Contains(t, preds[0].Expr, "b.group_id = g.id")

	// no caller identity: the criterion is skipped
	preds = Filters{IsBookmarked: &yes}.Compose(LinkSource, 0)
	require.Empty(t, preds)
}

func TestComposeThumbnailAndTags(t *testing.T) {
	yes, no := true, false

	preds := Filters{HasThumbnail: &yes}.Compose(LinkSource, 1)
	require.Len(t, preds, 1)
	require.Equal(t, "l.thumbnail IS NOT NULL AND l.thumbnail <> ''", preds[0].Expr)

	preds = Filters{HasThumbnail: &no}.Compose(LinkSource, 1)
	require.Equal(t, "l.thumbnail IS NULL OR l.thumbnail = ''", preds[0].Expr)

	// groups carry no thumbnail or tags: both criteria are skipped
	preds = Filters{HasThumbnail: &yes, TagKeyword: "go"}.Compose(GroupSource, 1)
	require.Empty(t, preds)

	preds = Filters{TagKeyword: "go"}.Compose(LinkSource, 1)
	require.Len(t, preds, 1)
	require.Contains(t, preds[0].Expr, "JOIN tags t ON t.id = lt.tag_id")
	require.Equal(t, []interface{}{"%go%"}, preds[0].Args)
}

func TestComposeCreatedByMe(t *testing.T) {
	yes, no := true, false

	preds := Filters{CreatedByMe: &yes}.Compose(LinkSource, 9)
	require.Len(t, preds, 1)
	require.Equal(t, "l.user_id = ?", preds[0].Expr)

	preds = Filters{CreatedByMe: &no}.Compose(LinkSource, 9)
	require.Equal(t, "l.user_id <> ?", preds[0].Expr)

	owner := int64(4)
	preds = Filters{OwnerID: &owner}.Compose(LinkSource, 9)
	require.Equal(t, "l.user_id = ?", preds[0].Expr)
	require.Equal(t, []interface{}{int64(4)}, preds[0].Args)
}
