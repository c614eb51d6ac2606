package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/listing"
)

func listContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/links?"+rawQuery, nil)
	return c
}

func TestParseListQueryDefaults(t *testing.T) {
	filters, cursor, err := parseListQuery(listContext(t, ""))
	require.NoError(t, err)
	require.Equal(t, listing.OrderDesc, cursor.Order)
	require.Equal(t, listing.DefaultTake, cursor.Take)
	require.Nil(t, cursor.ID)
	require.Empty(t, filters.Keyword)
	require.Nil(t, filters.IsBookmarked)
	require.Nil(t, filters.CreatedByMe)
}

func TestParseListQueryFull(t *testing.T) {
	query := "id=42&order=ASC&take=25&keyword=go&tagKeyword=db" +
		"&startDate=2024-01-01&endDate=2024-06-30" +
		"&isBookmarked=true&hasThumbnail=false&createdByMe=true"
	filters, cursor, err := parseListQuery(listContext(t, query))
	require.NoError(t, err)

	require.NotNil(t, cursor.ID)
	require.Equal(t, int64(42), *cursor.ID)
	require.Equal(t, listing.OrderAsc, cursor.Order)
	require.Equal(t, 25, cursor.Take)

	require.Equal(t, "go", filters.Keyword)
	require.Equal(t, "db", filters.TagKeyword)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *filters.StartDate)
	require.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), *filters.EndDate)
	require.True(t, *filters.IsBookmarked)
	require.False(t, *filters.HasThumbnail)
	require.True(t, *filters.CreatedByMe)
}

func TestParseListQueryRejectsBadInput(t *testing.T) {
	for _, query := range []string{
		"id=abc",
		"order=SIDEWAYS",
		"take=-5",
		"take=ten",
		"startDate=01/02/2024",
		"isBookmarked=maybe",
	} {
		_, _, err := parseListQuery(listContext(t, query))
		require.Error(t, err, "query %q should be rejected", query)
	}
}

func TestParseListQueryClampsTake(t *testing.T) {
	_, cursor, err := parseListQuery(listContext(t, "take=5000"))
	require.NoError(t, err)
	require.Equal(t, listing.MaxTake, cursor.Take)
}
