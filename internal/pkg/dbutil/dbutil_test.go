package dbutil

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizeRebindsPlaceholders(t *testing.T) {
	query, args := Finalize("SELECT id FROM tags WHERE name = ? AND usage_count > ?", []interface{}{"go", 0})
	require.Equal(t, "SELECT id FROM tags WHERE name = $1 AND usage_count > $2", query)
	require.Equal(t, []interface{}{"go", 0}, args)
}

func TestFinalizeRewritesLimit(t *testing.T) {
	// gendry emits MySQL LIMIT offset,count; postgres wants LIMIT count OFFSET offset
	query, args := Finalize("SELECT id FROM tags WHERE usage_count > ? LIMIT ?,?", []interface{}{0, 10, 5})
	require.Equal(t, "SELECT id FROM tags WHERE usage_count > $1 LIMIT $2 OFFSET $3", query)
	require.Equal(t, []interface{}{0, 5, 10}, args)
}

func TestFinalizeNoLimit(t *testing.T) {
	query, args := Finalize("DELETE FROM tags WHERE usage_count = 0", nil)
	require.Equal(t, "DELETE FROM tags WHERE usage_count = 0", query)
	require.Nil(t, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(errors.New("plain")))
	require.False(t, IsConflict(nil))
}
