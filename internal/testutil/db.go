package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/linkstash/server/internal/config"
	"github.com/linkstash/server/internal/db"
)

// OpenTestDB connects to the postgres instance named by TEST_DB_HOST and
// applies migrations. Tests that need a database skip when it is unset.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "linkstash",
		Password: "linkstash_pass",
		DBName:   "linkstash_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	cleanup := func() {
		for _, table := range []string{
			"link_comments", "link_bookmarks", "group_bookmarks",
			"group_links", "link_tags", "tags", "groups", "links", "users",
		} {
			_, _ = conn.Exec("DELETE FROM " + table)
		}
		_ = conn.Close()
	}
	return conn, cleanup
}
