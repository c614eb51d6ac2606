package repo_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/repo"
)

func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Nickname: email, PasswordHash: "x"}
	require.NoError(t, repo.NewUserRepo(db).Create(context.Background(), user))
	return user
}

func createTestLink(t *testing.T, db *sql.DB, userID int64, title string) *model.Link {
	t.Helper()
	link := &model.Link{
		UserID:  userID,
		Title:   title,
		LinkURL: "https://example.com/" + title,
	}
	require.NoError(t, repo.NewLinkRepo(db).Create(context.Background(), link))
	return link
}
