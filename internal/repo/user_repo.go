package repo

import (
	"context"
	"database/sql"

	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
	appErr "github.com/linkstash/server/internal/pkg/errors"
)

type UserRepo struct {
	db dbutil.Queryer
}

func NewUserRepo(db dbutil.Queryer) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	sqlStr := "INSERT INTO users (email, nickname, password_hash)" +
		" VALUES (?, ?, ?) RETURNING id, created_at"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{user.Email, user.Nickname, user.PasswordHash})
	err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&user.ID, &user.CreatedAt)
	if dbutil.IsConflict(err) {
		return appErr.ErrConflict
	}
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return r.getBy(ctx, "id = ?", userID)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

func (r *UserRepo) getBy(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	sqlStr := "SELECT id, email, nickname, password_hash, created_at FROM users WHERE " + cond
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{arg})
	var user model.User
	err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	sqlStr := "SELECT EXISTS (SELECT 1 FROM users WHERE id = ?)"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{userID})
	var exists bool
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
