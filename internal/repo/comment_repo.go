package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
	appErr "github.com/linkstash/server/internal/pkg/errors"
)

type CommentRepo struct {
	db dbutil.Queryer
}

func NewCommentRepo(db dbutil.Queryer) *CommentRepo {
	return &CommentRepo{db: db}
}

type CommentRow struct {
	model.Comment
	Author string
}

func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	sqlStr := "INSERT INTO link_comments (link_id, user_id, parent_id, comment)" +
		" VALUES (?, ?, ?, ?) RETURNING id, created_at, updated_at"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{
		comment.LinkID, comment.UserID, comment.ParentID, comment.Comment,
	})
	return r.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *CommentRepo) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	sqlStr := "SELECT id, link_id, user_id, parent_id, comment, created_at, updated_at" +
		" FROM link_comments WHERE id = ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{commentID})
	var item model.Comment
	err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&item.ID, &item.LinkID, &item.UserID, &item.ParentID,
		&item.Comment, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CommentRepo) Update(ctx context.Context, commentID int64, text string) error {
	where := map[string]interface{}{"id": commentID}
	update := map[string]interface{}{
		"comment":    text,
		"updated_at": time.Now(),
	}
	sqlStr, args, err := builder.BuildUpdate("link_comments", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, commentID int64) error {
	where := map[string]interface{}{"id": commentID}
	sqlStr, args, err := builder.BuildDelete("link_comments", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) ListByLink(ctx context.Context, linkID int64) ([]CommentRow, error) {
	sqlStr := "SELECT c.id, c.link_id, c.user_id, c.parent_id, c.comment," +
		" c.created_at, c.updated_at, u.nickname" +
		" FROM link_comments c JOIN users u ON u.id = c.user_id" +
		" WHERE c.link_id = ? ORDER BY c.id ASC"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{linkID})
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]CommentRow, 0)
	for rows.Next() {
		var item CommentRow
		if err := rows.Scan(
			&item.ID, &item.LinkID, &item.UserID, &item.ParentID,
			&item.Comment, &item.CreatedAt, &item.UpdatedAt, &item.Author,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
