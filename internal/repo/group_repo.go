package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/linkstash/server/internal/listing"
	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
	appErr "github.com/linkstash/server/internal/pkg/errors"
)

type GroupRepo struct {
	db dbutil.Queryer
}

func NewGroupRepo(db dbutil.Queryer) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) WithQueryer(q dbutil.Queryer) *GroupRepo {
	return &GroupRepo{db: q}
}

type GroupRow struct {
	model.Group
	Author       string
	LinkedLinks  int
	IsBookmarked bool
}

func (r *GroupRepo) Create(ctx context.Context, group *model.Group) error {
	sqlStr := "INSERT INTO groups (user_id, title, description)" +
		" VALUES (?, ?, ?) RETURNING id, views, created_at, updated_at"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{
		group.UserID, group.Title, group.Description,
	})
	return r.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&group.ID, &group.Views, &group.CreatedAt, &group.UpdatedAt)
}

func (r *GroupRepo) Update(ctx context.Context, group *model.Group) error {
	where := map[string]interface{}{"id": group.ID}
	update := map[string]interface{}{
		"title":       group.Title,
		"description": group.Description,
		"updated_at":  time.Now(),
	}
	sqlStr, args, err := builder.BuildUpdate("groups", where, update)
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

func (r *GroupRepo) Delete(ctx context.Context, groupID int64) error {
	where := map[string]interface{}{"id": groupID}
	sqlStr, args, err := builder.BuildDelete("groups", where)
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

func (r *GroupRepo) GetByID(ctx context.Context, groupID int64) (*model.Group, error) {
	sqlStr := "SELECT id, user_id, title, description, views, created_at, updated_at" +
		" FROM groups WHERE id = ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{groupID})
	var group model.Group
	err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&group.ID, &group.UserID, &group.Title, &group.Description,
		&group.Views, &group.CreatedAt, &group.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// IncrementViews is a single atomic update so concurrent readers never lose
// a view count.
func (r *GroupRepo) IncrementViews(ctx context.Context, groupID int64) error {
	sqlStr := "UPDATE groups SET views = views + 1 WHERE id = ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{groupID})
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

const groupSelect = "SELECT g.id, g.user_id, g.title, g.description, g.views," +
	" g.created_at, g.updated_at, u.nickname," +
	" (SELECT COUNT(*) FROM group_links gl WHERE gl.group_id = g.id) AS linked_links," +
	" EXISTS (SELECT 1 FROM group_bookmarks b WHERE b.group_id = g.id" +
	" AND b.user_id = ? AND b.is_bookmarked = TRUE) AS is_bookmarked" +
	" FROM groups g JOIN users u ON u.id = g.user_id"

func (r *GroupRepo) GetRow(ctx context.Context, groupID, callerID int64) (*GroupRow, error) {
	sqlStr := groupSelect + " WHERE g.id = ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{callerID, groupID})
	item, err := scanGroupRow(r.db.QueryRowContext(ctx, sqlStr, args...))
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *GroupRepo) ListPage(ctx context.Context, callerID int64, filters listing.Filters, cursor listing.Cursor) ([]GroupRow, error) {
	preds := filters.Compose(listing.GroupSource, callerID)
	if bound, ok := cursor.Bound("g"); ok {
		preds = append(preds, bound)
	}
	whereExpr, whereArgs := listing.Where(preds)

	sqlStr := groupSelect +
		" WHERE " + whereExpr +
		" ORDER BY " + cursor.OrderBy("g") +
		" LIMIT ?"
	args := make([]interface{}, 0, len(whereArgs)+2)
	args = append(args, callerID)
	args = append(args, whereArgs...)
	args = append(args, cursor.FetchLimit())
	sqlStr, args = dbutil.Finalize(sqlStr, args)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]GroupRow, 0, cursor.FetchLimit())
	for rows.Next() {
		item, err := scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanGroupRow(s rowScanner) (*GroupRow, error) {
	var item GroupRow
	err := s.Scan(
		&item.ID, &item.UserID, &item.Title, &item.Description, &item.Views,
		&item.CreatedAt, &item.UpdatedAt, &item.Author, &item.LinkedLinks, &item.IsBookmarked,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetLinks replaces the group's linked link set.
func (r *GroupRepo) SetLinks(ctx context.Context, groupID int64, linkIDs []int64) error {
	where := map[string]interface{}{"group_id": groupID}
	sqlStr, args, err := builder.BuildDelete("group_links", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return err
	}
	if len(linkIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(linkIDs))
	for _, linkID := range linkIDs {
		rows = append(rows, map[string]interface{}{
			"group_id": groupID,
			"link_id":  linkID,
		})
	}
	sqlStr, args, err = builder.BuildInsert("group_links", rows)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *GroupRepo) ListLinkIDs(ctx context.Context, groupID int64) ([]int64, error) {
	where := map[string]interface{}{"group_id": groupID}
	sqlStr, args, err := builder.BuildSelect("group_links", where, []string{"link_id"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
