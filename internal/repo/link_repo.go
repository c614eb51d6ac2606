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

type LinkRepo struct {
	db dbutil.Queryer
}

func NewLinkRepo(db dbutil.Queryer) *LinkRepo {
	return &LinkRepo{db: db}
}

func (r *LinkRepo) WithQueryer(q dbutil.Queryer) *LinkRepo {
	return &LinkRepo{db: q}
}

// LinkRow is one listing row: link columns plus per-caller projections.
type LinkRow struct {
	model.Link
	Author       string
	IsBookmarked bool
}

func (r *LinkRepo) Create(ctx context.Context, link *model.Link) error {
	sqlStr := "INSERT INTO links (user_id, title, description, link_url, thumbnail)" +
		" VALUES (?, ?, ?, ?, ?) RETURNING id, created_at, updated_at"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{
		link.UserID, link.Title, link.Description, link.LinkURL, nullIfEmpty(link.Thumbnail),
	})
	return r.db.QueryRowContext(ctx, sqlStr, args...).
		Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
}

func (r *LinkRepo) Update(ctx context.Context, link *model.Link) error {
	where := map[string]interface{}{"id": link.ID}
	update := map[string]interface{}{
		"title":       link.Title,
		"description": link.Description,
		"link_url":    link.LinkURL,
		"thumbnail":   nullIfEmpty(link.Thumbnail),
		"updated_at":  time.Now(),
	}
	sqlStr, args, err := builder.BuildUpdate("links", where, update)
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

func (r *LinkRepo) Delete(ctx context.Context, linkID int64) error {
	where := map[string]interface{}{"id": linkID}
	sqlStr, args, err := builder.BuildDelete("links", where)
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

func (r *LinkRepo) GetByID(ctx context.Context, linkID int64) (*model.Link, error) {
	sqlStr := "SELECT l.id, l.user_id, l.title, l.description, l.link_url," +
		" COALESCE(l.thumbnail, ''), l.created_at, l.updated_at" +
		" FROM links l WHERE l.id = ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{linkID})
	var link model.Link
	err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&link.ID, &link.UserID, &link.Title, &link.Description, &link.LinkURL,
		&link.Thumbnail, &link.CreatedAt, &link.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// GetRow loads a single link the way the listing projects it: with author
// nickname and the caller's bookmark flag.
func (r *LinkRepo) GetRow(ctx context.Context, linkID, callerID int64) (*LinkRow, error) {
	sqlStr := linkSelect + " WHERE l.id = ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{callerID, linkID})
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	item, err := scanLinkRow(row)
	if err == sql.ErrNoRows {
		return nil, appErr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

const linkSelect = "SELECT l.id, l.user_id, l.title, l.description, l.link_url," +
	" COALESCE(l.thumbnail, ''), l.created_at, l.updated_at, u.nickname," +
	" EXISTS (SELECT 1 FROM link_bookmarks b WHERE b.link_id = l.id" +
	" AND b.user_id = ? AND b.is_bookmarked = TRUE) AS is_bookmarked" +
	" FROM links l JOIN users u ON u.id = l.user_id"

// ListPage executes the composed filter set under the cursor bound and
// returns up to take+1 rows; the caller trims and derives the page meta.
func (r *LinkRepo) ListPage(ctx context.Context, callerID int64, filters listing.Filters, cursor listing.Cursor) ([]LinkRow, error) {
	preds := filters.Compose(listing.LinkSource, callerID)
	if bound, ok := cursor.Bound("l"); ok {
		preds = append(preds, bound)
	}
	whereExpr, whereArgs := listing.Where(preds)

	sqlStr := linkSelect +
		" WHERE " + whereExpr +
		" ORDER BY " + cursor.OrderBy("l") +
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
	items := make([]LinkRow, 0, cursor.FetchLimit())
	for rows.Next() {
		item, err := scanLinkRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLinkRow(s rowScanner) (*LinkRow, error) {
	var item LinkRow
	err := s.Scan(
		&item.ID, &item.UserID, &item.Title, &item.Description, &item.LinkURL,
		&item.Thumbnail, &item.CreatedAt, &item.UpdatedAt, &item.Author, &item.IsBookmarked,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
