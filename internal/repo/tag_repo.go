package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"
	"github.com/lib/pq"

	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
)

type TagRepo struct {
	db dbutil.Queryer
}

func NewTagRepo(db dbutil.Queryer) *TagRepo {
	return &TagRepo{db: db}
}

// WithQueryer re-scopes the repo, typically to a transaction.
func (r *TagRepo) WithQueryer(q dbutil.Queryer) *TagRepo {
	return &TagRepo{db: q}
}

// CreateBatch inserts the given names with the same initial usage count and
// returns the created rows. Names that already exist are skipped; callers
// resolve the full set with ListByNames afterwards.
func (r *TagRepo) CreateBatch(ctx context.Context, names []string, initialUsage int) ([]model.Tag, error) {
	if len(names) == 0 {
		return []model.Tag{}, nil
	}
	sqlStr := "INSERT INTO tags (name, usage_count) VALUES "
	args := make([]interface{}, 0, len(names)*2)
	for i, name := range names {
		if i > 0 {
			sqlStr += ", "
		}
		sqlStr += "(?, ?)"
		args = append(args, name, initialUsage)
	}
	sqlStr += " ON CONFLICT (name) DO NOTHING RETURNING id, name, usage_count"
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make([]model.Tag, 0, len(names))
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.UsageCount); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *TagRepo) ListByNames(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return []model.Tag{}, nil
	}
	where := map[string]interface{}{"name in": names}
	return r.query(ctx, where)
}

func (r *TagRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	where := map[string]interface{}{"id in": ids}
	return r.query(ctx, where)
}

// IncrementUsage bumps usage_count by one for every given tag id in a single
// atomic statement. Read-then-write is deliberately avoided: concurrent
// callers adjusting the same tag must not lose updates.
func (r *TagRepo) IncrementUsage(ctx context.Context, ids []int64) error {
	return r.adjustUsage(ctx, ids, "+")
}

// DecrementUsage is the inverse of IncrementUsage. The column check constraint
// keeps usage_count from going negative if callers mis-diff.
func (r *TagRepo) DecrementUsage(ctx context.Context, ids []int64) error {
	return r.adjustUsage(ctx, ids, "-")
}

func (r *TagRepo) adjustUsage(ctx context.Context, ids []int64, op string) error {
	if len(ids) == 0 {
		return nil
	}
	sqlStr := "UPDATE tags SET usage_count = usage_count " + op + " 1 WHERE id = ANY(?)"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{pq.Array(ids)})
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// DeleteUnused removes every tag with a zero usage count. Maintenance only:
// a tag may pass through zero transiently inside a reconciliation transaction
// and must never be reaped inline with an item mutation.
func (r *TagRepo) DeleteUnused(ctx context.Context) (int64, error) {
	sqlStr, args := dbutil.Finalize("DELETE FROM tags WHERE usage_count = 0", nil)
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *TagRepo) ListAll(ctx context.Context) ([]model.Tag, error) {
	where := map[string]interface{}{"_orderby": "usage_count desc, name asc"}
	return r.query(ctx, where)
}

func (r *TagRepo) ListPopular(ctx context.Context, limit int) ([]model.Tag, error) {
	where := map[string]interface{}{
		"usage_count >": 0,
		"_orderby":      "usage_count desc, name asc",
		"_limit":        []uint{0, uint(limit)},
	}
	return r.query(ctx, where)
}

func (r *TagRepo) SearchByName(ctx context.Context, query string, limit int) ([]model.Tag, error) {
	sqlStr := "SELECT id, name, usage_count FROM tags WHERE name ILIKE ? ORDER BY usage_count DESC, name ASC LIMIT ?"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{"%" + query + "%", limit})
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *TagRepo) query(ctx context.Context, where map[string]interface{}) ([]model.Tag, error) {
	sqlStr, args, err := builder.BuildSelect("tags", where, []string{"id", "name", "usage_count"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func scanTags(rows *sql.Rows) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.UsageCount); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
