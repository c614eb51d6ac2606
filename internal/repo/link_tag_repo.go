package repo

import (
	"context"

	"github.com/didi/gendry/builder"
	"github.com/lib/pq"

	"github.com/linkstash/server/internal/pkg/dbutil"
)

type LinkTagRepo struct {
	db dbutil.Queryer
}

func NewLinkTagRepo(db dbutil.Queryer) *LinkTagRepo {
	return &LinkTagRepo{db: db}
}

func (r *LinkTagRepo) WithQueryer(q dbutil.Queryer) *LinkTagRepo {
	return &LinkTagRepo{db: q}
}

func (r *LinkTagRepo) AddBatch(ctx context.Context, linkID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, map[string]interface{}{
			"link_id": linkID,
			"tag_id":  tagID,
		})
	}
	sqlStr, args, err := builder.BuildInsert("link_tags", rows)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *LinkTagRepo) DeleteBatch(ctx context.Context, linkID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	where := map[string]interface{}{
		"link_id":   linkID,
		"tag_id in": tagIDs,
	}
	sqlStr, args, err := builder.BuildDelete("link_tags", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *LinkTagRepo) DeleteByLink(ctx context.Context, linkID int64) error {
	where := map[string]interface{}{"link_id": linkID}
	sqlStr, args, err := builder.BuildDelete("link_tags", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *LinkTagRepo) ListTagIDs(ctx context.Context, linkID int64) ([]int64, error) {
	where := map[string]interface{}{"link_id": linkID}
	sqlStr, args, err := builder.BuildSelect("link_tags", where, []string{"tag_id"})
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

// ListNamesByLinkIDs resolves tag names for a whole page of links in one
// query, keyed by link id.
func (r *LinkTagRepo) ListNamesByLinkIDs(ctx context.Context, linkIDs []int64) (map[int64][]string, error) {
	if len(linkIDs) == 0 {
		return map[int64][]string{}, nil
	}
	sqlStr := "SELECT lt.link_id, t.name FROM link_tags lt" +
		" JOIN tags t ON t.id = lt.tag_id" +
		" WHERE lt.link_id = ANY(?)" +
		" ORDER BY t.name ASC"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{pq.Array(linkIDs)})
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int64][]string)
	for rows.Next() {
		var linkID int64
		var name string
		if err := rows.Scan(&linkID, &name); err != nil {
			return nil, err
		}
		result[linkID] = append(result[linkID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
