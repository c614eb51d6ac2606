package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
)

// BookmarkRepo stores the per-(subject,user) bookmark relation. The same
// implementation serves links and groups; table and subject column are fixed
// at construction.
type BookmarkRepo struct {
	db         dbutil.Queryer
	table      string
	subjectCol string
}

func NewLinkBookmarkRepo(db dbutil.Queryer) *BookmarkRepo {
	return &BookmarkRepo{db: db, table: "link_bookmarks", subjectCol: "link_id"}
}

func NewGroupBookmarkRepo(db dbutil.Queryer) *BookmarkRepo {
	return &BookmarkRepo{db: db, table: "group_bookmarks", subjectCol: "group_id"}
}

func (r *BookmarkRepo) WithQueryer(q dbutil.Queryer) *BookmarkRepo {
	return &BookmarkRepo{db: q, table: r.table, subjectCol: r.subjectCol}
}

// Toggle sets the relation to target in one conditional upsert. A separate
// exists-check plus insert would race when two togglers both observe an
// absent row; the ON CONFLICT form cannot.
func (r *BookmarkRepo) Toggle(ctx context.Context, subjectID, userID int64, target bool) (bool, error) {
	sqlStr := "INSERT INTO " + r.table + " (" + r.subjectCol + ", user_id, is_bookmarked)" +
		" VALUES (?, ?, ?)" +
		" ON CONFLICT (" + r.subjectCol + ", user_id) DO UPDATE SET is_bookmarked = EXCLUDED.is_bookmarked" +
		" RETURNING is_bookmarked"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{subjectID, userID, target})
	var final bool
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&final); err != nil {
		return false, err
	}
	return final, nil
}

// Get reports the current relation. A missing row reads as false.
func (r *BookmarkRepo) Get(ctx context.Context, subjectID, userID int64) (*model.Bookmark, error) {
	where := map[string]interface{}{
		r.subjectCol: subjectID,
		"user_id":    userID,
	}
	sqlStr, args, err := builder.BuildSelect(r.table, where, []string{r.subjectCol, "user_id", "is_bookmarked"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var bm model.Bookmark
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&bm.SubjectID, &bm.UserID, &bm.IsBookmarked)
	if err == sql.ErrNoRows {
		return &model.Bookmark{SubjectID: subjectID, UserID: userID, IsBookmarked: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &bm, nil
}

// Count returns how many users currently bookmark a subject. Rows toggled
// back off stay persisted but do not count.
func (r *BookmarkRepo) Count(ctx context.Context, subjectID int64) (int, error) {
	sqlStr := "SELECT COUNT(*) FROM " + r.table + " WHERE " + r.subjectCol + " = ? AND is_bookmarked = TRUE"
	sqlStr, args := dbutil.Finalize(sqlStr, []interface{}{subjectID})
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
