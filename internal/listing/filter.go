package listing

import (
	"strings"
	"time"
)

// Predicate is one conjunctive condition with MySQL-style ? placeholders,
// finalized to $n by dbutil right before execution.
type Predicate struct {
	Expr string
	Args []interface{}
}

// Source describes the base row set a listing runs against, so the same
// filter set can attach to links, groups, or any future bookmarkable table.
type Source struct {
	Table         string
	Alias         string
	BookmarkTable string
	SubjectCol    string
	HasThumbnail  bool
	HasTags       bool
}

var (
	LinkSource = Source{
		Table:         "links",
		Alias:         "l",
		BookmarkTable: "link_bookmarks",
		SubjectCol:    "link_id",
		HasThumbnail:  true,
		HasTags:       true,
	}
	GroupSource = Source{
		Table:         "groups",
		Alias:         "g",
		BookmarkTable: "group_bookmarks",
		SubjectCol:    "group_id",
	}
)

// Filters holds the optional listing criteria. Each field contributes zero or
// one predicate; unset fields impose no constraint. Composition is pure: no
// I/O, no mutation of the source.
type Filters struct {
	Keyword      string
	StartDate    *time.Time
	EndDate      *time.Time
	IsBookmarked *bool
	HasThumbnail *bool
	TagKeyword   string
	CreatedByMe  *bool
	OwnerID      *int64
}

// Compose turns the set criteria into an ordered conjunctive predicate list
// over src. callerID feeds the isBookmarked and createdByMe criteria; those
// are skipped when no caller identity is available.
func (f Filters) Compose(src Source, callerID int64) []Predicate {
	preds := make([]Predicate, 0, 7)
	a := src.Alias

	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		preds = append(preds, Predicate{
			Expr: a + ".title ILIKE ?",
			Args: []interface{}{"%" + kw + "%"},
		})
	}
	if f.StartDate != nil {
		preds = append(preds, Predicate{
			Expr: a + ".created_at >= ?",
			Args: []interface{}{*f.StartDate},
		})
	}
	if f.EndDate != nil {
		preds = append(preds, Predicate{
			Expr: a + ".created_at <= ?",
			Args: []interface{}{*f.EndDate},
		})
	}
	if f.IsBookmarked != nil && callerID > 0 {
		sub := "SELECT 1 FROM " + src.BookmarkTable + " b WHERE b." + src.SubjectCol +
			" = " + a + ".id AND b.user_id = ? AND b.is_bookmarked = TRUE"
		expr := "EXISTS (" + sub + ")"
		if !*f.IsBookmarked {
			expr = "NOT EXISTS (" + sub + ")"
		}
		preds = append(preds, Predicate{Expr: expr, Args: []interface{}{callerID}})
	}
	if f.HasThumbnail != nil && src.HasThumbnail {
		if *f.HasThumbnail {
			preds = append(preds, Predicate{Expr: a + ".thumbnail IS NOT NULL AND " + a + ".thumbnail <> ''"})
		} else {
			preds = append(preds, Predicate{Expr: a + ".thumbnail IS NULL OR " + a + ".thumbnail = ''"})
		}
	}
	if tk := strings.TrimSpace(f.TagKeyword); tk != "" && src.HasTags {
		preds = append(preds, Predicate{
			Expr: "EXISTS (SELECT 1 FROM link_tags lt JOIN tags t ON t.id = lt.tag_id" +
				" WHERE lt.link_id = " + a + ".id AND t.name ILIKE ?)",
			Args: []interface{}{"%" + tk + "%"},
		})
	}
	if f.CreatedByMe != nil && callerID > 0 {
		op := "="
		if !*f.CreatedByMe {
			op = "<>"
		}
		preds = append(preds, Predicate{
			Expr: a + ".user_id " + op + " ?",
			Args: []interface{}{callerID},
		})
	}
	if f.OwnerID != nil {
		preds = append(preds, Predicate{
			Expr: a + ".user_id = ?",
			Args: []interface{}{*f.OwnerID},
		})
	}
	return preds
}

// Where renders preds as a SQL clause body joined with AND. An empty predicate
// list yields "TRUE" so callers can always interpolate it after WHERE.
func Where(preds []Predicate) (string, []interface{}) {
	if len(preds) == 0 {
		return "TRUE", nil
	}
	exprs := make([]string, 0, len(preds))
	var args []interface{}
	for _, p := range preds {
		exprs = append(exprs, "("+p.Expr+")")
		args = append(args, p.Args...)
	}
	return strings.Join(exprs, " AND "), args
}
