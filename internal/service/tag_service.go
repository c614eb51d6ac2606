package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
	"github.com/linkstash/server/internal/repo"
)

const (
	defaultPopularLimit = 20
	defaultSearchLimit  = 10
	popularCacheTTL     = 30 * time.Second
)

type TagService struct {
	db      *sql.DB
	tags    *repo.TagRepo
	popular *expirable.LRU[string, []model.Tag]
}

func NewTagService(db *sql.DB, tags *repo.TagRepo) *TagService {
	return &TagService{
		db:      db,
		tags:    tags,
		popular: expirable.NewLRU[string, []model.Tag](16, nil, popularCacheTTL),
	}
}

// FindOrCreate resolves names to tag rows, creating missing ones. With
// autoIncrement, every resolved tag's usage count is bumped by one (new tags
// start at one, so nothing is counted twice). Runs in its own transaction.
func (s *TagService) FindOrCreate(ctx context.Context, names []string, autoIncrement bool) ([]model.Tag, error) {
	var result []model.Tag
	err := dbutil.Transact(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		result, err = findOrCreateTags(ctx, s.tags.WithQueryer(tx), names, autoIncrement)
		return err
	})
	return result, err
}

// findOrCreateTags is the transactional core, shared with the link mutation
// flows which call it on a tx-scoped repo.
func findOrCreateTags(ctx context.Context, tags *repo.TagRepo, names []string, autoIncrement bool) ([]model.Tag, error) {
	names = dedupeNames(names)
	if len(names) == 0 {
		return []model.Tag{}, nil
	}

	existing, err := tags.ListByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, tag := range existing {
		known[tag.Name] = true
	}
	missing := make([]string, 0, len(names)-len(existing))
	for _, name := range names {
		if !known[name] {
			missing = append(missing, name)
		}
	}

	initial := 0
	if autoIncrement {
		initial = 1
	}
	created, err := tags.CreateBatch(ctx, missing, initial)
	if err != nil {
		return nil, err
	}

	if autoIncrement {
		// Existing tags get the atomic bump; freshly created ones already
		// start at the right count. A name that lost an insert race counts
		// as existing.
		inserted := make(map[string]bool, len(created))
		for _, tag := range created {
			inserted[tag.Name] = true
		}
		bump := make([]int64, 0, len(existing))
		for _, tag := range existing {
			bump = append(bump, tag.ID)
		}
		for _, name := range missing {
			if !inserted[name] {
				raced, err := tags.ListByNames(ctx, []string{name})
				if err != nil {
					return nil, err
				}
				if len(raced) == 0 {
					return nil, fmt.Errorf("tag %q vanished during find-or-create", name)
				}
				bump = append(bump, raced[0].ID)
			}
		}
		if err := tags.IncrementUsage(ctx, bump); err != nil {
			return nil, err
		}
	}

	// Reselect so returned usage counts reflect the increments.
	return tags.ListByNames(ctx, names)
}

func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// diffTagIDs computes the reconciliation sets for a tag-set change. The diff
// form is mandatory: rerunning find-or-create over the new set would double
// count the unchanged tags.
func diffTagIDs(oldIDs, newIDs []int64) (removed, added []int64) {
	oldSet := make(map[int64]bool, len(oldIDs))
	for _, id := range oldIDs {
		oldSet[id] = true
	}
	newSet := make(map[int64]bool, len(newIDs))
	for _, id := range newIDs {
		newSet[id] = true
	}
	for _, id := range oldIDs {
		if !newSet[id] {
			removed = append(removed, id)
		}
	}
	for _, id := range newIDs {
		if !oldSet[id] {
			added = append(added, id)
		}
	}
	return removed, added
}

// CleanupUnused reaps zero-usage tags. Callers are expected to run it from a
// maintenance job, never inside an item mutation: a tag may sit at zero
// transiently between the decrement and increment halves of a reconciliation.
func (s *TagService) CleanupUnused(ctx context.Context) (int64, error) {
	return s.tags.DeleteUnused(ctx)
}

func (s *TagService) ListAll(ctx context.Context) ([]model.Tag, error) {
	return s.tags.ListAll(ctx)
}

func (s *TagService) ListPopular(ctx context.Context, limit int) ([]model.Tag, error) {
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	key := fmt.Sprintf("popular:%d", limit)
	if cached, ok := s.popular.Get(key); ok {
		return cached, nil
	}
	tags, err := s.tags.ListPopular(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.popular.Add(key, tags)
	return tags, nil
}

func (s *TagService) Search(ctx context.Context, query string, limit int) ([]model.Tag, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Tag{}, nil
	}
	return s.tags.SearchByName(ctx, query, limit)
}
