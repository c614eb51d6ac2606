package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/linkstash/server/internal/listing"
	"github.com/linkstash/server/internal/model"
	"github.com/linkstash/server/internal/pkg/dbutil"
	appErr "github.com/linkstash/server/internal/pkg/errors"
	"github.com/linkstash/server/internal/repo"
)

type LinkService struct {
	db        *sql.DB
	links     *repo.LinkRepo
	linkTags  *repo.LinkTagRepo
	tags      *repo.TagRepo
	bookmarks *repo.BookmarkRepo
	users     *repo.UserRepo
}

func NewLinkService(db *sql.DB, links *repo.LinkRepo, linkTags *repo.LinkTagRepo, tags *repo.TagRepo, bookmarks *repo.BookmarkRepo, users *repo.UserRepo) *LinkService {
	return &LinkService{db: db, links: links, linkTags: linkTags, tags: tags, bookmarks: bookmarks, users: users}
}

type LinkDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	LinkURL      string    `json:"linkUrl"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
	Tags         []string  `json:"tags"`
	IsBookmarked bool      `json:"isBookmarked"`
}

type LinkPage struct {
	Data []LinkDTO    `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type LinkInput struct {
	Title       string
	Description string
	LinkURL     string
	Thumbnail   string
	Tags        []string
}

func (in LinkInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.LinkURL) == "" {
		return appErr.ErrInvalid
	}
	return nil
}

// List runs the filtered keyset listing and assembles the page DTO: trimmed
// rows, bookmark flag for the caller, flattened tag name lists, page meta.
func (s *LinkService) List(ctx context.Context, callerID int64, filters listing.Filters, cursor listing.Cursor) (*LinkPage, error) {
	rows, err := s.links.ListPage(ctx, callerID, filters, cursor)
	if err != nil {
		return nil, err
	}
	page, meta := listing.TrimPage(rows, cursor, func(r repo.LinkRow) int64 { return r.ID })

	linkIDs := make([]int64, 0, len(page))
	for _, row := range page {
		linkIDs = append(linkIDs, row.ID)
	}
	tagNames, err := s.linkTags.ListNamesByLinkIDs(ctx, linkIDs)
	if err != nil {
		return nil, err
	}

	data := make([]LinkDTO, 0, len(page))
	for _, row := range page {
		data = append(data, projectLink(row, tagNames[row.ID]))
	}
	return &LinkPage{Data: data, Meta: meta}, nil
}

func (s *LinkService) Get(ctx context.Context, callerID, linkID int64) (*LinkDTO, error) {
	row, err := s.links.GetRow(ctx, linkID, callerID)
	if err != nil {
		return nil, err
	}
	tagNames, err := s.linkTags.ListNamesByLinkIDs(ctx, []int64{linkID})
	if err != nil {
		return nil, err
	}
	dto := projectLink(*row, tagNames[linkID])
	return &dto, nil
}

func (s *LinkService) Create(ctx context.Context, callerID int64, input LinkInput) (*LinkDTO, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	link := &model.Link{
		UserID:      callerID,
		Title:       input.Title,
		Description: input.Description,
		LinkURL:     input.LinkURL,
		Thumbnail:   input.Thumbnail,
	}
	// Link insert, tag resolution and association writes share one
	// transaction so usage_count can never drift from the live
	// association count.
	err = dbutil.Transact(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.links.WithQueryer(tx).Create(ctx, link); err != nil {
			return err
		}
		tags, err := findOrCreateTags(ctx, s.tags.WithQueryer(tx), input.Tags, true)
		if err != nil {
			return err
		}
		return s.linkTags.WithQueryer(tx).AddBatch(ctx, link.ID, tagIDsOf(tags))
	})
	if err != nil {
		return nil, err
	}
	dto := LinkDTO{
		ID:          link.ID,
		Title:       link.Title,
		Description: link.Description,
		LinkURL:     link.LinkURL,
		Thumbnail:   link.Thumbnail,
		Author:      user.Nickname,
		CreatedAt:   link.CreatedAt,
		Tags:        dedupeNames(input.Tags),
	}
	return &dto, nil
}

func (s *LinkService) Update(ctx context.Context, callerID, linkID int64, input LinkInput) (*LinkDTO, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	current, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, appErr.ErrForbidden
	}

	err = dbutil.Transact(ctx, s.db, func(tx *sql.Tx) error {
		links := s.links.WithQueryer(tx)
		linkTags := s.linkTags.WithQueryer(tx)
		tags := s.tags.WithQueryer(tx)

		updated := &model.Link{
			ID:          linkID,
			Title:       input.Title,
			Description: input.Description,
			LinkURL:     input.LinkURL,
			Thumbnail:   input.Thumbnail,
		}
		if err := links.Update(ctx, updated); err != nil {
			return err
		}

		oldIDs, err := linkTags.ListTagIDs(ctx, linkID)
		if err != nil {
			return err
		}
		// Resolve the new set without counting, then apply the diff: only
		// tags actually leaving or entering the set touch usage_count.
		newTags, err := findOrCreateTags(ctx, tags, input.Tags, false)
		if err != nil {
			return err
		}
		removed, added := diffTagIDs(oldIDs, tagIDsOf(newTags))
		if err := linkTags.DeleteBatch(ctx, linkID, removed); err != nil {
			return err
		}
		if err := linkTags.AddBatch(ctx, linkID, added); err != nil {
			return err
		}
		if err := tags.DecrementUsage(ctx, removed); err != nil {
			return err
		}
		return tags.IncrementUsage(ctx, added)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, callerID, linkID)
}

func (s *LinkService) Delete(ctx context.Context, callerID, linkID int64) error {
	current, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}
	if current.UserID != callerID {
		return appErr.ErrForbidden
	}
	return dbutil.Transact(ctx, s.db, func(tx *sql.Tx) error {
		linkTags := s.linkTags.WithQueryer(tx)
		tags := s.tags.WithQueryer(tx)

		tagIDs, err := linkTags.ListTagIDs(ctx, linkID)
		if err != nil {
			return err
		}
		if err := tags.DecrementUsage(ctx, tagIDs); err != nil {
			return err
		}
		// Association and bookmark rows go with the link via FK cascade.
		return s.links.WithQueryer(tx).Delete(ctx, linkID)
	})
}

// ToggleBookmark drives the (link,user) relation to target through a single
// conditional upsert and reports the final state.
func (s *LinkService) ToggleBookmark(ctx context.Context, linkID, userID int64, target bool) (bool, error) {
	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		return false, err
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, appErr.ErrNotFound
	}
	return s.bookmarks.Toggle(ctx, linkID, userID, target)
}

func projectLink(row repo.LinkRow, tags []string) LinkDTO {
	if tags == nil {
		tags = []string{}
	}
	return LinkDTO{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		LinkURL:      row.LinkURL,
		Thumbnail:    row.Thumbnail,
		Author:       row.Author,
		CreatedAt:    row.CreatedAt,
		Tags:         tags,
		IsBookmarked: row.IsBookmarked,
	}
}

func tagIDsOf(tags []model.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
