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

type GroupService struct {
	db        *sql.DB
	groups    *repo.GroupRepo
	links     *repo.LinkRepo
	bookmarks *repo.BookmarkRepo
	users     *repo.UserRepo
}

func NewGroupService(db *sql.DB, groups *repo.GroupRepo, links *repo.LinkRepo, bookmarks *repo.BookmarkRepo, users *repo.UserRepo) *GroupService {
	return &GroupService{db: db, groups: groups, links: links, bookmarks: bookmarks, users: users}
}

type GroupDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Views        int       `json:"views"`
	LinkedLinks  int       `json:"linkedLinksCount"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
	IsBookmarked bool      `json:"isBookmarked"`
}

type GroupPage struct {
	Data []GroupDTO   `json:"data"`
	Meta listing.Meta `json:"meta"`
}

type GroupInput struct {
	Title       string
	Description string
}

func (s *GroupService) List(ctx context.Context, callerID int64, filters listing.Filters, cursor listing.Cursor) (*GroupPage, error) {
	rows, err := s.groups.ListPage(ctx, callerID, filters, cursor)
	if err != nil {
		return nil, err
	}
	page, meta := listing.TrimPage(rows, cursor, func(r repo.GroupRow) int64 { return r.ID })
	data := make([]GroupDTO, 0, len(page))
	for _, row := range page {
		data = append(data, projectGroup(row))
	}
	return &GroupPage{Data: data, Meta: meta}, nil
}

// Get returns the detail row and counts the view.
func (s *GroupService) Get(ctx context.Context, callerID, groupID int64) (*GroupDTO, error) {
	if err := s.groups.IncrementViews(ctx, groupID); err != nil {
		return nil, err
	}
	row, err := s.groups.GetRow(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	dto := projectGroup(*row)
	return &dto, nil
}

func (s *GroupService) Create(ctx context.Context, callerID int64, input GroupInput) (*GroupDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, appErr.ErrInvalid
	}
	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	group := &model.Group{
		UserID:      callerID,
		Title:       input.Title,
		Description: input.Description,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return &GroupDTO{
		ID:          group.ID,
		Title:       group.Title,
		Description: group.Description,
		Author:      user.Nickname,
		CreatedAt:   group.CreatedAt,
	}, nil
}

func (s *GroupService) Update(ctx context.Context, callerID, groupID int64, input GroupInput) (*GroupDTO, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, appErr.ErrInvalid
	}
	current, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, appErr.ErrForbidden
	}
	group := &model.Group{
		ID:          groupID,
		Title:       input.Title,
		Description: input.Description,
	}
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, err
	}
	row, err := s.groups.GetRow(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	dto := projectGroup(*row)
	return &dto, nil
}

func (s *GroupService) Delete(ctx context.Context, callerID, groupID int64) error {
	current, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if current.UserID != callerID {
		return appErr.ErrForbidden
	}
	return s.groups.Delete(ctx, groupID)
}

// SetLinks replaces the group's link membership with the given set, verifying
// every id first.
func (s *GroupService) SetLinks(ctx context.Context, callerID, groupID int64, linkIDs []int64) error {
	current, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if current.UserID != callerID {
		return appErr.ErrForbidden
	}
	for _, linkID := range linkIDs {
		if _, err := s.links.GetByID(ctx, linkID); err != nil {
			return err
		}
	}
	return dbutil.Transact(ctx, s.db, func(tx *sql.Tx) error {
		return s.groups.WithQueryer(tx).SetLinks(ctx, groupID, linkIDs)
	})
}

func (s *GroupService) ToggleBookmark(ctx context.Context, groupID, userID int64, target bool) (bool, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return false, err
	}
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, appErr.ErrNotFound
	}
	return s.bookmarks.Toggle(ctx, groupID, userID, target)
}

func projectGroup(row repo.GroupRow) GroupDTO {
	return GroupDTO{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Views:        row.Views,
		LinkedLinks:  row.LinkedLinks,
		Author:       row.Author,
		CreatedAt:    row.CreatedAt,
		IsBookmarked: row.IsBookmarked,
	}
}
