package service

import (
	"context"
	"strings"
	"time"

	"github.com/linkstash/server/internal/model"
	appErr "github.com/linkstash/server/internal/pkg/errors"
	"github.com/linkstash/server/internal/repo"
)

type CommentService struct {
	comments *repo.CommentRepo
	links    *repo.LinkRepo
}

func NewCommentService(comments *repo.CommentRepo, links *repo.LinkRepo) *CommentService {
	return &CommentService{comments: comments, links: links}
}

type CommentDTO struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"linkId"`
	ParentID  *int64    `json:"parentCommentId,omitempty"`
	Comment   string    `json:"comment"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *CommentService) Create(ctx context.Context, callerID, linkID int64, parentID *int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, appErr.ErrInvalid
	}
	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.LinkID != linkID {
			return nil, appErr.ErrInvalid
		}
	}
	comment := &model.Comment{
		LinkID:   linkID,
		UserID:   callerID,
		ParentID: parentID,
		Comment:  text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, callerID, commentID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, appErr.ErrInvalid
	}
	current, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if current.UserID != callerID {
		return nil, appErr.ErrForbidden
	}
	if err := s.comments.Update(ctx, commentID, text); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, commentID)
}

func (s *CommentService) Delete(ctx context.Context, callerID, commentID int64) error {
	current, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if current.UserID != callerID {
		return appErr.ErrForbidden
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *CommentService) ListByLink(ctx context.Context, linkID int64) ([]CommentDTO, error) {
	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		return nil, err
	}
	rows, err := s.comments.ListByLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	items := make([]CommentDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, CommentDTO{
			ID:        row.ID,
			LinkID:    row.LinkID,
			ParentID:  row.ParentID,
			Comment:   row.Comment.Comment,
			Author:    row.Author,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return items, nil
}
