package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/linkstash/server/internal/pkg/errcode"
	"github.com/linkstash/server/internal/pkg/response"
	"github.com/linkstash/server/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type commentRequest struct {
	Comment  string `json:"comment"`
	ParentID *int64 `json:"parentCommentId"`
}

func (h *CommentHandler) ListByLink(c *gin.Context) {
	linkID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	items, err := h.comments.ListByLink(c.Request.Context(), linkID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *CommentHandler) Create(c *gin.Context) {
	linkID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), getUserID(c), linkID, req.ParentID, req.Comment)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	commentID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), getUserID(c), commentID, req.Comment)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), getUserID(c), commentID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": commentID})
}
