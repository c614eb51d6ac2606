package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/linkstash/server/internal/pkg/errcode"
	"github.com/linkstash/server/internal/pkg/response"
	"github.com/linkstash/server/internal/service"
)

type GroupHandler struct {
	groups *service.GroupService
}

func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type groupRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *GroupHandler) List(c *gin.Context) {
	filters, cursor, err := parseListQuery(c)
	if err != nil {
		handleError(c, err)
		return
	}
	page, err := h.groups.List(c.Request.Context(), getUserID(c), filters, cursor)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, page)
}

func (h *GroupHandler) Get(c *gin.Context) {
	groupID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	dto, err := h.groups.Get(c.Request.Context(), getUserID(c), groupID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	dto, err := h.groups.Create(c.Request.Context(), getUserID(c), service.GroupInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *GroupHandler) Update(c *gin.Context) {
	groupID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	dto, err := h.groups.Update(c.Request.Context(), getUserID(c), groupID, service.GroupInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.groups.Delete(c.Request.Context(), getUserID(c), groupID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": groupID})
}

type groupLinksRequest struct {
	LinkIDs []int64 `json:"linkIds"`
}

func (h *GroupHandler) SetLinks(c *gin.Context) {
	groupID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	var req groupLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.groups.SetLinks(c.Request.Context(), getUserID(c), groupID, req.LinkIDs); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": groupID, "linkedLinksCount": len(req.LinkIDs)})
}

func (h *GroupHandler) Bookmark(c *gin.Context) {
	h.toggleBookmark(c, true)
}

func (h *GroupHandler) Unbookmark(c *gin.Context) {
	h.toggleBookmark(c, false)
}

func (h *GroupHandler) toggleBookmark(c *gin.Context, target bool) {
	groupID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	final, err := h.groups.ToggleBookmark(c.Request.Context(), groupID, getUserID(c), target)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"isBookmarked": final})
}
