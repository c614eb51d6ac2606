package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/linkstash/server/internal/pkg/errcode"
	"github.com/linkstash/server/internal/pkg/response"
	"github.com/linkstash/server/internal/service"
)

type LinkHandler struct {
	links *service.LinkService
}

func NewLinkHandler(links *service.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

type linkRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	LinkURL     string   `json:"linkUrl"`
	Thumbnail   string   `json:"thumbnail"`
	Tags        []string `json:"tags"`
}

func (h *LinkHandler) List(c *gin.Context) {
	filters, cursor, err := parseListQuery(c)
	if err != nil {
		handleError(c, err)
		return
	}
	page, err := h.links.List(c.Request.Context(), getUserID(c), filters, cursor)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, page)
}

// ListByUser serves /users/:id/links: the same listing pinned to one owner.
func (h *LinkHandler) ListByUser(c *gin.Context) {
	ownerID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	filters, cursor, err := parseListQuery(c)
	if err != nil {
		handleError(c, err)
		return
	}
	filters.OwnerID = &ownerID
	page, err := h.links.List(c.Request.Context(), getUserID(c), filters, cursor)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, page)
}

func (h *LinkHandler) Get(c *gin.Context) {
	linkID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	dto, err := h.links.Get(c.Request.Context(), getUserID(c), linkID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *LinkHandler) Create(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	dto, err := h.links.Create(c.Request.Context(), getUserID(c), service.LinkInput{
		Title:       req.Title,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		Thumbnail:   req.Thumbnail,
		Tags:        req.Tags,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *LinkHandler) Update(c *gin.Context) {
	linkID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	dto, err := h.links.Update(c.Request.Context(), getUserID(c), linkID, service.LinkInput{
		Title:       req.Title,
		Description: req.Description,
		LinkURL:     req.LinkURL,
		Thumbnail:   req.Thumbnail,
		Tags:        req.Tags,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *LinkHandler) Delete(c *gin.Context) {
	linkID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.links.Delete(c.Request.Context(), getUserID(c), linkID); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"id": linkID})
}

func (h *LinkHandler) Bookmark(c *gin.Context) {
	h.toggleBookmark(c, true)
}

func (h *LinkHandler) Unbookmark(c *gin.Context) {
	h.toggleBookmark(c, false)
}

func (h *LinkHandler) toggleBookmark(c *gin.Context, target bool) {
	linkID, err := paramID(c, "id")
	if err != nil {
		handleError(c, err)
		return
	}
	final, err := h.links.ToggleBookmark(c.Request.Context(), linkID, getUserID(c), target)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"isBookmarked": final})
}
