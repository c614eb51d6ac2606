package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linkstash/server/internal/pkg/response"
	"github.com/linkstash/server/internal/service"
)

type TagHandler struct {
	tags *service.TagService
}

func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tags.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, tags)
}

func (h *TagHandler) Popular(c *gin.Context) {
	tags, err := h.tags.ListPopular(c.Request.Context(), queryLimit(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, tags)
}

func (h *TagHandler) Search(c *gin.Context) {
	tags, err := h.tags.Search(c.Request.Context(), c.Query("q"), queryLimit(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, tags)
}

func queryLimit(c *gin.Context) int {
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return 0
}
