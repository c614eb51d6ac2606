package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linkstash/server/internal/service"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Export downloads the caller's link collection as a standalone HTML page.
func (h *ExportHandler) Export(c *gin.Context) {
	page, err := h.svc.ExportHTML(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	filename := fmt.Sprintf("linkstash-export-%s.html", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, "text/html; charset=utf-8", page)
}
