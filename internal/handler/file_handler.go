package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/linkstash/server/internal/filestore"
	"github.com/linkstash/server/internal/pkg/errcode"
	"github.com/linkstash/server/internal/pkg/response"
)

const maxUploadSize = 8 << 20 // 8 MiB

var allowedUploadExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

type FileHandler struct {
	store   filestore.Store
	baseURL string
}

func NewFileHandler(store filestore.Store, baseURL string) *FileHandler {
	return &FileHandler{store: store, baseURL: baseURL}
}

func buildFileKey(userID int64, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedUploadExts[ext]; !ok {
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate file key: %w", err)
	}
	return fmt.Sprintf("%d/%d-%s%s", userID, time.Now().Unix(), hex.EncodeToString(buf), ext), nil
}

// Upload stores a thumbnail image and returns its key and public url.
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "missing upload file")
		return
	}
	if header.Size <= 0 || header.Size > maxUploadSize {
		response.Error(c, errcode.ErrInvalidFile, "invalid file size")
		return
	}
	key, err := buildFileKey(getUserID(c), header.Filename)
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "unsupported file type")
		return
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, errcode.ErrUploadFailed, "open upload failed")
		return
	}
	defer f.Close()
	if err := h.store.Save(c.Request.Context(), key, f, header.Size); err != nil {
		logutil.GetLogger(c.Request.Context()).Error("save upload failed",
			zap.String("key", key), zap.Error(err))
		response.Error(c, errcode.ErrUploadFailed, "save upload failed")
		return
	}
	response.Success(c, gin.H{
		"key": key,
		"url": h.store.URL(key, h.baseURL),
	})
}

// Get streams a stored file back to the client. Keys contain the owner id
// segment, so the route parameter is a wildcard.
func (h *FileHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" || strings.Contains(key, "..") {
		response.Error(c, errcode.ErrInvalidFile, "invalid file key")
		return
	}
	rc, err := h.store.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, errcode.ErrNotFound, "file not found")
		return
	}
	defer rc.Close()
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(200)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logutil.GetLogger(c.Request.Context()).Warn("stream file failed",
			zap.String("key", key), zap.Error(err))
	}
}
