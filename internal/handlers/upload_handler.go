package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"agrosite/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxImageSize caps a single uploaded image
const MaxImageSize = 10 << 20

var imageKinds = map[string]bool{"token": true, "farm": true}

// UploadHandler stores token and farm images
type UploadHandler struct {
	blobs storage.BlobWriter
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(blobs storage.BlobWriter) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// UploadImage handles POST /api/token/upload/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image uploaded"})
		return
	}

	name := filepath.Base(strings.ReplaceAll(file.Filename, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty file name"})
		return
	}
	if file.Size > MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image exceeds %d bytes", MaxImageSize)})
		return
	}

	kind := c.DefaultPostForm("type", "token")
	if !imageKinds[kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be token or farm"})
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer src.Close()

	key := fmt.Sprintf("uploads/%s/%s_%s", kind, uuid.NewString(), name)
	path, err := h.blobs.Put(c.Request.Context(), key, src, file.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"path":    path,
	})
}
