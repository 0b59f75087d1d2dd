package httpapi

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	apperrors "github.com/nasdex/indexer/internal/errors"
	"github.com/nasdex/indexer/internal/nasindex/store"
)

var validThumbnailSizes = map[string]bool{"small": true, "medium": true, "large": true}

// handleThumbnail serves a rendered thumbnail by logical file path and
// size, looking the on-disk path up from the thumbnails:<path> hash the
// thumbnail worker populates.
func (s *Service) handleThumbnail(c *gin.Context) {
	filePath := c.Query("file_path")
	size := c.Query("size")

	if filePath == "" {
		apperrors.Err(c, apperrors.RequiredParam("file_path"))
		return
	}
	if !validThumbnailSizes[size] {
		apperrors.Err(c, apperrors.InvalidParam("size", "must be small, medium, or large"))
		return
	}

	thumbPath, ok, err := s.st.HGet(c.Request.Context(), store.ThumbnailsKey(filePath), size)
	if err != nil {
		apperrors.Err(c, apperrors.StoreUnavailable(err))
		return
	}
	if !ok || thumbPath == "" {
		apperrors.Err(c, apperrors.FileNotFound(filePath))
		return
	}
	if !fileExists(thumbPath) {
		apperrors.Err(c, apperrors.FileNotFound(thumbPath))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(thumbPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
