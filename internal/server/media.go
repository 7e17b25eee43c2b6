package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadMedia takes an uploaded image, copies it into the blob store and
// returns the stable internal path for use as an image reference.
func (s *Server) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "missing_file", "file is required"))
		return
	}

	staged := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, staged); err != nil {
		AbortWithError(c, err)
		return
	}
	defer os.Remove(staged)

	internal, err := s.blobs.CopyToInternal(staged)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": internal})
}
