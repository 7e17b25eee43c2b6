package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportBackup builds a full archive and streams it back as a download.
func (s *Server) ExportBackup(c *gin.Context) {
	archivePath, err := s.backupSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.FileAttachment(archivePath, filepath.Base(archivePath))
}

// ImportBackup accepts an uploaded archive and restores it, replacing all
// live data.
func (s *Server) ImportBackup(c *gin.Context) {
	file, err := c.FormFile("archive")
	if err != nil {
		AbortWithError(c, newValidationError("archive", "missing_file", "archive file is required"))
		return
	}

	staged := filepath.Join(os.TempDir(), uuid.NewString()+".tar.gz")
	if err := c.SaveUploadedFile(file, staged); err != nil {
		AbortWithError(c, err)
		return
	}
	defer os.Remove(staged)

	if err := s.backupSvc.Import(c.Request.Context(), staged); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}

func (s *Server) CollectGarbage(c *gin.Context) {
	stats, err := s.backupSvc.Collect(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
