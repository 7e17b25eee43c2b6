package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	canvasdomain "github.com/smallbiznis/decora/internal/canvas/domain"
)

type saveCanvasRequest struct {
	ID        string               `json:"id"`
	Name      string               `json:"name" binding:"required"`
	Data      canvasdomain.Payload `json:"data"`
	Thumbnail *string              `json:"thumbnail"`
}

func (s *Server) ListCanvases(c *gin.Context) {
	canvases, err := s.canvasSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"canvases": canvases})
}

func (s *Server) GetCanvas(c *gin.Context) {
	canvas, err := s.canvasSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, canvas)
}

func (s *Server) SaveCanvas(c *gin.Context) {
	var req saveCanvasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	canvas, err := s.canvasSvc.Save(c.Request.Context(), canvasdomain.SaveRequest{
		ID:        req.ID,
		Name:      req.Name,
		Payload:   req.Data,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, canvas)
}

func (s *Server) DeleteCanvas(c *gin.Context) {
	if err := s.canvasSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
