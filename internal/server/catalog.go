package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/decora/internal/catalog/domain"
)

type createSectionRequest struct {
	Name  string  `json:"name" binding:"required"`
	Color string  `json:"color"`
	Icon  string  `json:"icon"`
	Image *string `json:"image"`
}

type updateSectionRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
	Image *string `json:"image"`
}

func (s *Server) ListSections(c *gin.Context) {
	sections, err := s.catalogSvc.ListSections(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (s *Server) GetSection(c *gin.Context) {
	section, err := s.catalogSvc.GetSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (s *Server) CreateSection(c *gin.Context) {
	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	section, err := s.catalogSvc.CreateSection(c.Request.Context(), catalogdomain.CreateSectionRequest{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		Image: req.Image,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (s *Server) UpdateSection(c *gin.Context) {
	var req updateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	section, err := s.catalogSvc.UpdateSection(c.Request.Context(), catalogdomain.UpdateSectionRequest{
		ID:    c.Param("id"),
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		Image: req.Image,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (s *Server) DeleteSection(c *gin.Context) {
	if err := s.catalogSvc.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListSectionProducts(c *gin.Context) {
	products, err := s.catalogSvc.ListProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type createProductRequest struct {
	SectionID   string   `json:"sectionId" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	RentPrice   float64  `json:"rentPrice"`
	Images      []string `json:"images"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	RentPrice   *float64 `json:"rentPrice"`
	Images      []string `json:"images"`
}

func (s *Server) GetProduct(c *gin.Context) {
	product, err := s.catalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	product, err := s.catalogSvc.CreateProduct(c.Request.Context(), catalogdomain.CreateProductRequest{
		SectionID:   req.SectionID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		RentPrice:   req.RentPrice,
		Images:      req.Images,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	product, err := s.catalogSvc.UpdateProduct(c.Request.Context(), catalogdomain.UpdateProductRequest{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		RentPrice:   req.RentPrice,
		Images:      req.Images,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.catalogSvc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
