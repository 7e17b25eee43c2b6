package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
	quotationdomain "github.com/smallbiznis/decora/internal/quotation/domain"
)

type createQuotationRequest struct {
	Type         string                      `json:"type" binding:"required"`
	ProductID    *string                     `json:"productId"`
	ProductName  string                      `json:"productName"`
	Quantity     int                         `json:"quantity"`
	UnitPrice    float64                     `json:"unitPrice"`
	Discount     float64                     `json:"discount"`
	TotalAmount  float64                     `json:"totalAmount"`
	CustomerName string                      `json:"customerName"`
	ClientData   *ledgerdomain.ClientContact `json:"clientData"`
	Items        []ledgerdomain.LineItem     `json:"items"`
	Notes        string                      `json:"notes"`
	Date         time.Time                   `json:"date"`
}

type updateQuotationRequest struct {
	ProductName  *string                     `json:"productName"`
	Quantity     *int                        `json:"quantity"`
	UnitPrice    *float64                    `json:"unitPrice"`
	Discount     *float64                    `json:"discount"`
	TotalAmount  *float64                    `json:"totalAmount"`
	CustomerName *string                     `json:"customerName"`
	ClientData   *ledgerdomain.ClientContact `json:"clientData"`
	Items        []ledgerdomain.LineItem     `json:"items"`
	Notes        *string                     `json:"notes"`
}

func (s *Server) ListQuotations(c *gin.Context) {
	quotations, err := s.quotationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotations": quotations})
}

func (s *Server) GetQuotation(c *gin.Context) {
	quotation, err := s.quotationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req createQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quotation, err := s.quotationSvc.Create(c.Request.Context(), quotationdomain.CreateRequest{
		Type:         ledgerdomain.Type(req.Type),
		ProductID:    req.ProductID,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Discount:     req.Discount,
		TotalAmount:  req.TotalAmount,
		CustomerName: req.CustomerName,
		ClientData:   req.ClientData,
		Items:        req.Items,
		Notes:        req.Notes,
		Date:         req.Date,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quotation)
}

func (s *Server) UpdateQuotation(c *gin.Context) {
	var req updateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quotation, err := s.quotationSvc.Update(c.Request.Context(), quotationdomain.UpdateRequest{
		ID:           c.Param("id"),
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Discount:     req.Discount,
		TotalAmount:  req.TotalAmount,
		CustomerName: req.CustomerName,
		ClientData:   req.ClientData,
		Items:        req.Items,
		Notes:        req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotation)
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	if err := s.quotationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ConvertQuotation(c *gin.Context) {
	txn, err := s.quotationSvc.Convert(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}
