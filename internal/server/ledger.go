package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/decora/internal/ledger/domain"
)

type detailRequest struct {
	Status    string     `json:"status"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Deposit   float64    `json:"deposit"`
}

func (d *detailRequest) toDomain() *ledgerdomain.DetailRequest {
	if d == nil {
		return nil
	}
	return &ledgerdomain.DetailRequest{
		Status:    ledgerdomain.DetailStatus(d.Status),
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Deposit:   d.Deposit,
	}
}

type createTransactionRequest struct {
	Type          string                      `json:"type" binding:"required"`
	ProductID     *string                     `json:"productId"`
	ProductName   string                      `json:"productName"`
	Quantity      int                         `json:"quantity"`
	UnitPrice     float64                     `json:"unitPrice"`
	Discount      float64                     `json:"discount"`
	TotalAmount   float64                     `json:"totalAmount"`
	CustomerName  string                      `json:"customerName"`
	ClientData    *ledgerdomain.ClientContact `json:"clientData"`
	Notes         string                      `json:"notes"`
	Date          time.Time                   `json:"date"`
	Items         []ledgerdomain.LineItem     `json:"items"`
	IsInstallment bool                        `json:"isInstallment"`
	TotalPrice    float64                     `json:"totalPrice"`
	AmountPaid    float64                     `json:"amountPaid"`
	Detail        *detailRequest              `json:"detail"`
}

type updateTransactionRequest struct {
	Notes        *string        `json:"notes"`
	CustomerName *string        `json:"customerName"`
	AmountPaid   *float64       `json:"amountPaid"`
	Detail       *detailRequest `json:"detail"`
}

func (s *Server) ListTransactions(c *gin.Context) {
	filter := ledgerdomain.ListFilter{
		Type: ledgerdomain.Type(c.Query("type")),
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filter.From = &from
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filter.To = &to
	}

	transactions, err := s.ledgerSvc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func (s *Server) GetTransaction(c *gin.Context) {
	txn, err := s.ledgerSvc.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (s *Server) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	txn, err := s.ledgerSvc.CreateTransaction(c.Request.Context(), ledgerdomain.CreateTransactionRequest{
		Type:          ledgerdomain.Type(req.Type),
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Discount:      req.Discount,
		TotalAmount:   req.TotalAmount,
		CustomerName:  req.CustomerName,
		ClientData:    req.ClientData,
		Notes:         req.Notes,
		Date:          req.Date,
		Items:         req.Items,
		IsInstallment: req.IsInstallment,
		TotalPrice:    req.TotalPrice,
		AmountPaid:    req.AmountPaid,
		Detail:        req.Detail.toDomain(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

func (s *Server) UpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	txn, err := s.ledgerSvc.UpdateTransaction(c.Request.Context(), ledgerdomain.UpdateTransactionRequest{
		ID:           c.Param("id"),
		Notes:        req.Notes,
		CustomerName: req.CustomerName,
		AmountPaid:   req.AmountPaid,
		Detail:       req.Detail.toDomain(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (s *Server) DeleteTransaction(c *gin.Context) {
	if err := s.ledgerSvc.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createExpenseRequest struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Receipt     *string   `json:"receipt"`
	Notes       string    `json:"notes"`
}

func (s *Server) ListExpenses(c *gin.Context) {
	expenses, err := s.ledgerSvc.ListExpenses(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expense, err := s.ledgerSvc.CreateExpense(c.Request.Context(), ledgerdomain.CreateExpenseRequest{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		Receipt:     req.Receipt,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (s *Server) DeleteExpense(c *gin.Context) {
	if err := s.ledgerSvc.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) GetSummary(c *gin.Context) {
	from, ok := parseTimeQuery(c, "from")
	if !ok {
		AbortWithError(c, newValidationError("from", "invalid_date", "from is required, RFC 3339"))
		return
	}
	to, ok := parseTimeQuery(c, "to")
	if !ok {
		AbortWithError(c, newValidationError("to", "invalid_date", "to is required, RFC 3339"))
		return
	}

	summary, err := s.ledgerSvc.Summarize(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func parseTimeQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
