package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/middleware"
	"budgetapp/models"
	"budgetapp/services"
)

type TransactionHandler struct {
	Transactions *services.TransactionService
}

// CreateTransaction records a transaction in a budget the caller belongs to.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Create(c.Request.Context(), budgetID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Transaction created", "transaction": transaction})
}

// GetTransactions lists a budget's transactions, newest date first.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	transactions, err := h.Transactions.List(c.Request.Context(), budgetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// UpdateTransaction rewrites a transaction. Owners may edit any row,
// contributors only their own.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")
	transactionID := c.Param("transaction_id")

	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.Transactions.Update(c.Request.Context(), budgetID, transactionID, userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated", "transaction": transaction})
}

// DeleteTransaction removes a transaction, under the same policy as update.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")
	transactionID := c.Param("transaction_id")

	if err := h.Transactions.Delete(c.Request.Context(), budgetID, transactionID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

// GetCategories lists all known categories.
func (h *TransactionHandler) GetCategories(c *gin.Context) {
	categories, err := h.Transactions.Categories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
