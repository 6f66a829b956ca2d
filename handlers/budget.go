package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/middleware"
	"budgetapp/models"
	"budgetapp/services"
)

type BudgetHandler struct {
	Budgets      *services.BudgetService
	Transactions *services.TransactionService
}

// CreateBudget creates a budget owned by the caller.
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.Budgets.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Budget created", "budget": budget})
}

// GetBudgets returns every budget the caller belongs to.
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID := middleware.GetUserID(c)

	budgets, err := h.Budgets.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget returns one budget with its member list.
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	budget, err := h.Budgets.Get(c.Request.Context(), budgetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget deletes a budget. Owner only.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	if err := h.Budgets.Delete(c.Request.Context(), budgetID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetSummary returns the signed income/expense aggregation for a budget.
func (h *BudgetHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	budgetID := c.Param("id")

	summary, err := h.Transactions.Summary(c.Request.Context(), budgetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
