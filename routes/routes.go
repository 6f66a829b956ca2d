package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"budgetapp/handlers"
	"budgetapp/middleware"
	"budgetapp/services"
	"budgetapp/store"
	"budgetapp/utils"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
}

// SetupBudgetRoutes sets up protected budget, transaction, invitation and
// notification routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, st store.Store) {
	gate := services.NewAccessGate(st)
	notifications := services.NewNotificationService(st)
	invitations := services.NewInvitationService(st, gate, notifications, utils.SendInvitationEmail)
	budgets := services.NewBudgetService(st, gate)
	transactions := services.NewTransactionService(st, gate)

	budgetHandler := &handlers.BudgetHandler{Budgets: budgets, Transactions: transactions}
	inviteHandler := &handlers.InvitationHandler{Invitations: invitations}
	notifHandler := &handlers.NotificationHandler{Notifications: notifications}
	txHandler := &handlers.TransactionHandler{Transactions: transactions}

	// Budget routes
	rg.GET("/budgets", budgetHandler.GetBudgets)
	rg.POST("/budgets", budgetHandler.CreateBudget)
	rg.GET("/budgets/:id", budgetHandler.GetBudget)
	rg.DELETE("/budgets/:id", budgetHandler.DeleteBudget)
	rg.GET("/budgets/:id/summary", budgetHandler.GetSummary)

	// Transaction routes
	rg.GET("/budgets/:id/transactions", txHandler.GetTransactions)
	rg.POST("/budgets/:id/transactions", txHandler.CreateTransaction)
	rg.PUT("/budgets/:id/transactions/:transaction_id", txHandler.UpdateTransaction)
	rg.DELETE("/budgets/:id/transactions/:transaction_id", txHandler.DeleteTransaction)
	rg.GET("/categories", txHandler.GetCategories)

	// Invitation routes
	rg.POST("/budgets/:id/invite", inviteHandler.InviteUser)
	rg.GET("/invites/pending", inviteHandler.GetPendingInvites)
	rg.GET("/invites/sent", inviteHandler.GetSentInvites)
	rg.POST("/invites/:invite_id/respond", inviteHandler.RespondInvitation)

	// Notification routes
	rg.GET("/notifications", notifHandler.GetNotifications)
	rg.PATCH("/notifications/:notification_id/read", notifHandler.MarkRead)
	rg.PATCH("/notifications/read-all", notifHandler.MarkAllRead)
}

// SetupUserRoutes sets up protected user profile routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
}

// SetupAdminRoutes sets up admin-only user management routes.
func SetupAdminRoutes(rg *gin.RouterGroup, db *sql.DB) {
	adminHandler := &handlers.AdminHandler{DB: db}

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())

	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:user_id", adminHandler.GetUser)
	admin.PUT("/users/:user_id/role", adminHandler.UpdateRole)
	admin.DELETE("/users/:user_id", adminHandler.DeleteUser)
}
