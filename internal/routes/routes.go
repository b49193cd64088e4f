package routes

import (
	"github.com/gin-gonic/gin"

	"spendtrack/internal/authz"
	"spendtrack/internal/handlers"
	"spendtrack/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	accounts middleware.AccountGetter,
	authHandler *handlers.AuthHandler,
	expenseHandler *handlers.ExpenseHandler,
	incomeHandler *handlers.IncomeHandler,
	categoryHandler *handlers.CategoryHandler,
	teamHandler *handlers.TeamHandler,
	adminHandler *handlers.AdminHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/register-request", authHandler.RegisterRequest)
		auth.POST("/resend-otp", authHandler.ResendOTP)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/login", authHandler.Login)
		auth.POST("/request-reset", authHandler.RequestReset)
		auth.POST("/confirm-reset", authHandler.ConfirmReset)
	}

	// ---- protected
	protected := r.Group("/", middleware.AuthMiddleware())

	protected.GET("/auth/verify", authHandler.VerifyToken)
	protected.POST("/auth/change-password", authHandler.ChangePassword)

	expenses := protected.Group("/expenses")
	{
		expenses.POST("/", middleware.RequirePermission(accounts, authz.PermAdd), expenseHandler.Create)
		expenses.GET("/", expenseHandler.List)
		expenses.GET("/:id", expenseHandler.GetByID)
		expenses.PUT("/:id", middleware.RequirePermission(accounts, authz.PermEdit), expenseHandler.Update)
		expenses.DELETE("/:id", middleware.RequirePermission(accounts, authz.PermDelete), expenseHandler.Delete)
	}

	incomes := protected.Group("/incomes")
	{
		incomes.POST("/", middleware.RequirePermission(accounts, authz.PermAdd), incomeHandler.Create)
		incomes.GET("/", incomeHandler.List)
		incomes.GET("/:id", incomeHandler.GetByID)
		incomes.PUT("/:id", middleware.RequirePermission(accounts, authz.PermEdit), incomeHandler.Update)
		incomes.DELETE("/:id", middleware.RequirePermission(accounts, authz.PermDelete), incomeHandler.Delete)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("/", categoryHandler.List)
		categories.POST("/", categoryHandler.Add)
		categories.DELETE("/", categoryHandler.Remove)
	}

	team := protected.Group("/team", middleware.RequireRoles(authz.RoleManager, authz.RoleAdmin))
	{
		team.POST("/members", middleware.RequirePermission(accounts, authz.PermManageUsers), teamHandler.AddMember)
		team.GET("/members", middleware.RequirePermission(accounts, authz.PermViewTeam), teamHandler.ListMembers)
		team.GET("/members/:id/expenses", middleware.RequirePermission(accounts, authz.PermViewTeam), teamHandler.MemberExpenses)
		team.PUT("/members/:id/permissions", middleware.RequirePermission(accounts, authz.PermManageUsers), teamHandler.UpdateMemberPermissions)
		team.DELETE("/members/:id", middleware.RequirePermission(accounts, authz.PermManageUsers), teamHandler.DeleteMember)
	}

	admin := protected.Group("/admin", middleware.RequireRoles(authz.RoleAdmin))
	{
		admin.GET("/accounts", adminHandler.ListAccounts)
		admin.PUT("/accounts/:id/role", adminHandler.UpdateRole)
		admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
	}

	reports := protected.Group("/reports", middleware.RequirePermission(accounts, authz.PermAccessReports))
	{
		reports.GET("/summary", reportHandler.GetSummary)
	}

	return r
}
