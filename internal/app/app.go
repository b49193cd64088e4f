package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"spendtrack/internal/config"
	"spendtrack/internal/handlers"
	"spendtrack/internal/middleware"
	"spendtrack/internal/repositories"
	"spendtrack/internal/routes"
	"spendtrack/internal/services"
	"spendtrack/internal/utils"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	incomeRepo := repositories.NewIncomeRepository(db)

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	mobizonClient := utils.NewClientWithOptions(
		cfg.Mobizon.APIKey,
		cfg.Mobizon.SenderID,
		cfg.Mobizon.DryRun,
	)
	smsService := services.NewSMSService(mobizonClient)

	otpService := services.NewOTPService(otpRepo)
	authService := services.NewAuthService(accountRepo, otpService, emailService, smsService)
	accountService := services.NewAccountService(accountRepo, expenseRepo, incomeRepo, emailService)
	expenseService := services.NewExpenseService(expenseRepo)
	incomeService := services.NewIncomeService(incomeRepo)
	reportService := services.NewReportService(expenseRepo, incomeRepo)

	// === Handlers ===
	middleware.SetSecret(cfg.JWT.Secret)
	tokenTTL := time.Duration(cfg.JWT.TTLHours) * time.Hour

	authHandler := handlers.NewAuthHandler(authService, accountService, tokenTTL)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	categoryHandler := handlers.NewCategoryHandler(accountService)
	teamHandler := handlers.NewTeamHandler(accountService, expenseService)
	adminHandler := handlers.NewAdminHandler(accountService)
	reportHandler := handlers.NewReportHandler(reportService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	routes.SetupRoutes(
		router,
		accountService,
		authHandler,
		expenseHandler,
		incomeHandler,
		categoryHandler,
		teamHandler,
		adminHandler,
		reportHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
