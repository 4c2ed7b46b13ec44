package router

import (
	"time"

	"cashly/api"
	"cashly/config"
	_ "cashly/docs"
	"cashly/middleware"
	"cashly/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter wires the HTTP surface.
func SetupRouter(cfg *config.Config, notifier *service.Notifier) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	r.Use(CORSMiddleware())

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	authHandler := api.NewAuthHandler(cfg, notifier)
	settingsHandler := api.NewSettingsHandler()
	accountHandler := api.NewAccountHandler()
	categoryHandler := api.NewCategoryHandler()
	transactionHandler := api.NewTransactionHandler(notifier)
	goalHandler := api.NewGoalHandler(notifier)
	dashboardHandler := api.NewDashboardHandler()
	recurringHandler := api.NewRecurringBillHandler(notifier)
	creditCardHandler := api.NewCreditCardHandler()
	notificationHandler := api.NewNotificationHandler(notifier)
	exportHandler := api.NewExportHandler()
	billingHandler := api.NewBillingHandler(service.NewBillingClient(&cfg.Billing))
	pluggyHandler := api.NewPluggyHandler(service.NewPluggyClient(&cfg.Pluggy))
	adviceHandler := api.NewAdviceHandler(service.NewAdviceClient(&cfg.Advice))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)
			auth.POST("/oauth/login", authHandler.OAuthLogin)
			auth.POST("/password/request-reset", authHandler.RequestPasswordReset)
			auth.POST("/password/verify-code", authHandler.VerifyResetCode)
			auth.POST("/password/reset", authHandler.ResetPassword)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			authorized.GET("/settings", settingsHandler.Get)
			authorized.PUT("/settings", settingsHandler.Update)

			accounts := authorized.Group("/accounts")
			{
				accounts.POST("", accountHandler.Create)
				accounts.GET("", accountHandler.List)
				accounts.GET("/:id", accountHandler.Get)
				accounts.PUT("/:id", accountHandler.Update)
				accounts.DELETE("/:id", accountHandler.Delete)
			}

			categories := authorized.Group("/categories")
			{
				categories.POST("", categoryHandler.Create)
				categories.GET("", categoryHandler.List)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
			}

			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			goals := authorized.Group("/goals")
			{
				goals.POST("", goalHandler.Create)
				goals.GET("", goalHandler.List)
				goals.PUT("/:id", goalHandler.Update)
				goals.POST("/:id/contribute", goalHandler.Contribute)
				goals.DELETE("/:id", goalHandler.Delete)
			}

			authorized.GET("/dashboard", dashboardHandler.Summary)
			authorized.GET("/dashboard/upcoming", dashboardHandler.UpcomingBills)

			bills := authorized.Group("/recurring-bills")
			{
				bills.POST("", recurringHandler.Create)
				bills.GET("", recurringHandler.List)
				bills.PUT("/:id", recurringHandler.Update)
				bills.POST("/:id/advance", recurringHandler.Advance)
				bills.DELETE("/:id", recurringHandler.Delete)
			}

			cards := authorized.Group("/credit-cards")
			{
				cards.GET("/payments", creditCardHandler.ListPayments)
				cards.POST("/payments/:id/pay", creditCardHandler.MarkPaid)
			}

			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
				notifications.POST("/email", notificationHandler.SendEmail)
			}

			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.CSV)
				export.GET("/xlsx", exportHandler.XLSX)
			}

			billing := authorized.Group("/billing")
			{
				billing.POST("/confirm", billingHandler.Confirm)
				billing.POST("/cancel", billingHandler.Cancel)
			}

			authorized.POST("/pluggy/connect-token", pluggyHandler.ConnectToken)

			authorized.POST("/advice", adviceHandler.Generate)
			authorized.GET("/advice/history", adviceHandler.History)
		}
	}

	return r
}

// CORSMiddleware allows cross-origin requests from web clients.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
