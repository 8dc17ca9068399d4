package handler

import (
	"net/http"

	"customer-wallet-service/internal/adapter/http/middleware"
	"customer-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc         ports.WalletService
	PaymentMethodRepo ports.PaymentMethodRepository
	TokenSvc          ports.TokenService
	HealthCheckers    []ports.HealthChecker
	Logger            zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes, all JWT-authenticated
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc, deps.PaymentMethodRepo)

	v1 := r.Group("/api/v1")
	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.GET("", walletHandler.List)
		wallets.POST("", walletHandler.Create)
		wallets.GET("/:id", walletHandler.Get)
		wallets.POST("/:id/top-up", walletHandler.TopUp)
		wallets.POST("/:id/debit", walletHandler.Debit)
		wallets.POST("/:id/refund", walletHandler.Refund)
		wallets.GET("/:id/balance", walletHandler.GetBalance)
		wallets.GET("/:id/transactions", walletHandler.ListTransactions)
	}

	return r
}

// HealthCheck reports the health of each wired dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
