package http

import (
	"os"
	"strconv"
	"time"

	"goldmine/internal/config"
	"goldmine/internal/http/handlers"
	"goldmine/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config) *handlers.Handler {
	h := handlers.NewHandler(db, handlers.HandlerConfig{
		WithdrawalTaxRate:  cfg.WithdrawalTaxRate,
		WithdrawalCooldown: cfg.WithdrawalCooldown,
	})

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	moneyRateLimit := 10
	if v := os.Getenv("MONEY_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			moneyRateLimit = n
		}
	}
	moneyRateWindow := time.Minute
	if v := os.Getenv("MONEY_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			moneyRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", h.Health)
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)

	// Money operation rate limiter (per user, not per IP)
	moneyRL := middleware.MoneyRateLimit(moneyRateLimit, moneyRateWindow)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	{
		// Auth
		authRL := middleware.RedisRateLimit(authRateLimit, authRateWindow)
		v1.POST("/auth/register", authRL, h.Register)
		v1.POST("/auth/login", authRL, h.Login)

		// Profile and ledger history
		v1.GET("/me", middleware.JWT(), h.Me)
		v1.GET("/me/transactions", middleware.JWT(), h.MyTransactions)

		// Plans
		v1.GET("/plans", h.ListPlans)
		v1.GET("/me/plans", middleware.JWT(), h.MyPlans)
		v1.POST("/plans/:id/purchase", middleware.JWT(), moneyRL, h.PurchasePlan)

		// Wallet
		v1.GET("/wallet/balance", middleware.JWT(), h.Balance)
		v1.POST("/wallet/recharge", middleware.JWT(), moneyRL, h.RequestRecharge)
		v1.GET("/wallet/recharges", middleware.JWT(), h.MyRecharges)
		v1.POST("/wallet/withdraw/estimate", middleware.JWT(), h.EstimateWithdrawal)
		v1.POST("/wallet/withdraw", middleware.JWT(), moneyRL, h.RequestWithdrawal)
		v1.GET("/wallet/withdrawals", middleware.JWT(), h.MyWithdrawals)

		// Admin surface
		admin := v1.Group("/admin")
		admin.Use(middleware.JWT(), middleware.Admin(cfg.IsAdmin))
		{
			admin.GET("/recharges", h.AdminListRecharges)
			admin.POST("/recharges/:id/approve", h.AdminApproveRecharge)
			admin.POST("/recharges/:id/reject", h.AdminRejectRecharge)
			admin.GET("/withdrawals", h.AdminListWithdrawals)
			admin.POST("/withdrawals/:id/approve", h.AdminApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", h.AdminRejectWithdrawal)
			admin.GET("/users/:id/audit", h.AdminUserAudit)
			admin.GET("/stats", h.AdminStats)
			admin.POST("/settlement/run", h.AdminRunSettlement)
		}
	}

	// WebSocket for live wallet updates. The in-memory limiter covers this
	// path since it bypasses the /api/v1 group.
	r.GET("/ws", middleware.SimpleRateLimit(30, time.Minute), h.WalletStream)

	return h
}
