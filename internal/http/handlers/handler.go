package handlers

import (
	"errors"
	"net/http"
	"time"

	"goldmine/internal/idgen"
	"goldmine/internal/repository"
	"goldmine/internal/service"
	"goldmine/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds workflow settings handed down from config
type HandlerConfig struct {
	WithdrawalTaxRate  float64
	WithdrawalCooldown int // hours
}

type Handler struct {
	DB                *pgxpool.Pool
	UserRepo          *repository.UserRepository
	Ledger            *service.LedgerService
	PlanService       *service.PlanService
	RechargeService   *service.RechargeService
	WithdrawalService *service.WithdrawalService
	SettlementService *service.SettlementService
	AdminService      *service.AdminService
	AuditService      *service.AuditService
	Hub               *ws.Hub
}

// NewHandler wires the service graph once at startup; everything shares the
// same pool and ledger.
func NewHandler(db *pgxpool.Pool, cfg HandlerConfig) *Handler {
	ids := idgen.UUID{}
	ledger := service.NewLedgerService(db, ids)
	hub := ws.NewHub()
	ledger.SetNotifier(hub)

	cooldown := time.Duration(cfg.WithdrawalCooldown) * time.Hour

	return &Handler{
		DB:                db,
		UserRepo:          repository.NewUserRepository(db),
		Ledger:            ledger,
		PlanService:       service.NewPlanService(db, ledger, ids),
		RechargeService:   service.NewRechargeService(db, ledger),
		WithdrawalService: service.NewWithdrawalService(db, ledger, cfg.WithdrawalTaxRate, cooldown),
		SettlementService: service.NewSettlementService(db, ledger),
		AdminService:      service.NewAdminService(db),
		AuditService:      service.NewAuditService(db),
		Hub:               hub,
	}
}

// getUserID extracts the authenticated user's ID from the gin context
func getUserID(c interface{ Get(any) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// respondError maps workflow errors to HTTP statuses and stable kind strings
// so clients can branch without parsing messages.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient_funds"})
	case errors.Is(err, service.ErrMonthlyLimitExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "monthly_limit_exceeded"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_state"})
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_amount"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
