package service

import (
	"context"
	"time"

	"goldmine/internal/domain"
	"goldmine/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminService provides platform statistics for the admin surface
type AdminService struct {
	db              *pgxpool.Pool
	userPlanRepo    *repository.UserPlanRepository
	rechargeRepo    *repository.RechargeRepository
	withdrawalRepo  *repository.WithdrawalRepository
	transactionRepo *repository.TransactionRepository
}

// NewAdminService creates a new admin service
func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{
		db:              db,
		userPlanRepo:    repository.NewUserPlanRepository(db),
		rechargeRepo:    repository.NewRechargeRepository(db),
		withdrawalRepo:  repository.NewWithdrawalRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// Stats represents platform statistics
type Stats struct {
	TotalUsers         int64   `json:"total_users"`
	TotalBalance       float64 `json:"total_balance"`
	ActivePlans        int64   `json:"active_plans"`
	PendingRecharges   int64   `json:"pending_recharges"`
	PendingWithdrawals int64   `json:"pending_withdrawals"`
	TotalInvested      float64 `json:"total_invested"`
	TotalWithdrawn     float64 `json:"total_withdrawn"`
	IncomePaidToday    float64 `json:"income_paid_today"`
	RechargedToday     float64 `json:"recharged_today"`
}

// GetStats returns platform statistics. Individual scans are best-effort; a
// failed counter reads as zero rather than failing the whole dashboard.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers)

	// Wallet cash in circulation
	_ = s.db.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM users`).Scan(&stats.TotalBalance)

	_ = s.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_invested), 0) FROM users`).Scan(&stats.TotalInvested)

	_ = s.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_withdrawn), 0) FROM users`).Scan(&stats.TotalWithdrawn)

	stats.ActivePlans, _ = s.userPlanRepo.CountActive(ctx, now)
	stats.PendingRecharges, _ = s.rechargeRepo.CountPending(ctx)
	stats.PendingWithdrawals, _ = s.withdrawalRepo.CountPending(ctx)
	stats.IncomePaidToday, _ = s.transactionRepo.SumByTypeSince(ctx, domain.TxTypeDailyIncome, today)
	stats.RechargedToday, _ = s.transactionRepo.SumByTypeSince(ctx, domain.TxTypeRecharge, today)

	return stats, nil
}
