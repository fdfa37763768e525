package service

import (
	"context"
	"time"

	"goldmine/internal/logger"
	"goldmine/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettlementService credits daily income to every still-active, non-expired
// subscription, at most once per plan per calendar day. A run is re-entrant:
// interrupting it and starting over never double-pays, because the per-day
// ledger uniqueness is enforced by the database, not by this loop.
type SettlementService struct {
	db           *pgxpool.Pool
	userPlanRepo *repository.UserPlanRepository
	ledger       *LedgerService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(db *pgxpool.Pool, ledger *LedgerService) *SettlementService {
	return &SettlementService{
		db:           db,
		userPlanRepo: repository.NewUserPlanRepository(db),
		ledger:       ledger,
	}
}

// Report summarizes a settlement run
type Report struct {
	Candidates     int   `json:"candidates"`
	Credited       int   `json:"credited"`
	AlreadyPaid    int   `json:"already_paid"`
	SkippedExpired int   `json:"skipped_expired"`
	Failed         int   `json:"failed"`
	Expired        int64 `json:"expired_flipped"`
}

// Run processes one settlement pass. Individual plan failures are logged and
// skipped; one plan's failure never blocks another's payment, and the run
// always continues to completion.
func (s *SettlementService) Run(ctx context.Context) (Report, error) {
	now := time.Now()
	var report Report

	// Best-effort status flip for overdue subscriptions. Payment is gated by
	// the date check below either way.
	expired, err := s.userPlanRepo.ExpireOverdue(ctx, now)
	if err != nil {
		logger.Warn("settlement: expire pass failed", "error", err)
	}
	report.Expired = expired

	plans, err := s.userPlanRepo.GetPayable(ctx, now)
	if err != nil {
		return report, err
	}
	report.Candidates = len(plans)

	for _, plan := range plans {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if now.After(plan.EndDate) {
			report.SkippedExpired++
			continue
		}

		paid, err := s.ledger.CreditDailyIncome(ctx, plan.UserID, plan.DailyIncome, plan.ID, now)
		if err != nil {
			report.Failed++
			logger.Error("settlement: credit failed",
				"user_plan_id", plan.ID, "user_id", plan.UserID, "error", err)
			continue
		}
		if !paid {
			report.AlreadyPaid++
			continue
		}
		report.Credited++
	}

	logger.Info("settlement run complete",
		"candidates", report.Candidates,
		"credited", report.Credited,
		"already_paid", report.AlreadyPaid,
		"failed", report.Failed,
		"expired_flipped", report.Expired)

	return report, nil
}
