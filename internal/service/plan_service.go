package service

import (
	"context"
	"fmt"
	"time"

	"goldmine/internal/domain"
	"goldmine/internal/idgen"
	"goldmine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanService handles the plan purchase transaction and subscription reads
type PlanService struct {
	db           *pgxpool.Pool
	planRepo     *repository.PlanRepository
	userPlanRepo *repository.UserPlanRepository
	ledger       *LedgerService
	ids          idgen.Generator
}

// NewPlanService creates a new plan service
func NewPlanService(db *pgxpool.Pool, ledger *LedgerService, ids idgen.Generator) *PlanService {
	return &PlanService{
		db:           db,
		planRepo:     repository.NewPlanRepository(db),
		userPlanRepo: repository.NewUserPlanRepository(db),
		ledger:       ledger,
		ids:          ids,
	}
}

// ListActive returns the purchasable catalog
func (s *PlanService) ListActive(ctx context.Context) ([]domain.Plan, error) {
	return s.planRepo.GetActive(ctx)
}

// ListForUser returns a user's subscriptions
func (s *PlanService) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.UserPlan, error) {
	return s.userPlanRepo.GetByUserID(ctx, userID, limit)
}

// Purchase buys a catalog plan for the user: debits the price and creates the
// subscription with plan economics snapshotted, all in one transaction.
// Preconditions in order, first failure wins: plan exists and is active,
// balance covers the price, no prior purchase this calendar month.
func (s *PlanService) Purchase(ctx context.Context, userID, planID int64) (*domain.UserPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	if !plan.IsActive {
		return nil, ErrInvalidState
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the user row first so the affordability and monthly-limit checks
	// can't race a concurrent purchase by the same user.
	var balance float64
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if balance < plan.Price {
		return nil, ErrInsufficientFunds
	}

	// One purchase event per calendar month, counted by creation time so a
	// subscription expiring mid-month doesn't free up a second purchase.
	count, err := s.userPlanRepo.CountCreatedSince(ctx, tx, userID, monthStart(time.Now()))
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrMonthlyLimitExceeded
	}

	now := time.Now()
	sub := &domain.UserPlan{
		OrderID:      s.ids.New(),
		UserID:       userID,
		PlanID:       plan.ID,
		Name:         plan.Name,
		Price:        plan.Price,
		DailyIncome:  plan.DailyIncome,
		DurationDays: plan.DurationDays,
		TotalReturn:  plan.TotalReturn,
		Status:       domain.UserPlanStatusActive,
		StartDate:    now,
		EndDate:      now.AddDate(0, 0, plan.DurationDays),
	}
	if err := s.userPlanRepo.CreateWithTx(ctx, tx, sub); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("purchase of plan %q", plan.Name)
	if _, err := s.ledger.DebitWithTx(ctx, tx, userID, plan.Price, domain.TxTypePlanPurchase, description, sub.ID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET total_invested = total_invested + $1 WHERE id = $2`,
		plan.Price, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return sub, nil
}

// monthStart returns midnight on the first day of t's calendar month in
// server-local time.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
