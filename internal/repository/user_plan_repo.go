package repository

import (
	"context"
	"time"

	"goldmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserPlanRepository struct {
	db *pgxpool.Pool
}

func NewUserPlanRepository(db *pgxpool.Pool) *UserPlanRepository {
	return &UserPlanRepository{db: db}
}

const userPlanColumns = `id, order_id, user_id, plan_id, name, price, daily_income, duration_days, total_return, status, start_date, end_date, created_at`

// GetByID retrieves a subscription by ID
func (r *UserPlanRepository) GetByID(ctx context.Context, id int64) (*domain.UserPlan, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userPlanColumns+` FROM user_plans WHERE id = $1`, id)
	return scanUserPlan(row)
}

// GetByUserID retrieves all subscriptions for a user, newest first
func (r *UserPlanRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.UserPlan, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+userPlanColumns+` FROM user_plans
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserPlans(rows)
}

// CreateWithTx inserts a subscription inside an existing transaction
func (r *UserPlanRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, up *domain.UserPlan) error {
	return tx.QueryRow(ctx,
		`INSERT INTO user_plans (order_id, user_id, plan_id, name, price, daily_income, duration_days, total_return, status, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		up.OrderID, up.UserID, up.PlanID, up.Name, up.Price, up.DailyIncome,
		up.DurationDays, up.TotalReturn, up.Status, up.StartDate, up.EndDate,
	).Scan(&up.ID, &up.CreatedAt)
}

// CountCreatedSince counts subscriptions a user created at or after the given
// time, regardless of their current status. Used for the one-purchase-per-
// calendar-month rule: a purchase event counts even if the plan expired later.
func (r *UserPlanRepository) CountCreatedSince(ctx context.Context, tx pgx.Tx, userID int64, since time.Time) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_plans WHERE user_id = $1 AND created_at >= $2`,
		userID, since).Scan(&count)
	return count, err
}

// GetPayable retrieves subscriptions still owed income today: marked active
// and not past their end date.
func (r *UserPlanRepository) GetPayable(ctx context.Context, now time.Time) ([]domain.UserPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userPlanColumns+` FROM user_plans
		 WHERE status = 'active' AND end_date >= $1
		 ORDER BY id ASC`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserPlans(rows)
}

// ExpireOverdue flips date-expired subscriptions still marked active. The date
// check gates payment either way; this keeps the status column honest.
func (r *UserPlanRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_plans SET status = 'expired' WHERE status = 'active' AND end_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountActive returns the number of subscriptions currently earning income
func (r *UserPlanRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_plans WHERE status = 'active' AND end_date >= $1`, now).Scan(&count)
	return count, err
}

func scanUserPlan(row pgx.Row) (*domain.UserPlan, error) {
	var up domain.UserPlan
	if err := row.Scan(
		&up.ID, &up.OrderID, &up.UserID, &up.PlanID, &up.Name, &up.Price,
		&up.DailyIncome, &up.DurationDays, &up.TotalReturn, &up.Status,
		&up.StartDate, &up.EndDate, &up.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &up, nil
}

func scanUserPlans(rows pgx.Rows) ([]domain.UserPlan, error) {
	var plans []domain.UserPlan
	for rows.Next() {
		var up domain.UserPlan
		if err := rows.Scan(
			&up.ID, &up.OrderID, &up.UserID, &up.PlanID, &up.Name, &up.Price,
			&up.DailyIncome, &up.DurationDays, &up.TotalReturn, &up.Status,
			&up.StartDate, &up.EndDate, &up.CreatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, up)
	}
	return plans, rows.Err()
}
