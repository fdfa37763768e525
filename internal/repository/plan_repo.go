package repository

import (
	"context"

	"goldmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, name, price, daily_income, duration_days, total_return, is_active, created_at`

// GetByID retrieves a catalog plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*domain.Plan, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1`, id)

	var p domain.Plan
	if err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.DailyIncome, &p.DurationDays,
		&p.TotalReturn, &p.IsActive, &p.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetActive retrieves all purchasable plans ordered by price
func (r *PlanRepository) GetActive(ctx context.Context) ([]domain.Plan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+planColumns+` FROM plans WHERE is_active ORDER BY price ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.DailyIncome, &p.DurationDays,
			&p.TotalReturn, &p.IsActive, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Create inserts a new catalog plan
func (r *PlanRepository) Create(ctx context.Context, p *domain.Plan) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO plans (name, price, daily_income, duration_days, total_return, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.Name, p.Price, p.DailyIncome, p.DurationDays, p.TotalReturn, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
}

// SetActive flips plan purchasability
func (r *PlanRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE plans SET is_active = $2 WHERE id = $1`, id, active)
	return err
}
