package repository

import (
	"context"

	"goldmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RechargeRepository struct {
	db *pgxpool.Pool
}

func NewRechargeRepository(db *pgxpool.Pool) *RechargeRepository {
	return &RechargeRepository{db: db}
}

const rechargeColumns = `id, user_id, amount, utr, method, status, created_at, updated_at`

// GetByID retrieves a recharge request by ID
func (r *RechargeRepository) GetByID(ctx context.Context, id int64) (*domain.Recharge, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+rechargeColumns+` FROM recharges WHERE id = $1`, id)
	return scanRecharge(row)
}

// GetByIDForUpdate locks and retrieves a recharge inside a transaction
func (r *RechargeRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Recharge, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+rechargeColumns+` FROM recharges WHERE id = $1 FOR UPDATE`, id)
	return scanRecharge(row)
}

// GetByUserID retrieves recharge history for a user
func (r *RechargeRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Recharge, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+rechargeColumns+` FROM recharges
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecharges(rows)
}

// GetByStatus retrieves recharges in a given state, oldest first
func (r *RechargeRepository) GetByStatus(ctx context.Context, status domain.RechargeStatus, limit int) ([]domain.Recharge, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+rechargeColumns+` FROM recharges
		 WHERE status = $1
		 ORDER BY created_at ASC
		 LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecharges(rows)
}

// Create creates a new pending recharge request
func (r *RechargeRepository) Create(ctx context.Context, rc *domain.Recharge) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO recharges (user_id, amount, utr, method, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		rc.UserID, rc.Amount, rc.UTR, rc.Method, rc.Status,
	).Scan(&rc.ID, &rc.CreatedAt, &rc.UpdatedAt)
}

// SetStatusWithTx updates the status inside an existing transaction
func (r *RechargeRepository) SetStatusWithTx(ctx context.Context, tx pgx.Tx, id int64, status domain.RechargeStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE recharges SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

// CountPending returns the number of recharges awaiting review
func (r *RechargeRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM recharges WHERE status = 'pending'`).Scan(&count)
	return count, err
}

func scanRecharge(row pgx.Row) (*domain.Recharge, error) {
	var rc domain.Recharge
	if err := row.Scan(
		&rc.ID, &rc.UserID, &rc.Amount, &rc.UTR, &rc.Method,
		&rc.Status, &rc.CreatedAt, &rc.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}

func scanRecharges(rows pgx.Rows) ([]domain.Recharge, error) {
	var recharges []domain.Recharge
	for rows.Next() {
		var rc domain.Recharge
		if err := rows.Scan(
			&rc.ID, &rc.UserID, &rc.Amount, &rc.UTR, &rc.Method,
			&rc.Status, &rc.CreatedAt, &rc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		recharges = append(recharges, rc)
	}
	return recharges, rows.Err()
}
