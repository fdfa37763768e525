package repository

import (
	"context"
	"time"

	"goldmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, amount, tax_amount, net_amount, method, bank_account, bank_ifsc, upi_id, status, created_at, updated_at`

// GetByID retrieves a withdrawal request by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// GetByIDForUpdate locks and retrieves a withdrawal inside a transaction
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Withdrawal, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
	return scanWithdrawal(row)
}

// GetByUserID retrieves withdrawal history for a user
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// GetByStatus retrieves withdrawals in a given state, oldest first
func (r *WithdrawalRepository) GetByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE status = $1
		 ORDER BY created_at ASC
		 LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// CreateWithTx inserts a new pending withdrawal request inside an existing
// transaction.
func (r *WithdrawalRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	return tx.QueryRow(ctx,
		`INSERT INTO withdrawals (user_id, amount, tax_amount, net_amount, method, bank_account, bank_ifsc, upi_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		w.UserID, w.Amount, w.TaxAmount, w.NetAmount, w.Method,
		w.BankAccount, w.BankIFSC, w.UpiID, w.Status,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

// SetStatusWithTx updates the status inside an existing transaction
func (r *WithdrawalRepository) SetStatusWithTx(ctx context.Context, tx pgx.Tx, id int64, status domain.WithdrawalStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE withdrawals SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

// HasRecentOpen checks for a pending or approved withdrawal created after the
// cutoff. Runs inside the request transaction so the check is serialized by
// the caller's user row lock.
func (r *WithdrawalRepository) HasRecentOpen(ctx context.Context, tx pgx.Tx, userID int64, cutoff time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM withdrawals
			WHERE user_id = $1 AND status IN ('pending', 'approved') AND created_at > $2
		 )`, userID, cutoff).Scan(&exists)
	return exists, err
}

// CountPending returns the number of withdrawals awaiting review
func (r *WithdrawalRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'`).Scan(&count)
	return count, err
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Amount, &w.TaxAmount, &w.NetAmount, &w.Method,
		&w.BankAccount, &w.BankIFSC, &w.UpiID, &w.Status, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Amount, &w.TaxAmount, &w.NetAmount, &w.Method,
			&w.BankAccount, &w.BankIFSC, &w.UpiID, &w.Status, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}
