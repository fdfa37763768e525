package repository

import (
	"context"
	"time"

	"goldmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, txn_no, user_id, type, amount, description, balance_before, balance_after, reference_id, income_date, created_at`

// CreateWithTx inserts a ledger entry using an existing database transaction.
// Ledger entries are append-only; there is no update path.
func (r *TransactionRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction) error {
	return dbTx.QueryRow(ctx,
		`INSERT INTO transactions (txn_no, user_id, type, amount, description, balance_before, balance_after, reference_id, income_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		t.TxnNo, t.UserID, t.Type, t.Amount, t.Description,
		t.BalanceBefore, t.BalanceAfter, t.ReferenceID, t.IncomeDate,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByUserID returns recent ledger entries for a user
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// GetByUserIDAndType returns ledger entries filtered by type
func (r *TransactionRepository) GetByUserIDAndType(ctx context.Context, userID int64, txType string, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE user_id = $1 AND type = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID, txType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// SumByTypeSince returns the total amount moved for a type since the given time
func (r *TransactionRepository) SumByTypeSince(ctx context.Context, txType string, since time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = $1 AND created_at >= $2`,
		txType, since).Scan(&total)
	return total, err
}

func (r *TransactionRepository) scanRows(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction
		var incomeDate *time.Time

		if err := rows.Scan(
			&t.ID, &t.TxnNo, &t.UserID, &t.Type, &t.Amount, &t.Description,
			&t.BalanceBefore, &t.BalanceAfter, &t.ReferenceID, &incomeDate, &t.CreatedAt,
		); err != nil {
			return nil, err
		}

		t.IncomeDate = incomeDate
		result = append(result, &t)
	}

	return result, rows.Err()
}
