package service

import (
	"context"
	"errors"
	"time"

	"goldmine/internal/domain"
	"goldmine/internal/idgen"
	"goldmine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the postgres error code for unique constraint conflicts
const uniqueViolation = "23505"

// BalanceNotifier receives balance-change events after a ledger operation
// commits. Used to push live wallet updates over websocket.
type BalanceNotifier interface {
	NotifyBalance(userID int64, balance float64, txType string, amount float64)
}

// LedgerService owns every balance mutation. All workflows (purchases,
// recharges, withdrawals, daily income) move money through these primitives;
// nothing else writes users.balance or inserts transaction rows. The balance
// update and its ledger entry always commit in the same database transaction,
// so a credited or debited balance is never observable without its audit row.
type LedgerService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
	ids             idgen.Generator
	notifier        BalanceNotifier
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *pgxpool.Pool, ids idgen.Generator) *LedgerService {
	return &LedgerService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
		ids:             ids,
	}
}

// SetNotifier attaches a balance-change listener
func (s *LedgerService) SetNotifier(n BalanceNotifier) {
	s.notifier = n
}

// GetBalance returns the user's current balance
func (s *LedgerService) GetBalance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := s.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Credit adds amount to the user's balance in its own transaction
func (s *LedgerService) Credit(ctx context.Context, userID int64, amount float64, txType, description string, referenceID int64) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entry, err := s.CreditWithTx(ctx, tx, userID, amount, txType, description, referenceID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notify(entry)
	return entry, nil
}

// Debit removes amount from the user's balance in its own transaction
func (s *LedgerService) Debit(ctx context.Context, userID int64, amount float64, txType, description string, referenceID int64) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entry, err := s.DebitWithTx(ctx, tx, userID, amount, txType, description, referenceID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notify(entry)
	return entry, nil
}

// CreditWithTx adds amount within an existing transaction and records the
// ledger entry with before/after balance snapshots.
func (s *LedgerService) CreditWithTx(ctx context.Context, tx pgx.Tx, userID int64, amount float64, txType, description string, referenceID int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	before, err := s.lockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	var after float64
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		amount, userID,
	).Scan(&after)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, tx, userID, txType, amount, description, before, after, referenceID, nil)
}

// DebitWithTx removes amount within an existing transaction. Fails with
// ErrInsufficientFunds when the locked balance cannot cover the amount.
func (s *LedgerService) DebitWithTx(ctx context.Context, tx pgx.Tx, userID int64, amount float64, txType, description string, referenceID int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	before, err := s.lockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if before < amount {
		return nil, ErrInsufficientFunds
	}

	var after float64
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance - $1 WHERE id = $2 AND balance >= $1 RETURNING balance`,
		amount, userID,
	).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	return s.record(ctx, tx, userID, txType, amount, description, before, after, referenceID, nil)
}

// CreditDailyIncome credits one day of plan income at most once per day.
// The ledger entry carries income_date, covered by a partial unique index on
// (reference_id, income_date); a conflict means the day is already paid and
// rolls the credit back, which keeps the job re-entrant and safe under
// concurrent runs. Returns false when the plan was already paid for the day.
func (s *LedgerService) CreditDailyIncome(ctx context.Context, userID int64, amount float64, planID int64, day time.Time) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	before, err := s.lockBalance(ctx, tx, userID)
	if err != nil {
		return false, err
	}

	var after float64
	err = tx.QueryRow(ctx,
		`UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		amount, userID,
	).Scan(&after)
	if err != nil {
		return false, err
	}

	incomeDate := incomeDay(day)
	entry, err := s.record(ctx, tx, userID, domain.TxTypeDailyIncome, amount,
		"daily plan income", before, after, planID, &incomeDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// already paid today; rollback discards the credit
			return false, nil
		}
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	s.notify(entry)
	return true, nil
}

// incomeDay returns midnight of t's calendar day in t's location. The day
// identity must follow the server-local calendar like the scheduler gate and
// the monthly purchase window do; truncating against the UTC epoch would put
// the boundary mid-day and let two same-day runs pay twice.
func incomeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// lockBalance reads the user's balance under a row lock
func (s *LedgerService) lockBalance(ctx context.Context, tx pgx.Tx, userID int64) (float64, error) {
	var balance float64
	err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (s *LedgerService) record(ctx context.Context, tx pgx.Tx, userID int64, txType string, amount float64, description string, before, after float64, referenceID int64, incomeDate *time.Time) (*domain.Transaction, error) {
	entry := &domain.Transaction{
		TxnNo:         s.ids.New(),
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		Description:   description,
		BalanceBefore: before,
		BalanceAfter:  after,
		ReferenceID:   referenceID,
		IncomeDate:    incomeDate,
	}
	if err := s.transactionRepo.CreateWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *LedgerService) notify(entry *domain.Transaction) {
	if s.notifier != nil && entry != nil {
		s.notifier.NotifyBalance(entry.UserID, entry.BalanceAfter, entry.Type, entry.Amount)
	}
}

// GetHistory returns the user's ledger history, optionally filtered by type
func (s *LedgerService) GetHistory(ctx context.Context, userID int64, txType string, limit int) ([]*domain.Transaction, error) {
	if txType != "" {
		return s.transactionRepo.GetByUserIDAndType(ctx, userID, txType, limit)
	}
	return s.transactionRepo.GetByUserID(ctx, userID, limit)
}
