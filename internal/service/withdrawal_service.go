package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"goldmine/internal/domain"
	"goldmine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithdrawalService handles the payout request workflow: tax computation,
// the rolling cooldown, and admin approval that debits the gross amount.
type WithdrawalService struct {
	db             *pgxpool.Pool
	withdrawalRepo *repository.WithdrawalRepository
	ledger         *LedgerService
	taxRate        float64
	cooldown       time.Duration
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(db *pgxpool.Pool, ledger *LedgerService, taxRate float64, cooldown time.Duration) *WithdrawalService {
	return &WithdrawalService{
		db:             db,
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		ledger:         ledger,
		taxRate:        taxRate,
		cooldown:       cooldown,
	}
}

// MethodDetails carries the payout destination for the chosen method
type MethodDetails struct {
	BankAccount string
	BankIFSC    string
	UpiID       string
}

// Estimate returns the tax and net payout for a gross amount without
// creating a request.
func (s *WithdrawalService) Estimate(amount float64) (tax, net float64) {
	return taxBreakdown(amount, s.taxRate)
}

// Request validates and records a pending withdrawal. Balance sufficiency is
// checked here at request time and re-checked when the debit happens at
// approval, so the balance can never go negative between the two. The user
// row lock serializes concurrent requests from one user, so the cooldown
// check can't be passed twice in parallel.
func (s *WithdrawalService) Request(ctx context.Context, userID int64, amount float64, method string, details MethodDetails) (*domain.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if err := validateMethod(method, details); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var balance float64
	err = tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if balance < amount {
		return nil, ErrInsufficientFunds
	}

	// At most one open (pending or approved) withdrawal per rolling window,
	// enforced at request-creation time.
	cutoff := time.Now().Add(-s.cooldown)
	blocked, err := s.withdrawalRepo.HasRecentOpen(ctx, tx, userID, cutoff)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrRateLimited
	}

	tax, net := taxBreakdown(amount, s.taxRate)
	w := &domain.Withdrawal{
		UserID:      userID,
		Amount:      amount,
		TaxAmount:   tax,
		NetAmount:   net,
		Method:      method,
		BankAccount: details.BankAccount,
		BankIFSC:    details.BankIFSC,
		UpiID:       details.UpiID,
		Status:      domain.WithdrawalStatusPending,
	}
	if err := s.withdrawalRepo.CreateWithTx(ctx, tx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Approve debits the gross amount from the user's balance and flips the
// request to approved, atomically. The debit re-validates sufficiency, so an
// approval against a balance that dropped since request time fails with
// ErrInsufficientFunds instead of going negative.
func (s *WithdrawalService) Approve(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := s.withdrawalRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, ErrInvalidState
	}

	description := fmt.Sprintf("withdrawal approved (net %.2f after tax)", w.NetAmount)
	if _, err := s.ledger.DebitWithTx(ctx, tx, w.UserID, w.Amount, domain.TxTypeWithdrawal, description, w.ID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET total_withdrawn = total_withdrawn + $1 WHERE id = $2`,
		w.Amount, w.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.withdrawalRepo.SetStatusWithTx(ctx, tx, w.ID, domain.WithdrawalStatusApproved); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	w.Status = domain.WithdrawalStatusApproved
	return w, nil
}

// Reject flips a pending withdrawal to rejected; no balance effect
func (s *WithdrawalService) Reject(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := s.withdrawalRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, ErrInvalidState
	}

	if err := s.withdrawalRepo.SetStatusWithTx(ctx, tx, w.ID, domain.WithdrawalStatusRejected); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	w.Status = domain.WithdrawalStatusRejected
	return w, nil
}

// ListForUser returns a user's withdrawal history
func (s *WithdrawalService) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.GetByUserID(ctx, userID, limit)
}

// ListByStatus returns withdrawals in a given state for admin review
func (s *WithdrawalService) ListByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawalRepo.GetByStatus(ctx, status, limit)
}

func validateMethod(method string, details MethodDetails) error {
	switch method {
	case domain.WithdrawalMethodBank:
		if details.BankAccount == "" || details.BankIFSC == "" {
			return ErrValidation
		}
	case domain.WithdrawalMethodUPI:
		if details.UpiID == "" {
			return ErrValidation
		}
	default:
		return ErrValidation
	}
	return nil
}

// taxBreakdown computes the withheld tax and net payout for a gross amount,
// rounded to two decimal places.
func taxBreakdown(amount, rate float64) (tax, net float64) {
	tax = round2(amount * rate)
	net = round2(amount - tax)
	return tax, net
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
