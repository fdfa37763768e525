package service

import (
	"context"
	"fmt"

	"goldmine/internal/domain"
	"goldmine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RechargeService handles the wallet top-up approval workflow. A recharge
// has no balance effect until an admin approves it.
type RechargeService struct {
	db           *pgxpool.Pool
	rechargeRepo *repository.RechargeRepository
	ledger       *LedgerService
}

// NewRechargeService creates a new recharge service
func NewRechargeService(db *pgxpool.Pool, ledger *LedgerService) *RechargeService {
	return &RechargeService{
		db:           db,
		rechargeRepo: repository.NewRechargeRepository(db),
		ledger:       ledger,
	}
}

// Request records a pending top-up request
func (s *RechargeService) Request(ctx context.Context, userID int64, amount float64, utr, method string) (*domain.Recharge, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	rc := &domain.Recharge{
		UserID: userID,
		Amount: amount,
		UTR:    utr,
		Method: method,
		Status: domain.RechargeStatusPending,
	}
	if err := s.rechargeRepo.Create(ctx, rc); err != nil {
		return nil, err
	}
	return rc, nil
}

// Approve credits the user's balance by the recharge amount and flips the
// request to approved. Credit and status change commit atomically.
func (s *RechargeService) Approve(ctx context.Context, id int64) (*domain.Recharge, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rc, err := s.rechargeRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, ErrNotFound
	}
	if rc.Status != domain.RechargeStatusPending {
		return nil, ErrInvalidState
	}

	description := fmt.Sprintf("recharge approved (utr %s)", rc.UTR)
	if _, err := s.ledger.CreditWithTx(ctx, tx, rc.UserID, rc.Amount, domain.TxTypeRecharge, description, rc.ID); err != nil {
		return nil, err
	}

	if err := s.rechargeRepo.SetStatusWithTx(ctx, tx, rc.ID, domain.RechargeStatusApproved); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	rc.Status = domain.RechargeStatusApproved
	return rc, nil
}

// Reject flips a pending recharge to rejected; no balance effect
func (s *RechargeService) Reject(ctx context.Context, id int64) (*domain.Recharge, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rc, err := s.rechargeRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, ErrNotFound
	}
	if rc.Status != domain.RechargeStatusPending {
		return nil, ErrInvalidState
	}

	if err := s.rechargeRepo.SetStatusWithTx(ctx, tx, rc.ID, domain.RechargeStatusRejected); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	rc.Status = domain.RechargeStatusRejected
	return rc, nil
}

// ListForUser returns a user's recharge history
func (s *RechargeService) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.Recharge, error) {
	return s.rechargeRepo.GetByUserID(ctx, userID, limit)
}

// ListByStatus returns recharges in a given state for admin review
func (s *RechargeService) ListByStatus(ctx context.Context, status domain.RechargeStatus, limit int) ([]domain.Recharge, error) {
	return s.rechargeRepo.GetByStatus(ctx, status, limit)
}
