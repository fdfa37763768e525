package domain

import "time"

type RechargeStatus string

const (
	RechargeStatusPending  RechargeStatus = "pending"
	RechargeStatusApproved RechargeStatus = "approved"
	RechargeStatusRejected RechargeStatus = "rejected"
)

// Recharge is a user-submitted wallet top-up request. The balance is only
// credited when an admin approves it.
type Recharge struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Amount    float64        `db:"amount" json:"amount"`
	UTR       string         `db:"utr" json:"utr"`
	Method    string         `db:"method" json:"method"`
	Status    RechargeStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
