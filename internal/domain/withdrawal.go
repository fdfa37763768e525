package domain

import "time"

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// Withdrawal methods
const (
	WithdrawalMethodBank = "bank"
	WithdrawalMethodUPI  = "upi"
)

// Withdrawal is a payout request. Amount is the gross amount debited from the
// balance on approval; NetAmount is what gets paid out after tax withholding.
type Withdrawal struct {
	ID          int64            `db:"id" json:"id"`
	UserID      int64            `db:"user_id" json:"user_id"`
	Amount      float64          `db:"amount" json:"amount"`
	TaxAmount   float64          `db:"tax_amount" json:"tax_amount"`
	NetAmount   float64          `db:"net_amount" json:"net_amount"`
	Method      string           `db:"method" json:"method"`
	BankAccount string           `db:"bank_account" json:"bank_account,omitempty"`
	BankIFSC    string           `db:"bank_ifsc" json:"bank_ifsc,omitempty"`
	UpiID       string           `db:"upi_id" json:"upi_id,omitempty"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
