package domain

import "time"

// Transaction types
const (
	TxTypePlanPurchase = "plan_purchase"
	TxTypeRecharge     = "recharge"
	TxTypeWithdrawal   = "withdrawal"
	TxTypeDailyIncome  = "daily_income"
)

// Transaction is an immutable audit record of a single balance mutation.
// Amount is the positive magnitude; the sign is implied by the type
// (recharge/daily_income credit, plan_purchase/withdrawal debit).
type Transaction struct {
	ID            int64      `db:"id" json:"id"`
	TxnNo         string     `db:"txn_no" json:"txn_no"`
	UserID        int64      `db:"user_id" json:"user_id"`
	Type          string     `db:"type" json:"type"`
	Amount        float64    `db:"amount" json:"amount"`
	Description   string     `db:"description" json:"description"`
	BalanceBefore float64    `db:"balance_before" json:"balance_before"`
	BalanceAfter  float64    `db:"balance_after" json:"balance_after"`
	ReferenceID   int64      `db:"reference_id" json:"reference_id"`
	IncomeDate    *time.Time `db:"income_date" json:"income_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Signed returns the amount with the sign implied by the transaction type.
func (t *Transaction) Signed() float64 {
	switch t.Type {
	case TxTypePlanPurchase, TxTypeWithdrawal:
		return -t.Amount
	default:
		return t.Amount
	}
}
