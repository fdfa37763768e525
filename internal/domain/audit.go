package domain

import "time"

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth       = "auth"
	AuditCategoryWallet     = "wallet"
	AuditCategoryPlan       = "plan"
	AuditCategoryAdmin      = "admin"
	AuditCategorySettlement = "settlement"
)

// Audit actions
const (
	AuditActionRegister = "register"
	AuditActionLogin    = "login"

	AuditActionRechargeRequest = "recharge_request"
	AuditActionRechargeApprove = "recharge_approve"
	AuditActionRechargeReject  = "recharge_reject"

	AuditActionWithdrawRequest = "withdraw_request"
	AuditActionWithdrawApprove = "withdraw_approve"
	AuditActionWithdrawReject  = "withdraw_reject"

	AuditActionPlanPurchase = "plan_purchase"

	AuditActionSettlementRun = "settlement_run"
)
