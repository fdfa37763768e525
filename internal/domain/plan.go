package domain

import "time"

// Plan is a catalog entry describing purchase price and payout schedule.
type Plan struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Price        float64   `db:"price" json:"price"`
	DailyIncome  float64   `db:"daily_income" json:"daily_income"`
	DurationDays int       `db:"duration_days" json:"duration_days"`
	TotalReturn  float64   `db:"total_return" json:"total_return"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserPlan statuses
type UserPlanStatus string

const (
	UserPlanStatusActive    UserPlanStatus = "active"
	UserPlanStatusExpired   UserPlanStatus = "expired"
	UserPlanStatusCancelled UserPlanStatus = "cancelled"
)

// UserPlan is a purchased instance of a plan. Plan economics are copied at
// purchase time so later catalog edits don't change active subscriptions.
// Expiry is authoritative by end_date; the status column is best-effort.
type UserPlan struct {
	ID           int64          `db:"id" json:"id"`
	OrderID      string         `db:"order_id" json:"order_id"`
	UserID       int64          `db:"user_id" json:"user_id"`
	PlanID       int64          `db:"plan_id" json:"plan_id"`
	Name         string         `db:"name" json:"name"`
	Price        float64        `db:"price" json:"price"`
	DailyIncome  float64        `db:"daily_income" json:"daily_income"`
	DurationDays int            `db:"duration_days" json:"duration_days"`
	TotalReturn  float64        `db:"total_return" json:"total_return"`
	Status       UserPlanStatus `db:"status" json:"status"`
	StartDate    time.Time      `db:"start_date" json:"start_date"`
	EndDate      time.Time      `db:"end_date" json:"end_date"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
