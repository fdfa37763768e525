package domain

import "time"

type User struct {
	ID             int64      `db:"id" json:"id"`
	Mobile         string     `db:"mobile" json:"mobile"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Name           string     `db:"name" json:"name"`
	Balance        float64    `db:"balance" json:"balance"`
	TotalInvested  float64    `db:"total_invested" json:"total_invested"`
	TotalWithdrawn float64    `db:"total_withdrawn" json:"total_withdrawn"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt    *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}
