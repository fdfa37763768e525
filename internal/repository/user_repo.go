package repository

import (
	"context"
	"time"

	"goldmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, mobile, password_hash, COALESCE(name, ''), balance, total_invested, total_withdrawn, created_at, last_login_at`

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByMobile retrieves a user by mobile number
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile)
	return scanUser(row)
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (mobile, password_hash, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Mobile, u.PasswordHash, u.Name,
	).Scan(&u.ID, &u.CreatedAt)
}

// MobileExists checks if a mobile number is already registered
func (r *UserRepository) MobileExists(ctx context.Context, mobile string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE mobile = $1)`, mobile).Scan(&exists)
	return exists, err
}

// TouchLastLogin records a successful login
func (r *UserRepository) TouchLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login_at = $2 WHERE id = $1`, userID, time.Now())
	return err
}

// GetBalance returns the user's current spendable balance
func (r *UserRepository) GetBalance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := r.db.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&balance)
	return balance, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var lastLogin *time.Time

	if err := row.Scan(
		&u.ID, &u.Mobile, &u.PasswordHash, &u.Name, &u.Balance,
		&u.TotalInvested, &u.TotalWithdrawn, &u.CreatedAt, &lastLogin,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	u.LastLoginAt = lastLogin
	return &u, nil
}
