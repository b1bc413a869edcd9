package repository

import (
	"context"
	"fmt"

	"credmarket/database"
	"credmarket/models"
	"credmarket/service"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByUserID retrieves an account by user ID, nil if absent
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}

	return &account, nil
}

// Create creates a new account with the starting balance. A unique
// violation maps to ErrAccountConflict so the service can retry the race
// loser as a read.
func (r *AccountRepository) Create(ctx context.Context, userID int64, startingBalance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, balance)
		VALUES ($1, $2)
		RETURNING user_id, balance, created_at, updated_at
	`

	var account models.Account
	err := r.q.QueryRow(ctx, query, userID, startingBalance).Scan(
		&account.UserID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("account for user %d: %w", userID, service.ErrAccountConflict)
		}
		return nil, fmt.Errorf("failed to create account for user %d: %w", userID, err)
	}

	return &account, nil
}

// AddBalance adds to an account's balance atomically
func (r *AccountRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return service.ErrInvalidAmount
	}

	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add balance for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, service.ErrAccountNotFound)
	}

	return nil
}

// DeductBalance deducts from an account's balance atomically. The guard in
// the WHERE clause makes concurrent overdrafts impossible regardless of
// what the caller read beforehand.
func (r *AccountRepository) DeductBalance(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return service.ErrInvalidAmount
	}

	query := `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE user_id = $2 AND balance >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		account, err := r.GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("user %d: %w", userID, service.ErrAccountNotFound)
		}
		return fmt.Errorf("have %d, need %d: %w", account.Balance, amount, service.ErrInsufficientFunds)
	}

	return nil
}
