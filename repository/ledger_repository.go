package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"credmarket/database"
	"credmarket/models"
)

// LedgerRepository implements the service.LedgerRepository interface
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Record creates a new ledger entry
func (r *LedgerRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal entry metadata: %w", err)
	}

	query := `
		INSERT INTO ledger_entries
		(user_id, amount, balance_before, balance_after, entry_type, description, metadata, related_id, related_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Amount,
		entry.BalanceBefore,
		entry.BalanceAfter,
		entry.EntryType,
		entry.Description,
		metadataJSON,
		entry.RelatedID,
		entry.RelatedType,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record ledger entry for user %d: %w", entry.UserID, err)
	}

	return nil
}

// ListByUser returns ledger entries for a user, newest first
func (r *LedgerRepository) ListByUser(ctx context.Context, userID int64, since *time.Time, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, user_id, amount, balance_before, balance_after, entry_type,
		       description, metadata, related_id, related_type, created_at
		FROM ledger_entries
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var metadataJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.EntryType,
			&entry.Description,
			&metadataJSON,
			&entry.RelatedID,
			&entry.RelatedType,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal entry metadata: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// Summarize aggregates earned/spent amounts for the wallet view. Earned
// is the sum of positive entries, spent the absolute sum of negative ones.
func (r *LedgerRepository) Summarize(ctx context.Context, userID int64, dayStart, weekStart time.Time) (*models.WalletSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0 AND created_at >= $2), 0) AS earned_today,
			COALESCE(-SUM(amount) FILTER (WHERE amount < 0 AND created_at >= $2), 0) AS spent_today,
			COALESCE(SUM(amount) FILTER (WHERE amount > 0 AND created_at >= $3), 0) AS earned_week,
			COALESCE(-SUM(amount) FILTER (WHERE amount < 0 AND created_at >= $3), 0) AS spent_week,
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS earned_total,
			COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0) AS spent_total
		FROM ledger_entries
		WHERE user_id = $1
	`

	var summary models.WalletSummary
	err := r.q.QueryRow(ctx, query, userID, dayStart, weekStart).Scan(
		&summary.EarnedToday,
		&summary.SpentToday,
		&summary.EarnedWeek,
		&summary.SpentWeek,
		&summary.EarnedTotal,
		&summary.SpentTotal,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger for user %d: %w", userID, err)
	}

	return &summary, nil
}
