package repository

import (
	"context"
	"fmt"

	"credmarket/database"
	"credmarket/models"
	"credmarket/service"

	"github.com/jackc/pgx/v5"
)

// VoteRepository implements the service.VoteRepository interface
type VoteRepository struct {
	q queryable
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *database.DB) *VoteRepository {
	return &VoteRepository{q: db.Pool}
}

// newVoteRepositoryWithTx creates a new vote repository with a transaction
func newVoteRepositoryWithTx(tx queryable) *VoteRepository {
	return &VoteRepository{q: tx}
}

// GetByVoter returns the caller's live vote on a target, nil if absent.
// The row lock only outlives the call inside a unit of work.
func (r *VoteRepository) GetByVoter(ctx context.Context, userID int64, target models.TargetRef) (*models.Vote, error) {
	query := `
		SELECT id, user_id, target_type, target_id, value, created_at, updated_at
		FROM votes
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3
		FOR UPDATE
	`

	var vote models.Vote
	err := r.q.QueryRow(ctx, query, userID, target.Type, target.ID).Scan(
		&vote.ID,
		&vote.UserID,
		&vote.TargetType,
		&vote.TargetID,
		&vote.Value,
		&vote.CreatedAt,
		&vote.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote for user %d on %s %d: %w", userID, target.Type, target.ID, err)
	}

	return &vote, nil
}

// Insert creates a vote. A unique violation maps to ErrVoteConflict so
// the service can retry the race loser with a fresh transaction.
func (r *VoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (user_id, target_type, target_id, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		vote.UserID,
		vote.TargetType,
		vote.TargetID,
		vote.Value,
	).Scan(&vote.ID, &vote.CreatedAt, &vote.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("vote for user %d on %s %d: %w", vote.UserID, vote.TargetType, vote.TargetID, service.ErrVoteConflict)
		}
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	return nil
}

// UpdateValue flips an existing vote in place
func (r *VoteRepository) UpdateValue(ctx context.Context, id int64, value int16) error {
	query := `UPDATE votes SET value = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update vote %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vote %d not found", id)
	}

	return nil
}

// Delete removes a vote
func (r *VoteRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM votes WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete vote %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vote %d not found", id)
	}

	return nil
}

// Score sums live vote values for a target
func (r *VoteRepository) Score(ctx context.Context, target models.TargetRef) (int64, error) {
	query := `
		SELECT COALESCE(SUM(value), 0)
		FROM votes
		WHERE target_type = $1 AND target_id = $2
	`

	var score int64
	if err := r.q.QueryRow(ctx, query, target.Type, target.ID).Scan(&score); err != nil {
		return 0, fmt.Errorf("failed to compute score for %s %d: %w", target.Type, target.ID, err)
	}

	return score, nil
}
