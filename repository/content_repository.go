package repository

import (
	"context"
	"fmt"

	"credmarket/database"
	"credmarket/models"

	"github.com/jackc/pgx/v5"
)

// ContentRepository implements the service.ContentRepository interface.
// Read queries join scores in from the votes table; nothing is
// denormalized onto the content rows.
type ContentRepository struct {
	q queryable
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{q: db.Pool}
}

// newContentRepositoryWithTx creates a new content repository with a transaction
func newContentRepositoryWithTx(tx queryable) *ContentRepository {
	return &ContentRepository{q: tx}
}

// CreateThread inserts a new discussion thread
func (r *ContentRepository) CreateThread(ctx context.Context, thread *models.Thread) error {
	query := `
		INSERT INTO threads (author_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		thread.AuthorID,
		thread.Title,
		thread.Content,
	).Scan(&thread.ID, &thread.CreatedAt, &thread.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	return nil
}

// GetThread retrieves a thread with its score, nil if absent
func (r *ContentRepository) GetThread(ctx context.Context, id int64) (*models.Thread, error) {
	query := `
		SELECT t.id, t.author_id, t.title, t.content, t.created_at, t.updated_at,
		       COALESCE((SELECT SUM(v.value) FROM votes v
		                 WHERE v.target_type = 'thread' AND v.target_id = t.id), 0) AS score
		FROM threads t
		WHERE t.id = $1
	`

	var thread models.Thread
	err := r.q.QueryRow(ctx, query, id).Scan(
		&thread.ID,
		&thread.AuthorID,
		&thread.Title,
		&thread.Content,
		&thread.CreatedAt,
		&thread.UpdatedAt,
		&thread.Score,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %d: %w", id, err)
	}

	return &thread, nil
}

// ListThreads returns threads ordered by creation time or score
func (r *ContentRepository) ListThreads(ctx context.Context, sort models.ThreadSort, limit int) ([]*models.Thread, error) {
	orderBy := "t.created_at DESC"
	if sort == models.ThreadSortTop {
		orderBy = "score DESC, t.created_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.author_id, t.title, t.content, t.created_at, t.updated_at,
		       COALESCE((SELECT SUM(v.value) FROM votes v
		                 WHERE v.target_type = 'thread' AND v.target_id = t.id), 0) AS score
		FROM threads t
		ORDER BY %s
		LIMIT $1
	`, orderBy)

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []*models.Thread
	for rows.Next() {
		var thread models.Thread
		err := rows.Scan(
			&thread.ID,
			&thread.AuthorID,
			&thread.Title,
			&thread.Content,
			&thread.CreatedAt,
			&thread.UpdatedAt,
			&thread.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, &thread)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate threads: %w", err)
	}

	return threads, nil
}

// CreateComment inserts a new comment
func (r *ContentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (thread_id, author_id, content, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		comment.ThreadID,
		comment.AuthorID,
		comment.Content,
		comment.ParentID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetComment retrieves a comment with its score, nil if absent
func (r *ContentRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT c.id, c.thread_id, c.author_id, c.content, c.parent_id, c.created_at, c.updated_at,
		       COALESCE((SELECT SUM(v.value) FROM votes v
		                 WHERE v.target_type = 'comment' AND v.target_id = c.id), 0) AS score
		FROM comments c
		WHERE c.id = $1
	`

	var comment models.Comment
	err := r.q.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ThreadID,
		&comment.AuthorID,
		&comment.Content,
		&comment.ParentID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.Score,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}

	return &comment, nil
}

// ListByThread returns a thread's comments oldest first
func (r *ContentRepository) ListByThread(ctx context.Context, threadID int64) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.thread_id, c.author_id, c.content, c.parent_id, c.created_at, c.updated_at,
		       COALESCE((SELECT SUM(v.value) FROM votes v
		                 WHERE v.target_type = 'comment' AND v.target_id = c.id), 0) AS score
		FROM comments c
		WHERE c.thread_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`

	rows, err := r.q.Query(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for thread %d: %w", threadID, err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.ThreadID,
			&comment.AuthorID,
			&comment.Content,
			&comment.ParentID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&comment.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// ThreadExists reports whether a thread exists
func (r *ContentRepository) ThreadExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM threads WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check thread %d: %w", id, err)
	}
	return exists, nil
}

// CommentExists reports whether a comment exists
func (r *ContentRepository) CommentExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check comment %d: %w", id, err)
	}
	return exists, nil
}
