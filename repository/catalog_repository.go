package repository

import (
	"context"
	"fmt"

	"credmarket/database"
	"credmarket/models"
	"credmarket/service"

	"github.com/jackc/pgx/v5"
)

// CatalogRepository implements the service.CatalogRepository interface
// for courses and live sessions.
type CatalogRepository struct {
	q queryable
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{q: db.Pool}
}

// newCatalogRepositoryWithTx creates a new catalog repository with a transaction
func newCatalogRepositoryWithTx(tx queryable) *CatalogRepository {
	return &CatalogRepository{q: tx}
}

// CreateCourse inserts a new course
func (r *CatalogRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (teacher_id, title, description, price, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		course.TeacherID,
		course.Title,
		course.Description,
		course.Price,
		course.Duration,
	).Scan(&course.ID, &course.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetCourse retrieves a course by ID, nil if absent
func (r *CatalogRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, teacher_id, title, description, price, duration, created_at
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.q.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.TeacherID,
		&course.Title,
		&course.Description,
		&course.Price,
		&course.Duration,
		&course.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}

	return &course, nil
}

// ListCourses returns the newest courses up to limit
func (r *CatalogRepository) ListCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	query := `
		SELECT id, teacher_id, title, description, price, duration, created_at
		FROM courses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.ID,
			&course.TeacherID,
			&course.Title,
			&course.Description,
			&course.Price,
			&course.Duration,
			&course.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}

	return courses, nil
}

// CreateSession inserts a new live session
func (r *CatalogRepository) CreateSession(ctx context.Context, session *models.LiveSession) error {
	query := `
		INSERT INTO live_sessions
		(host_id, title, description, scheduled_at, duration_minutes, credit_cost, max_attendees)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_cancelled, created_at
	`

	err := r.q.QueryRow(ctx, query,
		session.HostID,
		session.Title,
		session.Description,
		session.ScheduledAt,
		session.DurationMinutes,
		session.CreditCost,
		session.MaxAttendees,
	).Scan(&session.ID, &session.IsCancelled, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create live session: %w", err)
	}

	return nil
}

// GetSession retrieves a session with its current attendee count, nil if absent
func (r *CatalogRepository) GetSession(ctx context.Context, id int64) (*models.LiveSession, error) {
	query := `
		SELECT s.id, s.host_id, s.title, s.description, s.scheduled_at,
		       s.duration_minutes, s.credit_cost, s.max_attendees, s.is_cancelled, s.created_at,
		       (SELECT COUNT(*) FROM session_attendance a WHERE a.session_id = s.id) AS attendee_count
		FROM live_sessions s
		WHERE s.id = $1
	`

	var session models.LiveSession
	err := r.q.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.HostID,
		&session.Title,
		&session.Description,
		&session.ScheduledAt,
		&session.DurationMinutes,
		&session.CreditCost,
		&session.MaxAttendees,
		&session.IsCancelled,
		&session.CreatedAt,
		&session.AttendeeCount,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}

	return &session, nil
}

// ListSessions returns upcoming, non-cancelled sessions up to limit
func (r *CatalogRepository) ListSessions(ctx context.Context, limit int) ([]*models.LiveSession, error) {
	query := `
		SELECT s.id, s.host_id, s.title, s.description, s.scheduled_at,
		       s.duration_minutes, s.credit_cost, s.max_attendees, s.is_cancelled, s.created_at,
		       (SELECT COUNT(*) FROM session_attendance a WHERE a.session_id = s.id) AS attendee_count
		FROM live_sessions s
		WHERE NOT s.is_cancelled
		ORDER BY s.scheduled_at ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.LiveSession
	for rows.Next() {
		var session models.LiveSession
		err := rows.Scan(
			&session.ID,
			&session.HostID,
			&session.Title,
			&session.Description,
			&session.ScheduledAt,
			&session.DurationMinutes,
			&session.CreditCost,
			&session.MaxAttendees,
			&session.IsCancelled,
			&session.CreatedAt,
			&session.AttendeeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// CancelSession flags a session as cancelled
func (r *CatalogRepository) CancelSession(ctx context.Context, id int64) error {
	query := `UPDATE live_sessions SET is_cancelled = TRUE WHERE id = $1`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to cancel session %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %d: %w", id, service.ErrResourceNotFound)
	}

	return nil
}
