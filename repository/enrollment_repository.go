package repository

import (
	"context"
	"fmt"

	"credmarket/database"
)

// EnrollmentRepository implements the service.EnrollmentRepository
// interface. Reservations are the double-charge guard: the insert-if-absent
// either claims the (user, resource) pair or reports it already taken,
// inside the same transaction that later moves the credits.
type EnrollmentRepository struct {
	q queryable
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *database.DB) *EnrollmentRepository {
	return &EnrollmentRepository{q: db.Pool}
}

// newEnrollmentRepositoryWithTx creates a new enrollment repository with a transaction
func newEnrollmentRepositoryWithTx(tx queryable) *EnrollmentRepository {
	return &EnrollmentRepository{q: tx}
}

// TryReserveCourse atomically inserts the enrollment row if absent.
// Returns false when the student already holds the course.
func (r *EnrollmentRepository) TryReserveCourse(ctx context.Context, userID, courseID int64) (bool, error) {
	query := `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to reserve course %d for user %d: %w", courseID, userID, err)
	}

	return result.RowsAffected() == 1, nil
}

// CourseEnrollmentExists reports whether the student already enrolled
func (r *EnrollmentRepository) CourseEnrollmentExists(ctx context.Context, userID, courseID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}

	return exists, nil
}

// TryReserveSession atomically inserts the attendance row if absent.
// Returns false when the user already booked the session.
func (r *EnrollmentRepository) TryReserveSession(ctx context.Context, userID, sessionID, creditCost int64) (bool, error) {
	query := `
		INSERT INTO session_attendance (session_id, user_id, credit_cost)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, sessionID, userID, creditCost)
	if err != nil {
		return false, fmt.Errorf("failed to reserve session %d for user %d: %w", sessionID, userID, err)
	}

	return result.RowsAffected() == 1, nil
}

// SessionAttendanceExists reports whether the user already booked the session
func (r *EnrollmentRepository) SessionAttendanceExists(ctx context.Context, userID, sessionID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM session_attendance WHERE session_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, sessionID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance: %w", err)
	}

	return exists, nil
}
