package testutil

import (
	"context"
	"testing"

	"credmarket/models"

	"github.com/jackc/pgx/v5"
)

// SeedAccount inserts an account row directly for test setup
func (td *TestDatabase) SeedAccount(t *testing.T, userID, balance int64) {
	t.Helper()

	err := td.DB.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(),
			`INSERT INTO accounts (user_id, balance) VALUES ($1, $2)`, userID, balance)
		return err
	})
	if err != nil {
		t.Fatalf("failed to seed account %d: %v", userID, err)
	}
}

// SeedCourse inserts a course row and returns it
func (td *TestDatabase) SeedCourse(t *testing.T, teacherID, price int64) *models.Course {
	t.Helper()

	course := &models.Course{TeacherID: teacherID, Title: "Seeded course", Price: price, Duration: "4 Weeks"}
	err := td.DB.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		return tx.QueryRow(context.Background(),
			`INSERT INTO courses (teacher_id, title, description, price, duration)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
			course.TeacherID, course.Title, course.Description, course.Price, course.Duration,
		).Scan(&course.ID, &course.CreatedAt)
	})
	if err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	return course
}

// SeedThread inserts a thread row and returns it
func (td *TestDatabase) SeedThread(t *testing.T, authorID int64, title string) *models.Thread {
	t.Helper()

	thread := &models.Thread{AuthorID: authorID, Title: title, Content: "seeded"}
	err := td.DB.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		return tx.QueryRow(context.Background(),
			`INSERT INTO threads (author_id, title, content)
			 VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
			thread.AuthorID, thread.Title, thread.Content,
		).Scan(&thread.ID, &thread.CreatedAt, &thread.UpdatedAt)
	})
	if err != nil {
		t.Fatalf("failed to seed thread: %v", err)
	}
	return thread
}
