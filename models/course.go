package models

import (
	"time"
)

// Course is a purchasable teaching offer. Price is in credits and goes to
// the teacher's account when a student enrolls.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	TeacherID   int64     `db:"teacher_id" json:"teacher_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Price       int64     `db:"price" json:"price"`
	Duration    string    `db:"duration" json:"duration"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Enrollment is the join row between a student and a course. Its primary
// key (user_id, course_id) is the double-charge guard for enrollment.
type Enrollment struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LiveSession is a scheduled one-off teaching session hosted by a user
type LiveSession struct {
	ID              int64     `db:"id" json:"id"`
	HostID          int64     `db:"host_id" json:"host_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	CreditCost      int64     `db:"credit_cost" json:"credit_cost"`
	MaxAttendees    *int      `db:"max_attendees" json:"max_attendees,omitempty"`
	IsCancelled     bool      `db:"is_cancelled" json:"is_cancelled"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`

	AttendeeCount int `db:"-" json:"attendee_count"` // populated on reads that join attendance
}

// SessionAttendance records that a user paid to join a live session.
// Primary key (session_id, user_id) prevents paying twice.
type SessionAttendance struct {
	SessionID  int64     `db:"session_id" json:"session_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	CreditCost int64     `db:"credit_cost" json:"credit_cost"`
	JoinedAt   time.Time `db:"joined_at" json:"joined_at"`
}
