package models

import (
	"time"
)

// Thread is a discussion post. Scores are always derived from live votes,
// never denormalized onto the row.
type Thread struct {
	ID        int64     `db:"id" json:"id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Score int64 `db:"-" json:"score"` // populated on reads that aggregate votes
}

// Comment belongs to a thread; replies nest via ParentID
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	ThreadID  int64     `db:"thread_id" json:"thread_id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Score int64 `db:"-" json:"score"`
}

// ThreadSort selects the ordering for thread listings
type ThreadSort string

const (
	ThreadSortNew ThreadSort = "new"
	ThreadSortTop ThreadSort = "top"
)
