package models

import (
	"time"
)

// Report is a moderation flag raised against a votable target. Unlike
// votes there is no per-user cap; every submission inserts a row.
type Report struct {
	ID         int64      `db:"id" json:"id"`
	CreatedBy  int64      `db:"created_by" json:"created_by"`
	TargetType TargetType `db:"target_type" json:"target_type"`
	TargetID   int64      `db:"target_id" json:"target_id"`
	Reason     string     `db:"reason" json:"reason"`
	IsResolved bool       `db:"is_resolved" json:"is_resolved"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
