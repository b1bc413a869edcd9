package models

import (
	"time"
)

// TargetType tags which kind of entity a vote or report points at.
// New votable types register a resolver in the content store; the vote
// and report tables never change per type.
type TargetType string

const (
	TargetTypeThread  TargetType = "thread"
	TargetTypeComment TargetType = "comment"
)

// TargetRef identifies any votable/reportable entity by (type, id)
type TargetRef struct {
	Type TargetType `json:"type"`
	ID   int64      `json:"id"`
}

// Vote values
const (
	Upvote   int16 = 1
	Downvote int16 = -1
)

// Vote is a user's single directional opinion on a target. At most one
// live row exists per (user, target); repeat votes flip or remove it.
type Vote struct {
	ID         int64      `db:"id"`
	UserID     int64      `db:"user_id"`
	TargetType TargetType `db:"target_type"`
	TargetID   int64      `db:"target_id"`
	Value      int16      `db:"value"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// VoteStatus describes what CastVote did with the caller's vote
type VoteStatus string

const (
	VoteApplied    VoteStatus = "applied"     // first vote inserted
	VoteChanged    VoteStatus = "changed"     // flipped to the opposite direction
	VoteToggledOff VoteStatus = "toggled_off" // same direction again, vote removed
)

// VoteResult is returned to the caller after a vote mutation
type VoteResult struct {
	Status VoteStatus `json:"status"`
	Score  int64      `json:"score"`
}
