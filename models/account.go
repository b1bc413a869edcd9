package models

import (
	"time"
)

// Account holds the credit balance for a marketplace user. The user itself
// lives in the identity provider; we only key on its stable ID.
type Account struct {
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
