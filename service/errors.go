package service

import (
	"errors"
)

// Sentinel errors surfaced to callers. The API layer maps each one to a
// specific status code and message; anything else is treated as internal.
var (
	// Ledger / marketplace
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInsufficientFunds    = errors.New("insufficient credits")
	ErrSelfTransfer         = errors.New("payer and payee must differ")
	ErrDuplicateReservation = errors.New("resource already purchased")
	ErrAccountNotFound      = errors.New("account not found")
	ErrResourceNotFound     = errors.New("resource not found")
	ErrNotTeacher           = errors.New("teacher role required")
	ErrSessionFull          = errors.New("session is full")
	ErrSessionCancelled     = errors.New("session is cancelled")
	ErrNotSessionHost       = errors.New("only the host may cancel a session")
	ErrEmptyTitle           = errors.New("title must not be empty")
	ErrEmptyContent         = errors.New("content must not be empty")
	ErrInvalidCapacity      = errors.New("max attendees must be positive")

	// Vote / report engine
	ErrInvalidTargetType = errors.New("target type is not votable")
	ErrInvalidValue      = errors.New("vote value must be +1 or -1")
	ErrEmptyReason       = errors.New("report reason must not be empty")
	ErrTargetNotFound    = errors.New("target not found")

	// ErrVoteConflict is returned when a vote insert loses the race on the
	// unique (user, target) key. The transaction is aborted at that point,
	// so callers retry the whole operation.
	ErrVoteConflict = errors.New("concurrent vote detected")

	// ErrAccountConflict is returned when an account insert loses the race
	// on the user ID key. Same deal as ErrVoteConflict: the transaction is
	// aborted, so callers retry and find the winner's row.
	ErrAccountConflict = errors.New("concurrent account creation detected")
)
