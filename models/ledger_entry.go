package models

import (
	"time"
)

// EntryType represents the kind of credit movement behind a ledger entry
type EntryType string

const (
	EntryTypeInitial       EntryType = "initial"
	EntryTypeCourseEnroll  EntryType = "course_enroll"
	EntryTypeCourseIncome  EntryType = "course_income"
	EntryTypeSessionAttend EntryType = "session_attend"
	EntryTypeSessionIncome EntryType = "session_income"
	EntryTypeTransferOut   EntryType = "transfer_out"
	EntryTypeTransferIn    EntryType = "transfer_in"
)

// ResourceType identifies what a ledger entry's related resource is
type ResourceType string

const (
	ResourceTypeCourse  ResourceType = "course"
	ResourceTypeSession ResourceType = "session"
)

// LedgerEntry is one immutable leg of a credit movement. A two-party
// transfer produces exactly two entries whose amounts sum to zero.
type LedgerEntry struct {
	ID            int64          `db:"id"`
	UserID        int64          `db:"user_id"`
	Amount        int64          `db:"amount"` // positive = credit, negative = debit
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	EntryType     EntryType      `db:"entry_type"`
	Description   string         `db:"description"`
	Metadata      map[string]any `db:"metadata"`
	RelatedID     *int64         `db:"related_id"`
	RelatedType   *ResourceType  `db:"related_type"`
	CreatedAt     time.Time      `db:"created_at"`
}

// TransferResult summarizes a committed two-party transfer
type TransferResult struct {
	Amount     int64
	PayerEntry *LedgerEntry
	PayeeEntry *LedgerEntry
	NewBalance int64 // payer's balance after the transfer
}

// WalletSummary is the earned/spent breakdown shown on the wallet page
type WalletSummary struct {
	Balance     int64 `json:"balance"`
	EarnedToday int64 `json:"earned_today"`
	SpentToday  int64 `json:"spent_today"`
	EarnedWeek  int64 `json:"earned_week"`
	SpentWeek   int64 `json:"spent_week"`
	EarnedTotal int64 `json:"earned_total"`
	SpentTotal  int64 `json:"spent_total"`
}
