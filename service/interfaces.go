package service

import (
	"context"
	"time"

	"credmarket/events"
	"credmarket/models"
)

// AccountRepository defines the interface for credit account data access
type AccountRepository interface {
	// GetByUserID retrieves an account by user ID, nil if absent
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// Create creates a new account with the starting balance;
	// ErrAccountConflict means another request for the same user won
	// the race
	Create(ctx context.Context, userID int64, startingBalance int64) (*models.Account, error)

	// AddBalance adds to an account's balance atomically
	AddBalance(ctx context.Context, userID int64, amount int64) error

	// DeductBalance deducts from an account's balance atomically,
	// returning ErrInsufficientFunds if the balance would go negative
	DeductBalance(ctx context.Context, userID int64, amount int64) error
}

// LedgerRepository defines the interface for the append-only entry log
type LedgerRepository interface {
	// Record creates a new ledger entry
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// ListByUser returns entries for a user, newest first. A nil since
	// returns all entries up to limit.
	ListByUser(ctx context.Context, userID int64, since *time.Time, limit int) ([]*models.LedgerEntry, error)

	// Summarize aggregates earned/spent amounts for the wallet view
	Summarize(ctx context.Context, userID int64, dayStart, weekStart time.Time) (*models.WalletSummary, error)
}

// CatalogRepository defines the interface for courses and live sessions
type CatalogRepository interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, limit int) ([]*models.Course, error)

	CreateSession(ctx context.Context, session *models.LiveSession) error
	// GetSession returns the session with its current attendee count
	GetSession(ctx context.Context, id int64) (*models.LiveSession, error)
	ListSessions(ctx context.Context, limit int) ([]*models.LiveSession, error)
	CancelSession(ctx context.Context, id int64) error
}

// EnrollmentRepository defines the interface for purchase reservations.
// TryReserve* perform an atomic insert-if-absent; a false return means the
// (user, resource) pair already holds the resource.
type EnrollmentRepository interface {
	TryReserveCourse(ctx context.Context, userID, courseID int64) (bool, error)
	CourseEnrollmentExists(ctx context.Context, userID, courseID int64) (bool, error)

	TryReserveSession(ctx context.Context, userID, sessionID, creditCost int64) (bool, error)
	SessionAttendanceExists(ctx context.Context, userID, sessionID int64) (bool, error)
}

// ContentRepository defines the interface for discussion threads/comments
type ContentRepository interface {
	CreateThread(ctx context.Context, thread *models.Thread) error
	GetThread(ctx context.Context, id int64) (*models.Thread, error)
	ListThreads(ctx context.Context, sort models.ThreadSort, limit int) ([]*models.Thread, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id int64) (*models.Comment, error)
	ListByThread(ctx context.Context, threadID int64) ([]*models.Comment, error)

	// Existence checks used by the vote engine's target registry
	ThreadExists(ctx context.Context, id int64) (bool, error)
	CommentExists(ctx context.Context, id int64) (bool, error)
}

// VoteRepository defines the interface for vote rows
type VoteRepository interface {
	// GetByVoter returns the caller's live vote on a target, nil if absent.
	// Inside a unit of work the row is locked for the transaction.
	GetByVoter(ctx context.Context, userID int64, target models.TargetRef) (*models.Vote, error)

	// Insert creates a vote; ErrVoteConflict means another request for
	// the same (user, target) won the race
	Insert(ctx context.Context, vote *models.Vote) error

	// UpdateValue flips an existing vote in place
	UpdateValue(ctx context.Context, id int64, value int16) error

	// Delete removes a vote (toggle-off)
	Delete(ctx context.Context, id int64) error

	// Score sums live vote values for a target
	Score(ctx context.Context, target models.TargetRef) (int64, error)
}

// ReportRepository defines the interface for moderation reports
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByTarget(ctx context.Context, target models.TargetRef, limit int) ([]*models.Report, error)
	Resolve(ctx context.Context, id int64) error
}

// LedgerService defines the interface for credit account operations
type LedgerService interface {
	// CreateAccount explicitly creates the credit account for a new user.
	// Called by the registration flow; idempotent per user.
	CreateAccount(ctx context.Context, userID int64) (*models.Account, error)

	// GetBalance returns the current balance for a user
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// Transfer atomically moves amount credits from payer to payee,
	// producing one ledger entry per party
	Transfer(ctx context.Context, payerID, payeeID, amount int64, description string, relatedType *models.ResourceType, relatedID *int64) (*models.TransferResult, error)

	// ListHistory returns ledger entries newest first
	ListHistory(ctx context.Context, userID int64, since *time.Time, limit int) ([]*models.LedgerEntry, error)

	// Summary returns the earned/spent wallet breakdown
	Summary(ctx context.Context, userID int64) (*models.WalletSummary, error)
}

// MarketplaceService defines the interface for purchase-like actions
type MarketplaceService interface {
	// CreateCourse publishes a course; the identity provider's isTeacher
	// flag is trusted as given
	CreateCourse(ctx context.Context, teacherID int64, isTeacher bool, title, description string, price int64, duration string) (*models.Course, error)

	// JoinCourse enrolls a student, paying the course price to its
	// teacher. The enrollment row and the transfer commit together.
	JoinCourse(ctx context.Context, studentID, courseID int64, idemKey string) (*models.TransferResult, error)

	ListCourses(ctx context.Context, limit int) ([]*models.Course, error)

	// HostSession schedules a live session
	HostSession(ctx context.Context, hostID int64, isTeacher bool, title, description string, scheduledAt time.Time, durationMinutes int, creditCost int64, maxAttendees *int) (*models.LiveSession, error)

	// JoinSession books attendance, paying the credit cost to the host
	JoinSession(ctx context.Context, attendeeID, sessionID int64, idemKey string) (*models.TransferResult, error)

	CancelSession(ctx context.Context, hostID, sessionID int64) error
	ListSessions(ctx context.Context, limit int) ([]*models.LiveSession, error)
}

// VoteService defines the interface for the polymorphic vote/report engine
type VoteService interface {
	// CastVote applies, flips or toggles off the caller's vote and
	// returns the recomputed score
	CastVote(ctx context.Context, userID int64, target models.TargetRef, value int16) (*models.VoteResult, error)

	// GetScore returns the derived score for a target
	GetScore(ctx context.Context, target models.TargetRef) (int64, error)

	// FileReport records a moderation report against a target
	FileReport(ctx context.Context, userID int64, target models.TargetRef, reason string) (*models.Report, error)
}

// ContentService defines the interface for discussion content
type ContentService interface {
	CreateThread(ctx context.Context, authorID int64, title, content string) (*models.Thread, error)
	CreateComment(ctx context.Context, authorID, threadID int64, content string, parentID *int64) (*models.Comment, error)
	ListThreads(ctx context.Context, sort models.ThreadSort, limit int) ([]*models.Thread, error)
	// GetThread returns the thread and its comments, all with scores
	GetThread(ctx context.Context, threadID int64) (*models.Thread, []*models.Comment, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	LedgerRepository() LedgerRepository
	CatalogRepository() CatalogRepository
	EnrollmentRepository() EnrollmentRepository
	ContentRepository() ContentRepository
	VoteRepository() VoteRepository
	ReportRepository() ReportRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
