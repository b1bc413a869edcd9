package service

import (
	"context"
	"time"

	"credmarket/events"
	"credmarket/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, userID int64, startingBalance int64) (*models.Account, error) {
	args := m.Called(ctx, userID, startingBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByUser(ctx context.Context, userID int64, since *time.Time, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Summarize(ctx context.Context, userID int64, dayStart, weekStart time.Time) (*models.WalletSummary, error) {
	args := m.Called(ctx, userID, dayStart, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletSummary), args.Error(1)
}

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCatalogRepository) ListCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCatalogRepository) CreateSession(ctx context.Context, session *models.LiveSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetSession(ctx context.Context, id int64) (*models.LiveSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LiveSession), args.Error(1)
}

func (m *MockCatalogRepository) ListSessions(ctx context.Context, limit int) ([]*models.LiveSession, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LiveSession), args.Error(1)
}

func (m *MockCatalogRepository) CancelSession(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) TryReserveCourse(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) CourseEnrollmentExists(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) TryReserveSession(ctx context.Context, userID, sessionID, creditCost int64) (bool, error) {
	args := m.Called(ctx, userID, sessionID, creditCost)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) SessionAttendanceExists(ctx context.Context, userID, sessionID int64) (bool, error) {
	args := m.Called(ctx, userID, sessionID)
	return args.Bool(0), args.Error(1)
}

// MockContentRepository is a mock implementation of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreateThread(ctx context.Context, thread *models.Thread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

func (m *MockContentRepository) GetThread(ctx context.Context, id int64) (*models.Thread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thread), args.Error(1)
}

func (m *MockContentRepository) ListThreads(ctx context.Context, sort models.ThreadSort, limit int) ([]*models.Thread, error) {
	args := m.Called(ctx, sort, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Thread), args.Error(1)
}

func (m *MockContentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockContentRepository) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockContentRepository) ListByThread(ctx context.Context, threadID int64) ([]*models.Comment, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockContentRepository) ThreadExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) CommentExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockVoteRepository is a mock implementation of VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) GetByVoter(ctx context.Context, userID int64, target models.TargetRef) (*models.Vote, error) {
	args := m.Called(ctx, userID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *MockVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) UpdateValue(ctx context.Context, id int64, value int16) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockVoteRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVoteRepository) Score(ctx context.Context, target models.TargetRef) (int64, error) {
	args := m.Called(ctx, target)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) ListByTarget(ctx context.Context, target models.TargetRef, limit int) ([]*models.Report, error) {
	args := m.Called(ctx, target, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Report), args.Error(1)
}

func (m *MockReportRepository) Resolve(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo    AccountRepository
	ledgerRepo     LedgerRepository
	catalogRepo    CatalogRepository
	enrollmentRepo EnrollmentRepository
	contentRepo    ContentRepository
	voteRepo       VoteRepository
	reportRepo     ReportRepository
	eventBus       EventPublisher
}

// SetRepositories configures the repositories returned by the getters.
// Pass nil for repositories a test does not touch.
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	catalogRepo CatalogRepository,
	enrollmentRepo EnrollmentRepository,
	contentRepo ContentRepository,
	voteRepo VoteRepository,
	reportRepo ReportRepository,
	eventBus EventPublisher,
) {
	m.accountRepo = accountRepo
	m.ledgerRepo = ledgerRepo
	m.catalogRepo = catalogRepo
	m.enrollmentRepo = enrollmentRepo
	m.contentRepo = contentRepo
	m.voteRepo = voteRepo
	m.reportRepo = reportRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository { return m.accountRepo }

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository { return m.ledgerRepo }

func (m *MockUnitOfWork) CatalogRepository() CatalogRepository { return m.catalogRepo }

func (m *MockUnitOfWork) EnrollmentRepository() EnrollmentRepository { return m.enrollmentRepo }

func (m *MockUnitOfWork) ContentRepository() ContentRepository { return m.contentRepo }

func (m *MockUnitOfWork) VoteRepository() VoteRepository { return m.voteRepo }

func (m *MockUnitOfWork) ReportRepository() ReportRepository { return m.reportRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher { return m.eventBus }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
