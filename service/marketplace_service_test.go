package service

import (
	"context"
	"testing"
	"time"

	"credmarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type marketTestEnv struct {
	svc            MarketplaceService
	uowFactory     *MockUnitOfWorkFactory
	uow            *MockUnitOfWork
	accountRepo    *MockAccountRepository
	ledgerRepo     *MockLedgerRepository
	catalogRepo    *MockCatalogRepository
	enrollmentRepo *MockEnrollmentRepository
	bus            *MockEventPublisher
}

func setupMarketTest(t *testing.T) *marketTestEnv {
	t.Helper()

	env := &marketTestEnv{
		uowFactory:     new(MockUnitOfWorkFactory),
		uow:            new(MockUnitOfWork),
		accountRepo:    new(MockAccountRepository),
		ledgerRepo:     new(MockLedgerRepository),
		catalogRepo:    new(MockCatalogRepository),
		enrollmentRepo: new(MockEnrollmentRepository),
		bus:            &MockEventPublisher{},
	}

	env.uow.SetRepositories(env.accountRepo, env.ledgerRepo, env.catalogRepo, env.enrollmentRepo, nil, nil, nil, env.bus)
	env.uowFactory.On("Create").Return(env.uow)
	env.uow.On("Begin", mock.Anything).Return(nil)
	env.uow.On("Commit").Return(nil)
	env.uow.On("Rollback").Return(nil)

	env.svc = NewMarketplaceService(env.uowFactory, time.Minute)
	return env
}

func TestJoinCourse_EnrollsAndPaysTeacher(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	course := &models.Course{ID: 7, TeacherID: 2, Title: "Go from scratch", Price: 30}
	env.catalogRepo.On("GetCourse", ctx, int64(7)).Return(course, nil)
	env.enrollmentRepo.On("TryReserveCourse", ctx, int64(1), int64(7)).Return(true, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(1)).Return(&models.Account{UserID: 1, Balance: 100}, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(2)).Return(&models.Account{UserID: 2, Balance: 0}, nil)
	env.accountRepo.On("DeductBalance", ctx, int64(1), int64(30)).Return(nil)
	env.accountRepo.On("AddBalance", ctx, int64(2), int64(30)).Return(nil)
	env.ledgerRepo.On("Record", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(nil)

	result, err := env.svc.JoinCourse(ctx, 1, 7, "")
	require.NoError(t, err)

	assert.Equal(t, int64(70), result.NewBalance)
	assert.Equal(t, models.EntryTypeCourseEnroll, result.PayerEntry.EntryType)
	assert.Equal(t, models.EntryTypeCourseIncome, result.PayeeEntry.EntryType)
	require.NotNil(t, result.PayerEntry.RelatedID)
	assert.Equal(t, int64(7), *result.PayerEntry.RelatedID)
	require.NotNil(t, result.PayerEntry.RelatedType)
	assert.Equal(t, models.ResourceTypeCourse, *result.PayerEntry.RelatedType)

	env.uow.AssertCalled(t, "Commit")
}

func TestJoinCourse_AlreadyEnrolledChargesNothing(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	course := &models.Course{ID: 7, TeacherID: 2, Price: 30}
	env.catalogRepo.On("GetCourse", ctx, int64(7)).Return(course, nil)
	env.enrollmentRepo.On("TryReserveCourse", ctx, int64(1), int64(7)).Return(false, nil)

	_, err := env.svc.JoinCourse(ctx, 1, 7, "")
	assert.ErrorIs(t, err, ErrDuplicateReservation)

	env.accountRepo.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything)
	env.ledgerRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	env.uow.AssertNotCalled(t, "Commit")
}

func TestJoinCourse_InsufficientFundsRollsBackReservation(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	course := &models.Course{ID: 7, TeacherID: 2, Price: 30}
	env.catalogRepo.On("GetCourse", ctx, int64(7)).Return(course, nil)
	env.enrollmentRepo.On("TryReserveCourse", ctx, int64(1), int64(7)).Return(true, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(1)).Return(&models.Account{UserID: 1, Balance: 10}, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(2)).Return(&models.Account{UserID: 2, Balance: 0}, nil)

	_, err := env.svc.JoinCourse(ctx, 1, 7, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Rolling back discards the reservation row along with everything else
	env.uow.AssertNotCalled(t, "Commit")
	env.uow.AssertCalled(t, "Rollback")
}

func TestJoinCourse_OwnCourse(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	course := &models.Course{ID: 7, TeacherID: 1, Price: 30}
	env.catalogRepo.On("GetCourse", ctx, int64(7)).Return(course, nil)

	_, err := env.svc.JoinCourse(ctx, 1, 7, "")
	assert.ErrorIs(t, err, ErrSelfTransfer)
}

func TestJoinCourse_NotFound(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	env.catalogRepo.On("GetCourse", ctx, int64(404)).Return(nil, nil)

	_, err := env.svc.JoinCourse(ctx, 1, 404, "")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestJoinCourse_ReplayedTokenRejectedBeforeDatabase(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	course := &models.Course{ID: 7, TeacherID: 2, Price: 30}
	env.catalogRepo.On("GetCourse", ctx, int64(7)).Return(course, nil)
	env.enrollmentRepo.On("TryReserveCourse", ctx, int64(1), int64(7)).Return(true, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(1)).Return(&models.Account{UserID: 1, Balance: 100}, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(2)).Return(&models.Account{UserID: 2, Balance: 0}, nil)
	env.accountRepo.On("DeductBalance", ctx, int64(1), int64(30)).Return(nil)
	env.accountRepo.On("AddBalance", ctx, int64(2), int64(30)).Return(nil)
	env.ledgerRepo.On("Record", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(nil)

	_, err := env.svc.JoinCourse(ctx, 1, 7, "tok-1")
	require.NoError(t, err)

	_, err = env.svc.JoinCourse(ctx, 1, 7, "tok-1")
	assert.ErrorIs(t, err, ErrDuplicateReservation)
	env.uowFactory.AssertNumberOfCalls(t, "Create", 1)
}

func TestJoinCourse_TokenReleasedAfterFailure(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	env.catalogRepo.On("GetCourse", ctx, int64(404)).Return(nil, nil)

	_, err := env.svc.JoinCourse(ctx, 1, 404, "tok-2")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	// The failed attempt must not burn the token
	_, err = env.svc.JoinCourse(ctx, 1, 404, "tok-2")
	assert.ErrorIs(t, err, ErrResourceNotFound)
	env.uowFactory.AssertNumberOfCalls(t, "Create", 2)
}

func TestJoinSession_BooksAndPaysHost(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	session := &models.LiveSession{ID: 3, HostID: 2, Title: "Office hours", CreditCost: 2}
	env.catalogRepo.On("GetSession", ctx, int64(3)).Return(session, nil)
	env.enrollmentRepo.On("TryReserveSession", ctx, int64(1), int64(3), int64(2)).Return(true, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(1)).Return(&models.Account{UserID: 1, Balance: 100}, nil)
	env.accountRepo.On("GetByUserID", ctx, int64(2)).Return(&models.Account{UserID: 2, Balance: 0}, nil)
	env.accountRepo.On("DeductBalance", ctx, int64(1), int64(2)).Return(nil)
	env.accountRepo.On("AddBalance", ctx, int64(2), int64(2)).Return(nil)
	env.ledgerRepo.On("Record", ctx, mock.AnythingOfType("*models.LedgerEntry")).Return(nil)

	result, err := env.svc.JoinSession(ctx, 1, 3, "")
	require.NoError(t, err)
	assert.Equal(t, int64(98), result.NewBalance)
	assert.Equal(t, models.EntryTypeSessionAttend, result.PayerEntry.EntryType)
	assert.Equal(t, models.EntryTypeSessionIncome, result.PayeeEntry.EntryType)
}

func TestJoinSession_Cancelled(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	session := &models.LiveSession{ID: 3, HostID: 2, CreditCost: 2, IsCancelled: true}
	env.catalogRepo.On("GetSession", ctx, int64(3)).Return(session, nil)

	_, err := env.svc.JoinSession(ctx, 1, 3, "")
	assert.ErrorIs(t, err, ErrSessionCancelled)
	env.enrollmentRepo.AssertNotCalled(t, "TryReserveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinSession_Full(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	capacity := 5
	session := &models.LiveSession{ID: 3, HostID: 2, CreditCost: 2, MaxAttendees: &capacity, AttendeeCount: 5}
	env.catalogRepo.On("GetSession", ctx, int64(3)).Return(session, nil)

	_, err := env.svc.JoinSession(ctx, 1, 3, "")
	assert.ErrorIs(t, err, ErrSessionFull)
}

func TestCancelSession_OnlyHostMayCancel(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	session := &models.LiveSession{ID: 3, HostID: 2, CreditCost: 2}
	env.catalogRepo.On("GetSession", ctx, int64(3)).Return(session, nil)

	err := env.svc.CancelSession(ctx, 99, 3)
	assert.ErrorIs(t, err, ErrNotSessionHost)
	env.catalogRepo.AssertNotCalled(t, "CancelSession", mock.Anything, mock.Anything)
}

func TestCancelSession_Success(t *testing.T) {
	env := setupMarketTest(t)
	ctx := context.Background()

	session := &models.LiveSession{ID: 3, HostID: 2, CreditCost: 2}
	env.catalogRepo.On("GetSession", ctx, int64(3)).Return(session, nil)
	env.catalogRepo.On("CancelSession", ctx, int64(3)).Return(nil)

	err := env.svc.CancelSession(ctx, 2, 3)
	require.NoError(t, err)
	env.uow.AssertCalled(t, "Commit")
}

func TestCreateCourse_RequiresTeacherRole(t *testing.T) {
	env := setupMarketTest(t)

	_, err := env.svc.CreateCourse(context.Background(), 1, false, "Go from scratch", "", 10, "4 weeks")
	assert.ErrorIs(t, err, ErrNotTeacher)
}

func TestCreateCourse_RequiresPositivePrice(t *testing.T) {
	env := setupMarketTest(t)

	_, err := env.svc.CreateCourse(context.Background(), 1, true, "Go from scratch", "", 0, "4 weeks")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestHostSession_RequiresPositiveCost(t *testing.T) {
	env := setupMarketTest(t)

	_, err := env.svc.HostSession(context.Background(), 1, true, "Office hours", "", time.Now().Add(time.Hour), 60, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateCourse_RejectsBlankTitle(t *testing.T) {
	env := setupMarketTest(t)

	_, err := env.svc.CreateCourse(context.Background(), 1, true, "   ", "", 10, "4 weeks")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	env.catalogRepo.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything)
}

func TestHostSession_RejectsNonPositiveCapacity(t *testing.T) {
	env := setupMarketTest(t)

	capacity := 0
	_, err := env.svc.HostSession(context.Background(), 1, true, "Office hours", "", time.Now().Add(time.Hour), 60, 5, &capacity)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}
