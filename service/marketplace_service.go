package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"credmarket/models"

	log "github.com/sirupsen/logrus"
)

// marketplaceService implements the MarketplaceService interface. Every
// purchase runs reservation and payment in one transaction so a student
// can never hold a course they did not pay for, or pay for one twice.
type marketplaceService struct {
	uowFactory UnitOfWorkFactory
	idem       *idempotencyStore
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(uowFactory UnitOfWorkFactory, idemTTL time.Duration) MarketplaceService {
	return &marketplaceService{
		uowFactory: uowFactory,
		idem:       newIdempotencyStore(idemTTL),
	}
}

// CreateCourse publishes a course
func (s *marketplaceService) CreateCourse(ctx context.Context, teacherID int64, isTeacher bool, title, description string, price int64, duration string) (*models.Course, error) {
	if !isTeacher {
		return nil, ErrNotTeacher
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("course title: %w", ErrEmptyTitle)
	}
	if price <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	course := &models.Course{
		TeacherID:   teacherID,
		Title:       title,
		Description: description,
		Price:       price,
		Duration:    duration,
	}
	if err := uow.CatalogRepository().CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"courseID":  course.ID,
		"teacherID": teacherID,
		"price":     price,
	}).Info("Published course")

	return course, nil
}

// JoinCourse enrolls a student in a course, paying the price to its
// teacher. The enrollment row doubles as the double-charge guard: if it
// already exists no credits move.
func (s *marketplaceService) JoinCourse(ctx context.Context, studentID, courseID int64, idemKey string) (result *models.TransferResult, err error) {
	if idemKey != "" {
		if !s.idem.TryClaim(idemKey) {
			return nil, fmt.Errorf("purchase token already used: %w", ErrDuplicateReservation)
		}
		defer func() {
			if err != nil {
				s.idem.Release(idemKey)
			}
		}()
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	course, err := uow.CatalogRepository().GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, fmt.Errorf("course %d: %w", courseID, ErrResourceNotFound)
	}
	if studentID == course.TeacherID {
		return nil, fmt.Errorf("cannot enroll in own course: %w", ErrSelfTransfer)
	}

	reserved, err := uow.EnrollmentRepository().TryReserveCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve enrollment: %w", err)
	}
	if !reserved {
		return nil, fmt.Errorf("already enrolled in course %d: %w", courseID, ErrDuplicateReservation)
	}

	result, err = transferLegs(ctx, uow,
		studentID, course.TeacherID, course.Price,
		models.EntryTypeCourseEnroll, models.EntryTypeCourseIncome,
		fmt.Sprintf("Enrollment in %q", course.Title),
		resourceRef(models.ResourceTypeCourse), &course.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"studentID": studentID,
		"courseID":  courseID,
		"price":     course.Price,
	}).Info("Enrolled student in course")

	return result, nil
}

// ListCourses returns the newest courses
func (s *marketplaceService) ListCourses(ctx context.Context, limit int) ([]*models.Course, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.CatalogRepository().ListCourses(ctx, limit)
}

// HostSession schedules a live session
func (s *marketplaceService) HostSession(ctx context.Context, hostID int64, isTeacher bool, title, description string, scheduledAt time.Time, durationMinutes int, creditCost int64, maxAttendees *int) (*models.LiveSession, error) {
	if !isTeacher {
		return nil, ErrNotTeacher
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("session title: %w", ErrEmptyTitle)
	}
	if creditCost <= 0 {
		return nil, ErrInvalidAmount
	}
	if maxAttendees != nil && *maxAttendees <= 0 {
		return nil, ErrInvalidCapacity
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session := &models.LiveSession{
		HostID:          hostID,
		Title:           title,
		Description:     description,
		ScheduledAt:     scheduledAt,
		DurationMinutes: durationMinutes,
		CreditCost:      creditCost,
		MaxAttendees:    maxAttendees,
	}
	if err := uow.CatalogRepository().CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": session.ID,
		"hostID":    hostID,
		"cost":      creditCost,
	}).Info("Scheduled live session")

	return session, nil
}

// JoinSession books attendance at a live session, paying the credit cost
// to the host
func (s *marketplaceService) JoinSession(ctx context.Context, attendeeID, sessionID int64, idemKey string) (result *models.TransferResult, err error) {
	if idemKey != "" {
		if !s.idem.TryClaim(idemKey) {
			return nil, fmt.Errorf("purchase token already used: %w", ErrDuplicateReservation)
		}
		defer func() {
			if err != nil {
				s.idem.Release(idemKey)
			}
		}()
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.CatalogRepository().GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrResourceNotFound)
	}
	if session.IsCancelled {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrSessionCancelled)
	}
	if attendeeID == session.HostID {
		return nil, fmt.Errorf("cannot join own session: %w", ErrSelfTransfer)
	}
	if session.MaxAttendees != nil && session.AttendeeCount >= *session.MaxAttendees {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrSessionFull)
	}

	reserved, err := uow.EnrollmentRepository().TryReserveSession(ctx, attendeeID, sessionID, session.CreditCost)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve attendance: %w", err)
	}
	if !reserved {
		return nil, fmt.Errorf("already booked session %d: %w", sessionID, ErrDuplicateReservation)
	}

	result, err = transferLegs(ctx, uow,
		attendeeID, session.HostID, session.CreditCost,
		models.EntryTypeSessionAttend, models.EntryTypeSessionIncome,
		fmt.Sprintf("Attendance at %q", session.Title),
		resourceRef(models.ResourceTypeSession), &session.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"attendeeID": attendeeID,
		"sessionID":  sessionID,
		"cost":       session.CreditCost,
	}).Info("Booked session attendance")

	return result, nil
}

// CancelSession flags a session as cancelled. Only the host may cancel.
// Already-paid attendance stays on the ledger; refunds are a manual
// operation outside this service.
func (s *marketplaceService) CancelSession(ctx context.Context, hostID, sessionID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.CatalogRepository().GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session %d: %w", sessionID, ErrResourceNotFound)
	}
	if session.HostID != hostID {
		return fmt.Errorf("user %d: %w", hostID, ErrNotSessionHost)
	}

	if err := uow.CatalogRepository().CancelSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to cancel session: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": sessionID,
		"hostID":    hostID,
	}).Info("Cancelled live session")

	return nil
}

// ListSessions returns upcoming, non-cancelled sessions
func (s *marketplaceService) ListSessions(ctx context.Context, limit int) ([]*models.LiveSession, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.CatalogRepository().ListSessions(ctx, limit)
}

func resourceRef(rt models.ResourceType) *models.ResourceType {
	return &rt
}
