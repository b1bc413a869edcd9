package service

import (
	"context"
	"fmt"
	"strings"

	"credmarket/models"
)

// contentService implements the ContentService interface
type contentService struct {
	uowFactory UnitOfWorkFactory
}

// NewContentService creates a new content service
func NewContentService(uowFactory UnitOfWorkFactory) ContentService {
	return &contentService{uowFactory: uowFactory}
}

// CreateThread creates a new discussion thread
func (s *contentService) CreateThread(ctx context.Context, authorID int64, title, content string) (*models.Thread, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("thread title: %w", ErrEmptyTitle)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	thread := &models.Thread{
		AuthorID: authorID,
		Title:    title,
		Content:  content,
	}
	if err := uow.ContentRepository().CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return thread, nil
}

// CreateComment creates a comment on a thread. A non-nil parentID must
// point at a comment on the same thread.
func (s *contentService) CreateComment(ctx context.Context, authorID, threadID int64, content string, parentID *int64) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("comment content: %w", ErrEmptyContent)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	contentRepo := uow.ContentRepository()

	exists, err := contentRepo.ThreadExists(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to check thread: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("thread %d: %w", threadID, ErrResourceNotFound)
	}

	if parentID != nil {
		parent, err := contentRepo.GetComment(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent comment: %w", err)
		}
		if parent == nil || parent.ThreadID != threadID {
			return nil, fmt.Errorf("parent comment %d: %w", *parentID, ErrResourceNotFound)
		}
	}

	comment := &models.Comment{
		ThreadID: threadID,
		AuthorID: authorID,
		Content:  content,
		ParentID: parentID,
	}
	if err := contentRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return comment, nil
}

// ListThreads returns threads ordered by creation time or score
func (s *contentService) ListThreads(ctx context.Context, sort models.ThreadSort, limit int) ([]*models.Thread, error) {
	if sort != models.ThreadSortNew && sort != models.ThreadSortTop {
		sort = models.ThreadSortNew
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ContentRepository().ListThreads(ctx, sort, limit)
}

// GetThread returns a thread and its comments, all with scores
func (s *contentService) GetThread(ctx context.Context, threadID int64) (*models.Thread, []*models.Comment, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	contentRepo := uow.ContentRepository()

	thread, err := contentRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get thread: %w", err)
	}
	if thread == nil {
		return nil, nil, fmt.Errorf("thread %d: %w", threadID, ErrResourceNotFound)
	}

	comments, err := contentRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return thread, comments, nil
}
