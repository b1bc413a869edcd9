package service

import (
	"context"
	"testing"

	"credmarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupContentTest(t *testing.T) (ContentService, *MockUnitOfWork, *MockContentRepository) {
	t.Helper()

	uowFactory := new(MockUnitOfWorkFactory)
	uow := new(MockUnitOfWork)
	contentRepo := new(MockContentRepository)

	uow.SetRepositories(nil, nil, nil, nil, contentRepo, nil, nil, &MockEventPublisher{})
	uowFactory.On("Create").Return(uow)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit").Return(nil)
	uow.On("Rollback").Return(nil)

	return NewContentService(uowFactory), uow, contentRepo
}

func TestCreateThread_Success(t *testing.T) {
	svc, uow, contentRepo := setupContentTest(t)
	ctx := context.Background()

	contentRepo.On("CreateThread", ctx, mock.MatchedBy(func(th *models.Thread) bool {
		return th.AuthorID == 1 && th.Title == "Is Go worth learning?"
	})).Return(nil)

	thread, err := svc.CreateThread(ctx, 1, "Is Go worth learning?", "Asking for a friend")
	require.NoError(t, err)
	assert.Equal(t, int64(1), thread.AuthorID)
	uow.AssertCalled(t, "Commit")
}

func TestCreateThread_EmptyTitle(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)

	_, err := svc.CreateThread(context.Background(), 1, "  ", "body")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	contentRepo.AssertNotCalled(t, "CreateThread", mock.Anything, mock.Anything)
}

func TestCreateComment_BlankContent(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)

	_, err := svc.CreateComment(context.Background(), 1, 5, " \t ", nil)
	assert.ErrorIs(t, err, ErrEmptyContent)
	contentRepo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestCreateComment_ThreadMissing(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)
	ctx := context.Background()

	contentRepo.On("ThreadExists", ctx, int64(404)).Return(false, nil)

	_, err := svc.CreateComment(ctx, 1, 404, "hello", nil)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestCreateComment_ParentOnDifferentThread(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)
	ctx := context.Background()

	parentID := int64(9)
	contentRepo.On("ThreadExists", ctx, int64(5)).Return(true, nil)
	contentRepo.On("GetComment", ctx, parentID).Return(&models.Comment{ID: 9, ThreadID: 6}, nil)

	_, err := svc.CreateComment(ctx, 1, 5, "reply", &parentID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	contentRepo.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestCreateComment_ReplySuccess(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)
	ctx := context.Background()

	parentID := int64(9)
	contentRepo.On("ThreadExists", ctx, int64(5)).Return(true, nil)
	contentRepo.On("GetComment", ctx, parentID).Return(&models.Comment{ID: 9, ThreadID: 5}, nil)
	contentRepo.On("CreateComment", ctx, mock.MatchedBy(func(c *models.Comment) bool {
		return c.ThreadID == 5 && c.ParentID != nil && *c.ParentID == 9
	})).Return(nil)

	comment, err := svc.CreateComment(ctx, 1, 5, "reply", &parentID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), comment.ThreadID)
}

func TestGetThread_NotFound(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)
	ctx := context.Background()

	contentRepo.On("GetThread", ctx, int64(404)).Return(nil, nil)

	_, _, err := svc.GetThread(ctx, 404)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestListThreads_DefaultsToNewest(t *testing.T) {
	svc, _, contentRepo := setupContentTest(t)
	ctx := context.Background()

	contentRepo.On("ListThreads", ctx, models.ThreadSortNew, 20).Return([]*models.Thread{}, nil)

	_, err := svc.ListThreads(ctx, "oldest", 20)
	require.NoError(t, err)
	contentRepo.AssertCalled(t, "ListThreads", ctx, models.ThreadSortNew, 20)
}
