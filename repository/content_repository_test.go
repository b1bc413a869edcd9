package repository

import (
	"context"
	"testing"

	"credmarket/models"
	"credmarket/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepository_ThreadScoreAggregation(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	contentRepo := NewContentRepository(testDB.DB)
	voteRepo := NewVoteRepository(testDB.DB)
	ctx := context.Background()

	thread := testDB.SeedThread(t, 1, "Scored thread")

	for _, v := range []*models.Vote{
		{UserID: 1, TargetType: models.TargetTypeThread, TargetID: thread.ID, Value: models.Upvote},
		{UserID: 2, TargetType: models.TargetTypeThread, TargetID: thread.ID, Value: models.Upvote},
		{UserID: 3, TargetType: models.TargetTypeThread, TargetID: thread.ID, Value: models.Downvote},
	} {
		require.NoError(t, voteRepo.Insert(ctx, v))
	}

	fetched, err := contentRepo.GetThread(ctx, thread.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, int64(1), fetched.Score)
}

func TestContentRepository_ListThreadsTopOrder(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	contentRepo := NewContentRepository(testDB.DB)
	voteRepo := NewVoteRepository(testDB.DB)
	ctx := context.Background()

	low := testDB.SeedThread(t, 1, "Low score")
	high := testDB.SeedThread(t, 1, "High score")

	require.NoError(t, voteRepo.Insert(ctx, &models.Vote{
		UserID: 2, TargetType: models.TargetTypeThread, TargetID: high.ID, Value: models.Upvote,
	}))
	require.NoError(t, voteRepo.Insert(ctx, &models.Vote{
		UserID: 2, TargetType: models.TargetTypeThread, TargetID: low.ID, Value: models.Downvote,
	}))

	threads, err := contentRepo.ListThreads(ctx, models.ThreadSortTop, 10)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, high.ID, threads[0].ID)
	assert.Equal(t, int64(1), threads[0].Score)
	assert.Equal(t, low.ID, threads[1].ID)
	assert.Equal(t, int64(-1), threads[1].Score)
}

func TestContentRepository_CommentsWithParents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	contentRepo := NewContentRepository(testDB.DB)
	ctx := context.Background()

	thread := testDB.SeedThread(t, 1, "Discussion")

	top := &models.Comment{ThreadID: thread.ID, AuthorID: 2, Content: "first"}
	require.NoError(t, contentRepo.CreateComment(ctx, top))

	reply := &models.Comment{ThreadID: thread.ID, AuthorID: 3, Content: "reply", ParentID: &top.ID}
	require.NoError(t, contentRepo.CreateComment(ctx, reply))

	comments, err := contentRepo.ListByThread(ctx, thread.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Nil(t, comments[0].ParentID)
	require.NotNil(t, comments[1].ParentID)
	assert.Equal(t, top.ID, *comments[1].ParentID)

	exists, err := contentRepo.CommentExists(ctx, top.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = contentRepo.ThreadExists(ctx, thread.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)
}
