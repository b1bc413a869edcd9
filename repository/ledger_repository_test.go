package repository

import (
	"context"
	"testing"
	"time"

	"credmarket/models"
	"credmarket/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_RecordAndList(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	testDB.SeedAccount(t, 1, 100)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	courseID := int64(7)
	courseType := models.ResourceTypeCourse
	entry := &models.LedgerEntry{
		UserID:        1,
		Amount:        -30,
		BalanceBefore: 100,
		BalanceAfter:  70,
		EntryType:     models.EntryTypeCourseEnroll,
		Description:   "Enrollment",
		Metadata:      map[string]any{"payer_id": float64(1)},
		RelatedID:     &courseID,
		RelatedType:   &courseType,
	}
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotZero(t, entry.ID)

	second := &models.LedgerEntry{
		UserID:        1,
		Amount:        10,
		BalanceBefore: 70,
		BalanceAfter:  80,
		EntryType:     models.EntryTypeTransferIn,
	}
	require.NoError(t, repo.Record(ctx, second))

	entries, err := repo.ListByUser(ctx, 1, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, entry.ID, entries[1].ID)
	assert.Equal(t, models.EntryTypeCourseEnroll, entries[1].EntryType)
	require.NotNil(t, entries[1].RelatedID)
	assert.Equal(t, courseID, *entries[1].RelatedID)
	assert.Equal(t, map[string]any{"payer_id": float64(1)}, entries[1].Metadata)
}

func TestLedgerRepository_ListSinceFilters(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	testDB.SeedAccount(t, 1, 100)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, &models.LedgerEntry{
		UserID: 1, Amount: 100, BalanceAfter: 100, EntryType: models.EntryTypeInitial,
	}))

	future := time.Now().Add(time.Hour)
	entries, err := repo.ListByUser(ctx, 1, &future, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)

	past := time.Now().Add(-time.Hour)
	entries, err = repo.ListByUser(ctx, 1, &past, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedgerRepository_Summarize(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	testDB.SeedAccount(t, 1, 100)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	for _, e := range []*models.LedgerEntry{
		{UserID: 1, Amount: 100, BalanceAfter: 100, EntryType: models.EntryTypeInitial},
		{UserID: 1, Amount: -30, BalanceBefore: 100, BalanceAfter: 70, EntryType: models.EntryTypeCourseEnroll},
		{UserID: 1, Amount: 5, BalanceBefore: 70, BalanceAfter: 75, EntryType: models.EntryTypeSessionIncome},
	} {
		require.NoError(t, repo.Record(ctx, e))
	}

	dayStart := time.Now().Add(-time.Hour)
	weekStart := time.Now().Add(-24 * time.Hour)
	summary, err := repo.Summarize(ctx, 1, dayStart, weekStart)
	require.NoError(t, err)

	assert.Equal(t, int64(105), summary.EarnedToday)
	assert.Equal(t, int64(30), summary.SpentToday)
	assert.Equal(t, int64(105), summary.EarnedTotal)
	assert.Equal(t, int64(30), summary.SpentTotal)
}
