package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"credmarket/events"
	"credmarket/models"
	"credmarket/repository/testutil"
	"credmarket/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Same-key writes must serialize on the enrollment primary key, the vote
// unique index and the accounts key no matter how requests interleave.
// These scenarios drive the real services against one shared container,
// with Truncate resetting the data in between.
func TestConcurrentSameKeyOperations(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	bus := events.NewBus()
	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	ctx := context.Background()

	t.Run("DoubleClickBuysCourseOnce", func(t *testing.T) {
		testDB.SeedAccount(t, 1, 0)   // teacher
		testDB.SeedAccount(t, 2, 100) // student
		course := testDB.SeedCourse(t, 1, 30)

		svc := service.NewMarketplaceService(factory, time.Minute)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.JoinCourse(ctx, 2, course.ID, "")
			}(i)
		}
		wg.Wait()

		var failed []error
		for _, err := range errs {
			if err != nil {
				failed = append(failed, err)
			}
		}
		require.Len(t, failed, 1, "exactly one join should lose the reservation")
		assert.ErrorIs(t, failed[0], service.ErrDuplicateReservation)

		accountRepo := NewAccountRepository(testDB.DB)
		student, err := accountRepo.GetByUserID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(70), student.Balance)

		teacher, err := accountRepo.GetByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(30), teacher.Balance)

		// The loser left no ledger trace
		entries, err := NewLedgerRepository(testDB.DB).ListByUser(ctx, 2, nil, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(-30), entries[0].Amount)

		var enrollments int
		require.NoError(t, testDB.DB.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM enrollments WHERE user_id = $1 AND course_id = $2`,
			int64(2), course.ID).Scan(&enrollments))
		assert.Equal(t, 1, enrollments)
	})

	testDB.Truncate(t, "ledger_entries", "enrollments", "courses", "accounts")

	t.Run("FirstVotesRaceOnUniqueKey", func(t *testing.T) {
		thread := testDB.SeedThread(t, 1, "Race me")
		target := models.TargetRef{Type: models.TargetTypeThread, ID: thread.ID}

		svc := service.NewVoteService(factory)

		var wg sync.WaitGroup
		results := make([]*models.VoteResult, 2)
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = svc.CastVote(ctx, 7, target, models.Upvote)
			}(i)
		}
		wg.Wait()

		// The loser retries onto the toggle path, so the pair behaves
		// like two sequential presses of the same button
		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		statuses := map[models.VoteStatus]int{}
		for _, r := range results {
			statuses[r.Status]++
		}
		assert.Equal(t, 1, statuses[models.VoteApplied])
		assert.Equal(t, 1, statuses[models.VoteToggledOff])

		voteRepo := NewVoteRepository(testDB.DB)
		vote, err := voteRepo.GetByVoter(ctx, 7, target)
		require.NoError(t, err)
		assert.Nil(t, vote)

		score, err := voteRepo.Score(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, int64(0), score)
	})

	testDB.Truncate(t, "votes", "threads")

	t.Run("SimultaneousRegistrationsCreateOneAccount", func(t *testing.T) {
		svc := service.NewLedgerService(factory, 100)

		var wg sync.WaitGroup
		accounts := make([]*models.Account, 2)
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				accounts[i], errs[i] = svc.CreateAccount(ctx, 42)
			}(i)
		}
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		assert.Equal(t, int64(100), accounts[0].Balance)
		assert.Equal(t, int64(100), accounts[1].Balance)

		// One welcome grant, not two
		entries, err := NewLedgerRepository(testDB.DB).ListByUser(ctx, 42, nil, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryTypeInitial, entries[0].EntryType)
	})
}
