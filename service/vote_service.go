package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"credmarket/events"
	"credmarket/models"

	log "github.com/sirupsen/logrus"
)

// targetResolver checks that a vote/report target exists. New votable
// types only need an entry here; the vote and report tables are already
// polymorphic over (target_type, target_id).
type targetResolver func(ctx context.Context, content ContentRepository, id int64) (bool, error)

var targetResolvers = map[models.TargetType]targetResolver{
	models.TargetTypeThread: func(ctx context.Context, content ContentRepository, id int64) (bool, error) {
		return content.ThreadExists(ctx, id)
	},
	models.TargetTypeComment: func(ctx context.Context, content ContentRepository, id int64) (bool, error) {
		return content.CommentExists(ctx, id)
	},
}

// voteService implements the VoteService interface
type voteService struct {
	uowFactory UnitOfWorkFactory
}

// NewVoteService creates a new vote service
func NewVoteService(uowFactory UnitOfWorkFactory) VoteService {
	return &voteService{uowFactory: uowFactory}
}

// CastVote applies toggle semantics to the caller's vote on a target:
// no existing vote inserts one, a repeat in the same direction removes
// it, and the opposite direction flips it in place. Returns the
// recomputed score.
//
// Two concurrent first votes race on the unique (user, target) key.
// Postgres aborts the losing transaction, so the loser retries once from
// scratch and lands on the update/toggle path.
func (s *voteService) CastVote(ctx context.Context, userID int64, target models.TargetRef, value int16) (*models.VoteResult, error) {
	if value != models.Upvote && value != models.Downvote {
		return nil, ErrInvalidValue
	}
	resolver, ok := targetResolvers[target.Type]
	if !ok {
		return nil, fmt.Errorf("%q: %w", target.Type, ErrInvalidTargetType)
	}

	result, err := s.castVoteOnce(ctx, userID, target, value, resolver)
	if errors.Is(err, ErrVoteConflict) {
		log.WithFields(log.Fields{
			"userID":     userID,
			"targetType": target.Type,
			"targetID":   target.ID,
		}).Debug("Vote insert lost a race, retrying")
		result, err = s.castVoteOnce(ctx, userID, target, value, resolver)
	}
	return result, err
}

func (s *voteService) castVoteOnce(ctx context.Context, userID int64, target models.TargetRef, value int16, resolver targetResolver) (*models.VoteResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	exists, err := resolver(ctx, uow.ContentRepository(), target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%s %d: %w", target.Type, target.ID, ErrTargetNotFound)
	}

	voteRepo := uow.VoteRepository()

	existing, err := voteRepo.GetByVoter(ctx, userID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing vote: %w", err)
	}

	var status models.VoteStatus
	switch {
	case existing == nil:
		vote := &models.Vote{
			UserID:     userID,
			TargetType: target.Type,
			TargetID:   target.ID,
			Value:      value,
		}
		if err := voteRepo.Insert(ctx, vote); err != nil {
			return nil, err
		}
		status = models.VoteApplied

	case existing.Value == value:
		if err := voteRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		status = models.VoteToggledOff

	default:
		if err := voteRepo.UpdateValue(ctx, existing.ID, value); err != nil {
			return nil, err
		}
		status = models.VoteChanged
	}

	score, err := voteRepo.Score(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to compute score: %w", err)
	}

	uow.EventBus().Publish(events.VoteCastEvent{
		UserID: userID,
		Target: target,
		Status: status,
		Score:  score,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.VoteResult{Status: status, Score: score}, nil
}

// GetScore returns the derived score for a target
func (s *voteService) GetScore(ctx context.Context, target models.TargetRef) (int64, error) {
	resolver, ok := targetResolvers[target.Type]
	if !ok {
		return 0, fmt.Errorf("%q: %w", target.Type, ErrInvalidTargetType)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	exists, err := resolver(ctx, uow.ContentRepository(), target.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve target: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%s %d: %w", target.Type, target.ID, ErrTargetNotFound)
	}

	return uow.VoteRepository().Score(ctx, target)
}

// FileReport records a moderation report against a target. Unlike votes
// there is no per-user cap; every call inserts a row.
func (s *voteService) FileReport(ctx context.Context, userID int64, target models.TargetRef, reason string) (*models.Report, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}
	resolver, ok := targetResolvers[target.Type]
	if !ok {
		return nil, fmt.Errorf("%q: %w", target.Type, ErrInvalidTargetType)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	exists, err := resolver(ctx, uow.ContentRepository(), target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%s %d: %w", target.Type, target.ID, ErrTargetNotFound)
	}

	report := &models.Report{
		CreatedBy:  userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		Reason:     reason,
	}
	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	uow.EventBus().Publish(events.ReportFiledEvent{
		ReportID:  report.ID,
		CreatedBy: userID,
		Target:    target,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"reportID":   report.ID,
		"targetType": target.Type,
		"targetID":   target.ID,
	}).Info("Filed moderation report")

	return report, nil
}
