package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credmarket/events"
	"credmarket/models"

	log "github.com/sirupsen/logrus"
)

// ledgerService implements the LedgerService interface
type ledgerService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance int64
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, startingBalance int64) LedgerService {
	return &ledgerService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

// CreateAccount creates the credit account for a new user with the
// starting balance and an initial ledger entry. Idempotent per user.
//
// Two concurrent calls for the same user race on the accounts key.
// Postgres aborts the losing transaction, so the loser retries once and
// returns the winner's row.
func (s *ledgerService) CreateAccount(ctx context.Context, userID int64) (*models.Account, error) {
	account, err := s.createAccountOnce(ctx, userID)
	if errors.Is(err, ErrAccountConflict) {
		log.WithField("userID", userID).Debug("Account insert lost a race, retrying")
		account, err = s.createAccountOnce(ctx, userID)
	}
	return account, err
}

func (s *ledgerService) createAccountOnce(ctx context.Context, userID int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check account: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	account, err := uow.AccountRepository().Create(ctx, userID, s.startingBalance)
	if err != nil {
		return nil, err
	}

	if s.startingBalance > 0 {
		entry := &models.LedgerEntry{
			UserID:        userID,
			Amount:        s.startingBalance,
			BalanceBefore: 0,
			BalanceAfter:  s.startingBalance,
			EntryType:     models.EntryTypeInitial,
			Description:   "Welcome credits",
		}
		if err := recordEntry(ctx, uow, entry); err != nil {
			return nil, fmt.Errorf("failed to record initial entry: %w", err)
		}
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		UserID:          userID,
		StartingBalance: s.startingBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":  userID,
		"balance": account.Balance,
	}).Info("Created credit account")

	return account, nil
}

// GetBalance returns the current balance for a user
func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return 0, fmt.Errorf("user %d: %w", userID, ErrAccountNotFound)
	}

	return account.Balance, nil
}

// Transfer atomically moves credits from payer to payee
func (s *ledgerService) Transfer(ctx context.Context, payerID, payeeID, amount int64, description string, relatedType *models.ResourceType, relatedID *int64) (*models.TransferResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	result, err := transferLegs(ctx, uow,
		payerID, payeeID, amount,
		models.EntryTypeTransferOut, models.EntryTypeTransferIn,
		description, relatedType, relatedID,
	)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"payerID": payerID,
		"payeeID": payeeID,
		"amount":  amount,
	}).Info("Transferred credits")

	return result, nil
}

// ListHistory returns ledger entries for a user, newest first
func (s *ledgerService) ListHistory(ctx context.Context, userID int64, since *time.Time, limit int) ([]*models.LedgerEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrAccountNotFound)
	}

	entries, err := uow.LedgerRepository().ListByUser(ctx, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, nil
}

// Summary returns the earned/spent wallet breakdown for a user
func (s *ledgerService) Summary(ctx context.Context, userID int64) (*models.WalletSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrAccountNotFound)
	}

	now := time.Now()
	summary, err := uow.LedgerRepository().Summarize(ctx, userID, startOfDay(now), startOfWeek(now))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger: %w", err)
	}
	summary.Balance = account.Balance

	return summary, nil
}
