package service

import (
	"context"
	"fmt"

	"credmarket/events"
	"credmarket/models"
)

// recordEntry writes a ledger entry inside the unit of work and stages a
// balance-changed event that fires only if the transaction commits.
func recordEntry(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	if err := uow.LedgerRepository().Record(ctx, entry); err != nil {
		return err
	}

	uow.EventBus().Publish(events.BalanceChangedEvent{
		UserID:     entry.UserID,
		OldBalance: entry.BalanceBefore,
		NewBalance: entry.BalanceAfter,
		EntryType:  entry.EntryType,
		Amount:     entry.Amount,
	})

	return nil
}

// transferLegs moves amount credits from payer to payee inside an already
// open unit of work, producing one ledger entry per party. Callers pick
// the entry types so a course enrollment and a plain transfer read
// differently in history. Does not commit.
func transferLegs(
	ctx context.Context,
	uow UnitOfWork,
	payerID, payeeID, amount int64,
	payerType, payeeType models.EntryType,
	description string,
	relatedType *models.ResourceType,
	relatedID *int64,
) (*models.TransferResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if payerID == payeeID {
		return nil, ErrSelfTransfer
	}

	accountRepo := uow.AccountRepository()

	payer, err := accountRepo.GetByUserID(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payer account: %w", err)
	}
	if payer == nil {
		return nil, fmt.Errorf("payer %d: %w", payerID, ErrAccountNotFound)
	}

	payee, err := accountRepo.GetByUserID(ctx, payeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payee account: %w", err)
	}
	if payee == nil {
		return nil, fmt.Errorf("payee %d: %w", payeeID, ErrAccountNotFound)
	}

	if payer.Balance < amount {
		return nil, fmt.Errorf("have %d, need %d: %w", payer.Balance, amount, ErrInsufficientFunds)
	}

	if err := accountRepo.DeductBalance(ctx, payerID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct from payer: %w", err)
	}
	if err := accountRepo.AddBalance(ctx, payeeID, amount); err != nil {
		return nil, fmt.Errorf("failed to credit payee: %w", err)
	}

	metadata := map[string]any{
		"payer_id": payerID,
		"payee_id": payeeID,
	}

	payerEntry := &models.LedgerEntry{
		UserID:        payerID,
		Amount:        -amount,
		BalanceBefore: payer.Balance,
		BalanceAfter:  payer.Balance - amount,
		EntryType:     payerType,
		Description:   description,
		Metadata:      metadata,
		RelatedID:     relatedID,
		RelatedType:   relatedType,
	}
	if err := recordEntry(ctx, uow, payerEntry); err != nil {
		return nil, fmt.Errorf("failed to record payer entry: %w", err)
	}

	payeeEntry := &models.LedgerEntry{
		UserID:        payeeID,
		Amount:        amount,
		BalanceBefore: payee.Balance,
		BalanceAfter:  payee.Balance + amount,
		EntryType:     payeeType,
		Description:   description,
		Metadata:      metadata,
		RelatedID:     relatedID,
		RelatedType:   relatedType,
	}
	if err := recordEntry(ctx, uow, payeeEntry); err != nil {
		return nil, fmt.Errorf("failed to record payee entry: %w", err)
	}

	return &models.TransferResult{
		Amount:     amount,
		PayerEntry: payerEntry,
		PayeeEntry: payeeEntry,
		NewBalance: payerEntry.BalanceAfter,
	}, nil
}
