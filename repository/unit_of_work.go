package repository

import (
	"context"
	"fmt"

	"credmarket/database"
	"credmarket/events"
	"credmarket/service"

	"github.com/jackc/pgx/v5"
)

// UnitOfWork provides transactional access to all repositories. Every
// repository handed out shares one pgx transaction, and events published
// through EventBus() only reach subscribers after Commit.
type UnitOfWork struct {
	db  *database.DB
	bus *events.Bus

	tx    pgx.Tx
	txBus *events.TransactionalBus
	ctx   context.Context

	accountRepo    *AccountRepository
	ledgerRepo     *LedgerRepository
	catalogRepo    *CatalogRepository
	enrollmentRepo *EnrollmentRepository
	contentRepo    *ContentRepository
	voteRepo       *VoteRepository
	reportRepo     *ReportRepository
}

// NewUnitOfWork creates a new unit of work
func NewUnitOfWork(db *database.DB, bus *events.Bus) *UnitOfWork {
	return &UnitOfWork{db: db, bus: bus}
}

// Begin starts a new transaction and binds all repositories to it
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.txBus = events.NewTransactionalBus(u.bus)

	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerRepo = newLedgerRepositoryWithTx(tx)
	u.catalogRepo = newCatalogRepositoryWithTx(tx)
	u.enrollmentRepo = newEnrollmentRepositoryWithTx(tx)
	u.contentRepo = newContentRepositoryWithTx(tx)
	u.voteRepo = newVoteRepositoryWithTx(tx)
	u.reportRepo = newReportRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes staged events
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.txBus.Flush(u.ctx)
	u.cleanup()
	return nil
}

// Rollback rolls back the transaction and discards staged events.
// Safe to call after Commit, so callers can defer it.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.txBus.Discard()
	u.cleanup()

	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *UnitOfWork) cleanup() {
	u.tx = nil
	u.ctx = nil
	u.accountRepo = nil
	u.ledgerRepo = nil
	u.catalogRepo = nil
	u.enrollmentRepo = nil
	u.contentRepo = nil
	u.voteRepo = nil
	u.reportRepo = nil
}

// AccountRepository returns the transaction-scoped account repository
func (u *UnitOfWork) AccountRepository() service.AccountRepository {
	return u.accountRepo
}

// LedgerRepository returns the transaction-scoped ledger repository
func (u *UnitOfWork) LedgerRepository() service.LedgerRepository {
	return u.ledgerRepo
}

// CatalogRepository returns the transaction-scoped catalog repository
func (u *UnitOfWork) CatalogRepository() service.CatalogRepository {
	return u.catalogRepo
}

// EnrollmentRepository returns the transaction-scoped enrollment repository
func (u *UnitOfWork) EnrollmentRepository() service.EnrollmentRepository {
	return u.enrollmentRepo
}

// ContentRepository returns the transaction-scoped content repository
func (u *UnitOfWork) ContentRepository() service.ContentRepository {
	return u.contentRepo
}

// VoteRepository returns the transaction-scoped vote repository
func (u *UnitOfWork) VoteRepository() service.VoteRepository {
	return u.voteRepo
}

// ReportRepository returns the transaction-scoped report repository
func (u *UnitOfWork) ReportRepository() service.ReportRepository {
	return u.reportRepo
}

// EventBus returns the transaction-coupled event publisher
func (u *UnitOfWork) EventBus() service.EventPublisher {
	return u.txBus
}

// UnitOfWorkFactory creates UnitOfWork instances bound to the pool and bus
type UnitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a new unit of work factory
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, bus: bus}
}

// Create returns a fresh unit of work
func (f *UnitOfWorkFactory) Create() service.UnitOfWork {
	return NewUnitOfWork(f.db, f.bus)
}
