package events

import (
	"context"
	"sync"

	"credmarket/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChanged EventType = "balance_changed"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeVoteCast       EventType = "vote_cast"
	EventTypeReportFiled    EventType = "report_filed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangedEvent represents a committed balance change
type BalanceChangedEvent struct {
	UserID     int64
	OldBalance int64
	NewBalance int64
	EntryType  models.EntryType
	Amount     int64
}

func (e BalanceChangedEvent) Type() EventType {
	return EventTypeBalanceChanged
}

// AccountCreatedEvent represents a newly created credit account
type AccountCreatedEvent struct {
	UserID          int64
	StartingBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// VoteCastEvent represents a committed vote mutation
type VoteCastEvent struct {
	UserID int64
	Target models.TargetRef
	Status models.VoteStatus
	Score  int64
}

func (e VoteCastEvent) Type() EventType {
	return EventTypeVoteCast
}

// ReportFiledEvent represents a new moderation report
type ReportFiledEvent struct {
	ReportID  int64
	CreatedBy int64
	Target    models.TargetRef
}

func (e ReportFiledEvent) Type() EventType {
	return EventTypeReportFiled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events are processed independently of the transaction lifecycle,
	// so don't inherit a possibly-expired transaction context.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after a rollback to drop any staged events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
