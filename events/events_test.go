package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	bus.Subscribe(EventTypeBalanceChanged, func(_ context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	bus.Emit(context.Background(), BalanceChangedEvent{UserID: 1, NewBalance: 70})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestBus_OnlyMatchingTypeDelivered(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var votes int
	bus.Subscribe(EventTypeVoteCast, func(_ context.Context, _ Event) {
		mu.Lock()
		defer mu.Unlock()
		votes++
	})

	bus.Emit(context.Background(), BalanceChangedEvent{UserID: 1})
	bus.Emit(context.Background(), ReportFiledEvent{ReportID: 1})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, votes)
}

func TestBus_PanickingHandlerDoesNotCrash(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(EventTypeVoteCast, func(_ context.Context, _ Event) {
		panic("handler bug")
	})

	var mu sync.Mutex
	var ok bool
	bus.Subscribe(EventTypeVoteCast, func(_ context.Context, _ Event) {
		mu.Lock()
		defer mu.Unlock()
		ok = true
	})

	bus.Emit(context.Background(), VoteCastEvent{UserID: 1})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestTransactionalBus_HoldsUntilFlush(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	bus.Subscribe(EventTypeBalanceChanged, func(_ context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(BalanceChangedEvent{UserID: 1})
	txBus.Publish(BalanceChangedEvent{UserID: 2})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	require.Empty(t, received)
	mu.Unlock()

	txBus.Flush(context.Background())

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var received []Event
	bus.Subscribe(EventTypeBalanceChanged, func(_ context.Context, e Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(BalanceChangedEvent{UserID: 1})
	txBus.Discard()
	txBus.Flush(context.Background())

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, received)
}
