package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdempotencyStore_ClaimAndReplay(t *testing.T) {
	store := newIdempotencyStore(time.Minute)

	assert.True(t, store.TryClaim("tok"))
	assert.False(t, store.TryClaim("tok"))
	assert.True(t, store.TryClaim("other"))
}

func TestIdempotencyStore_Release(t *testing.T) {
	store := newIdempotencyStore(time.Minute)

	assert.True(t, store.TryClaim("tok"))
	store.Release("tok")
	assert.True(t, store.TryClaim("tok"))
}

func TestIdempotencyStore_Expiry(t *testing.T) {
	store := newIdempotencyStore(time.Minute)

	now := time.Now()
	store.now = func() time.Time { return now }
	assert.True(t, store.TryClaim("tok"))

	store.now = func() time.Time { return now.Add(30 * time.Second) }
	assert.False(t, store.TryClaim("tok"))

	store.now = func() time.Time { return now.Add(61 * time.Second) }
	assert.True(t, store.TryClaim("tok"))
}

func TestStartOfWeek_MondayBased(t *testing.T) {
	// Wednesday 2025-06-18
	wed := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), startOfWeek(wed))

	// Sunday belongs to the week that started the previous Monday
	sun := time.Date(2025, 6, 22, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), startOfWeek(sun))

	// Monday is its own week start
	mon := time.Date(2025, 6, 16, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), startOfWeek(mon))
}
