package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/adapter/memory"
	"github.com/YelzhanWeb/quick-order/internal/app/history"
	"github.com/YelzhanWeb/quick-order/internal/domain"
)

func newTestStore(t *testing.T) *history.Store {
	t.Helper()

	store := history.NewStore(memory.New(), nil, logger.New("test"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, store.Start(ctx))

	return store
}

func entryStatus(store *history.Store, id string) domain.Status {
	list, err := store.List(context.Background())
	if err != nil {
		return ""
	}
	for _, entry := range list {
		if entry.ID == id {
			return entry.Status
		}
	}
	return ""
}

func TestScheduler_AdvancesStatusesOverTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Record(ctx, domain.HistoryEntry{
		ID:        "ticking",
		Order:     domain.DraftOrder{Item: "Pizza", Quantity: 1},
		Total:     12.99,
		CreatedAt: time.Now(),
		Status:    domain.StatusConfirmed,
	})
	require.NoError(t, err)

	s := New(store, logger.New("test"), 20*time.Millisecond)
	s.Start(ctx)
	defer s.Stop()

	// Two ticks take confirmed through preparing to delivered
	require.Eventually(t, func() bool {
		return entryStatus(store, "ticking") == domain.StatusDelivered
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_NoTicksAfterStop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	s := New(store, logger.New("test"), 20*time.Millisecond)
	s.Start(ctx)
	s.Stop()

	_, err := store.Record(ctx, domain.HistoryEntry{
		ID:        "frozen",
		Order:     domain.DraftOrder{Item: "Pizza", Quantity: 1},
		Total:     12.99,
		CreatedAt: time.Now(),
		Status:    domain.StatusConfirmed,
	})
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, domain.StatusConfirmed, entryStatus(store, "frozen"))
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	s := New(store, logger.New("test"), 20*time.Millisecond)
	s.Start(context.Background())

	s.Stop()
	s.Stop()
}
