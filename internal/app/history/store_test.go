package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/adapter/memory"
	"github.com/YelzhanWeb/quick-order/internal/domain"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

type capturingPublisher struct {
	mu      sync.Mutex
	updates []interfaces.StatusUpdateMessage
}

func (p *capturingPublisher) PublishOrderPlaced(ctx context.Context, msg interfaces.OrderPlacedMessage) error {
	return nil
}

func (p *capturingPublisher) PublishStatusUpdate(ctx context.Context, msg interfaces.StatusUpdateMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, msg)
	return nil
}

func (p *capturingPublisher) captured() []interfaces.StatusUpdateMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interfaces.StatusUpdateMessage(nil), p.updates...)
}

func newTestStore(t *testing.T, publisher interfaces.MessagePublisher) (*Store, *memory.Store) {
	t.Helper()

	storage := memory.New()
	store := NewStore(storage, publisher, logger.New("test"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, store.Start(ctx))

	return store, storage
}

func testEntry(id string, status domain.Status) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID: id,
		Order: domain.DraftOrder{
			Item:     "Pizza",
			Quantity: 1,
			Name:     "John Doe",
			Address:  "123 Main Street, Springfield",
			Phone:    "(555) 123-4567",
		},
		Total:     12.99,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:    status,
	}
}

func TestStore_RecordPrependsNewestFirst(t *testing.T) {
	store, _ := newTestStore(t, nil)
	ctx := context.Background()

	_, err := store.Record(ctx, testEntry("first", domain.StatusConfirmed))
	require.NoError(t, err)

	list, err := store.Record(ctx, testEntry("second", domain.StatusConfirmed))
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].ID)
	assert.Equal(t, "first", list[1].ID)
}

func TestStore_RecordEvictsOldestPastLimit(t *testing.T) {
	store, _ := newTestStore(t, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := store.Record(ctx, testEntry(fmt.Sprintf("order-%d", i), domain.StatusConfirmed))
		require.NoError(t, err)
	}

	list, err := store.Record(ctx, testEntry("order-10", domain.StatusConfirmed))
	require.NoError(t, err)

	require.Len(t, list, 10)
	assert.Equal(t, "order-10", list[0].ID)
	for _, entry := range list {
		assert.NotEqual(t, "order-0", entry.ID, "oldest entry should have been evicted")
	}
}

func TestStore_WriteThroughPersistence(t *testing.T) {
	store, storage := newTestStore(t, nil)
	ctx := context.Background()

	list, err := store.Record(ctx, testEntry("persisted", domain.StatusConfirmed))
	require.NoError(t, err)

	blob, found, err := storage.Get(ctx, interfaces.HistoryKey)
	require.NoError(t, err)
	require.True(t, found)

	persisted, err := decodeHistory(blob)
	require.NoError(t, err)
	require.Len(t, persisted, len(list))
	assert.Equal(t, list[0].ID, persisted[0].ID)
	assert.Equal(t, list[0].Status, persisted[0].Status)
}

func TestStore_AdvanceAll(t *testing.T) {
	publisher := &capturingPublisher{}
	store, _ := newTestStore(t, publisher)
	ctx := context.Background()

	_, err := store.Record(ctx, testEntry("a", domain.StatusConfirmed))
	require.NoError(t, err)
	_, err = store.Record(ctx, testEntry("b", domain.StatusPreparing))
	require.NoError(t, err)
	_, err = store.Record(ctx, testEntry("c", domain.StatusDelivered))
	require.NoError(t, err)

	advanced, err := store.AdvanceAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, advanced)

	list, err := store.List(ctx)
	require.NoError(t, err)
	byID := map[string]domain.Status{}
	for _, entry := range list {
		byID[entry.ID] = entry.Status
	}

	// Each entry moves exactly one step, never two
	assert.Equal(t, domain.StatusPreparing, byID["a"])
	assert.Equal(t, domain.StatusDelivered, byID["b"])
	assert.Equal(t, domain.StatusDelivered, byID["c"])

	updates := publisher.captured()
	require.Len(t, updates, 2)
}

func TestStore_AdvanceAllIdempotentWhenAllDelivered(t *testing.T) {
	store, storage := newTestStore(t, nil)
	ctx := context.Background()

	_, err := store.Record(ctx, testEntry("done", domain.StatusDelivered))
	require.NoError(t, err)

	blobBefore, _, err := storage.Get(ctx, interfaces.HistoryKey)
	require.NoError(t, err)

	advanced, err := store.AdvanceAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, advanced)

	blobAfter, _, err := storage.Get(ctx, interfaces.HistoryKey)
	require.NoError(t, err)
	assert.Equal(t, blobBefore, blobAfter, "no persist should happen without changes")
}

func TestStore_AdvanceAllEmptyList(t *testing.T) {
	store, _ := newTestStore(t, nil)

	advanced, err := store.AdvanceAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, advanced)
}

func TestStore_Clear(t *testing.T) {
	store, storage := newTestStore(t, nil)
	ctx := context.Background()

	_, err := store.Record(ctx, testEntry("gone", domain.StatusConfirmed))
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, found, err := storage.Get(ctx, interfaces.HistoryKey)
	require.NoError(t, err)
	assert.False(t, found, "backing blob should be removed")
}

func TestStore_LoadRecoversFromCorruptBlob(t *testing.T) {
	storage := memory.New()
	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, interfaces.HistoryKey, []byte("{{{ definitely not json")))

	store := NewStore(storage, nil, logger.New("test"), 10)
	runCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	require.NoError(t, store.Start(runCtx))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_LoadPreservesPersistedEntries(t *testing.T) {
	storage := memory.New()
	ctx := context.Background()

	blob, err := encodeHistory([]domain.HistoryEntry{testEntry("kept", domain.StatusPreparing)})
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, interfaces.HistoryKey, blob))

	store := NewStore(storage, nil, logger.New("test"), 10)
	runCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	require.NoError(t, store.Start(runCtx))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].ID)
	assert.Equal(t, domain.StatusPreparing, list[0].Status)
}

// A Record racing an AdvanceAll tick: both mutate the list through the same
// owning goroutine, so the final persisted state must contain the new entry
// and the advanced status of the pre-existing one.
func TestStore_RecordAndAdvanceDoNotLoseUpdates(t *testing.T) {
	store, storage := newTestStore(t, nil)
	ctx := context.Background()

	_, err := store.Record(ctx, testEntry("existing", domain.StatusConfirmed))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := store.Record(ctx, testEntry("racing", domain.StatusConfirmed))
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := store.AdvanceAll(ctx)
		assert.NoError(t, err)
	}()
	wg.Wait()

	blob, found, err := storage.Get(ctx, interfaces.HistoryKey)
	require.NoError(t, err)
	require.True(t, found)

	persisted, err := decodeHistory(blob)
	require.NoError(t, err)
	require.Len(t, persisted, 2, "the racing record must not be lost")

	byID := map[string]domain.Status{}
	for _, entry := range persisted {
		byID[entry.ID] = entry.Status
	}
	assert.Contains(t, byID, "racing")
	assert.NotEqual(t, domain.StatusConfirmed, byID["existing"],
		"the advancement of the pre-existing entry must not be lost")
}

func TestStore_ClosedStoreRejectsOperations(t *testing.T) {
	storage := memory.New()
	store := NewStore(storage, nil, logger.New("test"), 10)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, store.Start(ctx))
	cancel()

	// Give the run loop a moment to observe cancellation
	time.Sleep(10 * time.Millisecond)

	_, err := store.Record(context.Background(), testEntry("late", domain.StatusConfirmed))
	assert.ErrorIs(t, err, ErrStoreClosed)
}
