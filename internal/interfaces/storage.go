package interfaces

import (
	"context"

	"github.com/YelzhanWeb/quick-order/internal/domain"
)

// HistoryKey is the single key the order history blob lives under.
const HistoryKey = "order_history"

// Интерфейсы Хранилища (Adapter/Postgres, Adapter/Memory)

// Storage is a key-value blob store. Get reports absence via the bool, not
// an error.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, blob []byte) error
	Remove(ctx context.Context, key string) error
}

// HistoryStore owns the bounded, newest-first order history. Every mutation
// writes through to Storage before returning.
type HistoryStore interface {
	Load(ctx context.Context) ([]domain.HistoryEntry, error)
	Record(ctx context.Context, entry domain.HistoryEntry) ([]domain.HistoryEntry, error)
	AdvanceAll(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
}
