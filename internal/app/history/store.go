package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/domain"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

var ErrStoreClosed = errors.New("history store is closed")

// Store owns the bounded order history. All mutations funnel through a single
// goroutine, so a Record racing an AdvanceAll tick can never clobber the
// other's read-modify-persist cycle.
type Store struct {
	storage   interfaces.Storage
	publisher interfaces.MessagePublisher
	logger    logger.Logger
	limit     int

	ops     chan func()
	runCtx  context.Context
	entries []domain.HistoryEntry
}

func NewStore(storage interfaces.Storage, publisher interfaces.MessagePublisher, lgr logger.Logger, limit int) *Store {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}
	return &Store{
		storage:   storage,
		publisher: publisher,
		logger:    lgr,
		limit:     limit,
		ops:       make(chan func()),
	}
}

// Start launches the owning goroutine and loads the persisted history. The
// store stops accepting operations once ctx is cancelled.
func (s *Store) Start(ctx context.Context) error {
	s.runCtx = ctx
	go s.run(ctx)

	if _, err := s.Load(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Store) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-s.ops:
			op()
		}
	}
}

// exec hands fn to the owning goroutine and waits for it to complete.
func (s *Store) exec(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	op := func() {
		fn()
		close(done)
	}

	select {
	case s.ops <- op:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.runCtx.Done():
		return ErrStoreClosed
	}

	select {
	case <-done:
		return nil
	case <-s.runCtx.Done():
		return ErrStoreClosed
	}
}

// Load re-reads the persisted blob. Absent, unreadable or partially corrupt
// data degrades to whatever entries survive decoding; storage trouble is
// logged, not surfaced, so a session always starts renderable.
func (s *Store) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry

	err := s.exec(ctx, func() {
		blob, found, err := s.storage.Get(ctx, interfaces.HistoryKey)
		if err != nil {
			s.logger.Warn("history_load_failed", "Falling back to empty history", "", map[string]interface{}{
				"error": err.Error(),
			})
			s.entries = nil
			return
		}
		if !found {
			s.entries = nil
			return
		}

		entries, err := decodeHistory(blob)
		if err != nil {
			s.logger.Warn("history_corrupt", "Discarding unreadable history blob", "", map[string]interface{}{
				"error": err.Error(),
			})
			s.entries = nil
			return
		}

		s.entries = entries
		out = snapshot(entries)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Record prepends the entry, evicts the oldest one past the capacity bound
// and persists the result before returning.
func (s *Store) Record(ctx context.Context, entry domain.HistoryEntry) ([]domain.HistoryEntry, error) {
	var (
		out      []domain.HistoryEntry
		writeErr error
	)

	err := s.exec(ctx, func() {
		next := make([]domain.HistoryEntry, 0, len(s.entries)+1)
		next = append(next, entry)
		next = append(next, s.entries...)
		if len(next) > s.limit {
			next = next[:s.limit]
		}

		if writeErr = s.persist(ctx, next); writeErr != nil {
			return
		}
		s.entries = next
		out = snapshot(next)
	})
	if err != nil {
		return nil, err
	}
	if writeErr != nil {
		return nil, writeErr
	}
	return out, nil
}

// AdvanceAll moves every non-delivered entry exactly one status forward and
// persists when anything changed. It is a no-op on an empty or all-delivered
// list. Returns the number of entries advanced.
func (s *Store) AdvanceAll(ctx context.Context) (int, error) {
	var (
		updates  []interfaces.StatusUpdateMessage
		writeErr error
	)

	err := s.exec(ctx, func() {
		next := snapshot(s.entries)
		for i := range next {
			newStatus, ok := next[i].Status.Next()
			if !ok {
				continue
			}
			updates = append(updates, interfaces.StatusUpdateMessage{
				OrderID:   next[i].ID,
				OldStatus: next[i].Status,
				NewStatus: newStatus,
				ChangedBy: "status-scheduler",
				Timestamp: time.Now(),
			})
			next[i].Status = newStatus
		}
		if len(updates) == 0 {
			return
		}

		if writeErr = s.persist(ctx, next); writeErr != nil {
			updates = nil
			return
		}
		s.entries = next
	})
	if err != nil {
		return 0, err
	}
	if writeErr != nil {
		return 0, writeErr
	}

	// Notifications go out after the actor releases the mutation point, so a
	// slow broker cannot stall Record calls.
	for _, update := range updates {
		if s.publisher == nil {
			break
		}
		if pubErr := s.publisher.PublishStatusUpdate(ctx, update); pubErr != nil {
			s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", "", map[string]interface{}{
				"order_id": update.OrderID,
			}, pubErr)
		}
	}

	return len(updates), nil
}

// Clear empties the history and removes the backing blob.
func (s *Store) Clear(ctx context.Context) error {
	var writeErr error

	err := s.exec(ctx, func() {
		if writeErr = s.storage.Remove(ctx, interfaces.HistoryKey); writeErr != nil {
			writeErr = fmt.Errorf("failed to clear history: %w", writeErr)
			return
		}
		s.entries = nil
	})
	if err != nil {
		return err
	}
	return writeErr
}

// List returns a copy of the current history, newest first.
func (s *Store) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	var out []domain.HistoryEntry

	err := s.exec(ctx, func() {
		out = snapshot(s.entries)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) persist(ctx context.Context, entries []domain.HistoryEntry) error {
	blob, err := encodeHistory(entries)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, interfaces.HistoryKey, blob); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

func snapshot(entries []domain.HistoryEntry) []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), entries...)
}

var _ interfaces.HistoryStore = (*Store)(nil)
