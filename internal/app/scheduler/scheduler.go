package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

// Scheduler wakes on a fixed interval and advances every non-terminal history
// entry one delivery status forward. It runs for the life of the session.
type Scheduler struct {
	store    interfaces.HistoryStore
	logger   logger.Logger
	interval time.Duration

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

func New(store interfaces.HistoryStore, lgr logger.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:    store,
		logger:   lgr,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			advanced, err := s.store.AdvanceAll(ctx)
			if err != nil {
				s.logger.Error("status_advance_failed", "Failed to advance order statuses", "", nil, err)
				continue
			}
			if advanced > 0 {
				s.logger.Debug("status_advanced", "Advanced order statuses", "", map[string]interface{}{
					"orders": advanced,
				})
			}
		}
	}
}

// Stop cancels the tick loop and waits for it to exit. Safe to call more
// than once; no writes happen after Stop returns.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
	})
}
