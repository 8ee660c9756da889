package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/domain"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

var (
	ErrUnknownItem    = errors.New("item is not on the menu")
	ErrInvalidStep    = errors.New("operation is not available at this step")
	ErrNotSubmittable = errors.New("order is not ready to submit")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrUnknownOrder   = errors.New("order not found in history")
)

// Service is the order wizard: it owns the draft, drives the step state
// machine and hands confirmed orders to the history store. Safe for
// concurrent use; the submit delay is served outside the lock so the session
// stays renderable while an order is processing.
type Service struct {
	store       interfaces.HistoryStore
	publisher   interfaces.MessagePublisher
	logger      logger.Logger
	submitDelay time.Duration

	mu          sync.Mutex
	step        domain.Step
	historyOpen bool
	draft       domain.DraftOrder
	fieldErrors domain.ValidationErrors
}

func NewService(store interfaces.HistoryStore, publisher interfaces.MessagePublisher, lgr logger.Logger, submitDelay time.Duration) *Service {
	return &Service{
		store:       store,
		publisher:   publisher,
		logger:      lgr,
		submitDelay: submitDelay,
		step:        domain.StepSelectingItem,
		draft:       domain.NewDraft(),
		fieldErrors: domain.Validate(domain.NewDraft()),
	}
}

// Menu returns catalog items, optionally filtered by a search term.
func (s *Service) Menu(search string) []domain.CatalogItem {
	return domain.SearchMenu(search)
}

// Snapshot returns a consistent view of the wizard for rendering. The total
// is zero until an item is selected; nothing here can fail.
func (s *Service) Snapshot() interfaces.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make(domain.ValidationErrors, len(s.fieldErrors))
	for field, msg := range s.fieldErrors {
		errs[field] = msg
	}

	return interfaces.SessionSnapshot{
		Step:        s.step,
		Draft:       s.draft,
		Errors:      errs,
		Total:       domain.PriceOf(s.draft.Item) * float64(s.draft.Quantity),
		CanSubmit:   s.step == domain.StepEnteringDelivery && len(s.fieldErrors) == 0,
		HistoryOpen: s.historyOpen,
	}
}

// SelectItem picks a menu item and advances to the delivery step. Unknown
// names are rejected without touching the draft.
func (s *Service) SelectItem(name string) error {
	item, ok := domain.FindItem(name)
	if !ok {
		return ErrUnknownItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepSelectingItem {
		return ErrInvalidStep
	}

	s.draft.Item = item.Name
	s.step = domain.StepEnteringDelivery
	s.logger.Debug("item_selected", fmt.Sprintf("Selected %s", item.Name), "", nil)
	return nil
}

// ChangeQuantity shifts the quantity by delta, clamped to the legal range.
// Out-of-range results are clamped silently, never errors.
func (s *Service) ChangeQuantity(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.StepSubmitting {
		return
	}
	s.draft.Quantity = domain.ClampQuantity(s.draft.Quantity + delta)
}

// UpdateField overwrites a free-text draft field and re-runs validation.
// Unknown field names are ignored.
func (s *Service) UpdateField(field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.StepSubmitting {
		return
	}

	switch field {
	case "name":
		s.draft.Name = value
	case "address":
		s.draft.Address = value
	case "phone":
		s.draft.Phone = value
	case "special_instructions":
		s.draft.SpecialInstructions = value
	default:
		return
	}

	s.fieldErrors = domain.Validate(s.draft)
}

// GoBack returns from the delivery step to item selection, keeping the draft.
func (s *Service) GoBack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == domain.StepEnteringDelivery {
		s.step = domain.StepSelectingItem
	}
}

// Submit runs the submission protocol: re-entrancy guard, simulated
// processing delay, then atomically freeze the total, record the entry and
// confirm. A second Submit while one is in flight is rejected, not queued.
func (s *Service) Submit(ctx context.Context) (*domain.HistoryEntry, error) {
	s.mu.Lock()
	if s.step == domain.StepSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if s.step != domain.StepEnteringDelivery {
		s.mu.Unlock()
		return nil, ErrInvalidStep
	}
	s.fieldErrors = domain.Validate(s.draft)
	if len(s.fieldErrors) > 0 {
		s.mu.Unlock()
		return nil, ErrNotSubmittable
	}
	s.step = domain.StepSubmitting
	draft := s.draft
	s.mu.Unlock()

	// Симуляция обработки заказа
	select {
	case <-ctx.Done():
		s.abortSubmit()
		return nil, ctx.Err()
	case <-time.After(s.submitDelay):
	}

	total := domain.PriceOf(draft.Item) * float64(draft.Quantity)
	entry := domain.NewHistoryEntry(draft, total, time.Now())

	if _, err := s.store.Record(ctx, entry); err != nil {
		s.abortSubmit()
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	if s.publisher != nil {
		msg := interfaces.OrderPlacedMessage{
			OrderID:      entry.ID,
			Item:         entry.Order.Item,
			Quantity:     entry.Order.Quantity,
			CustomerName: entry.Order.Name,
			Total:        entry.Total,
			PlacedAt:     entry.CreatedAt,
		}
		if err := s.publisher.PublishOrderPlaced(ctx, msg); err != nil {
			// Уведомление не блокирует подтверждение заказа
			s.logger.Error("rabbitmq_publish_failed", "Failed to publish order", "", nil, err)
		}
	}

	s.mu.Lock()
	s.step = domain.StepConfirmed
	s.mu.Unlock()

	s.logger.Info("order_confirmed", fmt.Sprintf("Order %s confirmed", entry.ID), "", map[string]interface{}{
		"order_id": entry.ID,
		"total":    entry.Total,
	})

	return &entry, nil
}

func (s *Service) abortSubmit() {
	s.mu.Lock()
	if s.step == domain.StepSubmitting {
		s.step = domain.StepEnteringDelivery
	}
	s.mu.Unlock()
}

// StartNewOrder resets the wizard from the confirmation view.
func (s *Service) StartNewOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepConfirmed {
		return
	}

	s.step = domain.StepSelectingItem
	s.draft = domain.NewDraft()
	s.fieldErrors = domain.Validate(s.draft)
}

// Reorder seeds the draft from a past order's snapshot and jumps straight to
// the delivery step, bypassing item selection.
func (s *Service) Reorder(ctx context.Context, entryID string) error {
	entries, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.ID != entryID {
			continue
		}

		s.mu.Lock()
		if s.step == domain.StepSubmitting {
			s.mu.Unlock()
			return ErrSubmitInFlight
		}
		s.draft = entry.Order
		s.draft.Quantity = domain.ClampQuantity(s.draft.Quantity)
		s.fieldErrors = domain.Validate(s.draft)
		s.step = domain.StepEnteringDelivery
		s.historyOpen = false
		s.mu.Unlock()

		s.logger.Debug("reorder_started", fmt.Sprintf("Reordering %s", entry.Order.Item), "", map[string]interface{}{
			"source_order_id": entry.ID,
		})
		return nil
	}

	return ErrUnknownOrder
}

// OpenHistory and CloseHistory toggle the history view without disturbing
// the underlying step.
func (s *Service) OpenHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyOpen = true
}

func (s *Service) CloseHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyOpen = false
}

// History returns the persisted order history, newest first.
func (s *Service) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.store.List(ctx)
}

// ClearHistory empties the persisted history.
func (s *Service) ClearHistory(ctx context.Context) error {
	return s.store.Clear(ctx)
}

var _ interfaces.SessionService = (*Service)(nil)
