package interfaces

import (
	"context"

	"github.com/YelzhanWeb/quick-order/internal/domain"
)

// Интерфейсы Сервисов (Business Logic)
type SessionService interface {
	Menu(search string) []domain.CatalogItem
	Snapshot() SessionSnapshot

	SelectItem(name string) error
	ChangeQuantity(delta int)
	UpdateField(field, value string)
	GoBack()
	Submit(ctx context.Context) (*domain.HistoryEntry, error)
	StartNewOrder()
	Reorder(ctx context.Context, entryID string) error
	OpenHistory()
	CloseHistory()

	History(ctx context.Context) ([]domain.HistoryEntry, error)
	ClearHistory(ctx context.Context) error
}

// SessionSnapshot is a renderable view of the wizard at any intermediate
// state; it never fails to produce, even before an item is chosen.
type SessionSnapshot struct {
	Step        domain.Step
	Draft       domain.DraftOrder
	Errors      domain.ValidationErrors
	Total       float64
	CanSubmit   bool
	HistoryOpen bool
}
