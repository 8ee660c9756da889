package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/domain"
)

// Сообщения RabbitMQ
type OrderPlacedMessage struct {
	OrderID      string    `json:"order_id"`
	Item         string    `json:"item"`
	Quantity     int       `json:"quantity"`
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	PlacedAt     time.Time `json:"placed_at"`
}

type StatusUpdateMessage struct {
	OrderID   string        `json:"order_id"`
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	ChangedBy string        `json:"changed_by"`
	Timestamp time.Time     `json:"timestamp"`
}

// Интерфейсы Messaging (Adapter/RabbitMQ)
type MessagePublisher interface {
	PublishOrderPlaced(ctx context.Context, msg OrderPlacedMessage) error
	PublishStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

type MessageConsumer interface {
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}

type NotificationHandler func(ctx context.Context, body []byte) error
