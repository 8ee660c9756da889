package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/domain"
)

// Формат хранения: массив заказов, новые в начале.
type persistedEntry struct {
	ID        string             `json:"id"`
	OrderData persistedOrderData `json:"orderData"`
	Total     float64            `json:"total"`
	Timestamp string             `json:"timestamp"`
	Status    string             `json:"status"`
}

type persistedOrderData struct {
	Item                string `json:"item"`
	Quantity            int    `json:"quantity"`
	Name                string `json:"name"`
	Address             string `json:"address"`
	Phone               string `json:"phone"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

func encodeHistory(entries []domain.HistoryEntry) ([]byte, error) {
	out := make([]persistedEntry, len(entries))
	for i, e := range entries {
		out[i] = persistedEntry{
			ID: e.ID,
			OrderData: persistedOrderData{
				Item:                e.Order.Item,
				Quantity:            e.Order.Quantity,
				Name:                e.Order.Name,
				Address:             e.Order.Address,
				Phone:               e.Order.Phone,
				SpecialInstructions: e.Order.SpecialInstructions,
			},
			Total:     e.Total,
			Timestamp: e.CreatedAt.UTC().Format(time.RFC3339Nano),
			Status:    string(e.Status),
		}
	}

	blob, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return blob, nil
}

// decodeHistory deserializes a persisted blob. Individual entries that are
// malformed (bad JSON, missing id, unknown status, unparsable timestamp) are
// dropped; only an unreadable top-level document is an error.
func decodeHistory(blob []byte) ([]domain.HistoryEntry, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	var entries []domain.HistoryEntry
	for _, item := range raw {
		var pe persistedEntry
		if err := json.Unmarshal(item, &pe); err != nil {
			continue
		}
		if pe.ID == "" {
			continue
		}
		status, ok := domain.ParseStatus(pe.Status)
		if !ok {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339Nano, pe.Timestamp)
		if err != nil {
			continue
		}

		entries = append(entries, domain.HistoryEntry{
			ID: pe.ID,
			Order: domain.DraftOrder{
				Item:                pe.OrderData.Item,
				Quantity:            pe.OrderData.Quantity,
				Name:                pe.OrderData.Name,
				Address:             pe.OrderData.Address,
				Phone:               pe.OrderData.Phone,
				SpecialInstructions: pe.OrderData.SpecialInstructions,
			},
			Total:     pe.Total,
			CreatedAt: createdAt,
			Status:    status,
		})
	}

	return entries, nil
}
