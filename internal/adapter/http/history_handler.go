package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/domain"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

type HistoryHandler struct {
	service interfaces.SessionService
	logger  logger.Logger
}

func NewHistoryHandler(service interfaces.SessionService, logger logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger,
	}
}

type HistoryEntryResponse struct {
	ID        string        `json:"id"`
	OrderData DraftResponse `json:"order_data"`
	Total     float64       `json:"total"`
	Timestamp string        `json:"timestamp"`
	Status    string        `json:"status"`
}

// HandleHistory serves GET (list) and DELETE (clear) on the order history.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listHistory(w, r)
	case http.MethodDelete:
		h.clearHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HistoryHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context())
	if err != nil {
		h.logger.Error("history_list_failed", "Failed to list history", "", nil, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = historyEntryResponse(entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *HistoryHandler) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context()); err != nil {
		h.logger.Error("history_clear_failed", "Failed to clear history", "", nil, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func historyEntryResponse(entry domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID: entry.ID,
		OrderData: DraftResponse{
			Item:                entry.Order.Item,
			Quantity:            entry.Order.Quantity,
			Name:                entry.Order.Name,
			Address:             entry.Order.Address,
			Phone:               entry.Order.Phone,
			SpecialInstructions: entry.Order.SpecialInstructions,
		},
		Total:     entry.Total,
		Timestamp: entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		Status:    string(entry.Status),
	}
}
