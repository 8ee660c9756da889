package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/app/session"
	"github.com/YelzhanWeb/quick-order/internal/domain"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"
)

type SessionHandler struct {
	service interfaces.SessionService
	logger  logger.Logger
}

func NewSessionHandler(service interfaces.SessionService, logger logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger,
	}
}

type SelectItemRequest struct {
	Item string `json:"item"`
}

type QuantityRequest struct {
	Delta int `json:"delta"`
}

type UpdateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ReorderRequest struct {
	ID string `json:"id"`
}

type MenuItemResponse struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Emoji       string  `json:"emoji"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type DraftResponse struct {
	Item                string `json:"item"`
	Quantity            int    `json:"quantity"`
	Name                string `json:"name"`
	Address             string `json:"address"`
	Phone               string `json:"phone"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

type SessionResponse struct {
	Step        string            `json:"step"`
	Draft       DraftResponse     `json:"draft"`
	Errors      map[string]string `json:"errors"`
	Total       float64           `json:"total"`
	CanSubmit   bool              `json:"can_submit"`
	HistoryOpen bool              `json:"history_open"`
}

type SubmitResponse struct {
	OrderID string  `json:"order_id"`
	Status  string  `json:"status"`
	Total   float64 `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// GetMenu serves the catalog, filtered by an optional ?search= term.
func (h *SessionHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items := h.service.Menu(r.URL.Query().Get("search"))

	resp := make([]MenuItemResponse, len(items))
	for i, item := range items {
		resp[i] = MenuItemResponse{
			Name:        item.Name,
			Price:       item.Price,
			Emoji:       item.Emoji,
			Category:    item.Category,
			Description: item.Description,
		}
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// GetSession serves the current wizard snapshot.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.respondJSON(w, http.StatusOK, sessionResponse(h.service.Snapshot()))
}

// HandleAction routes POST /session/{action} to the wizard operations.
func (h *SessionHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 {
		h.respondError(w, "Not found", http.StatusNotFound)
		return
	}

	action := strings.Join(parts[1:], "/")

	switch action {
	case "select":
		var req SelectItemRequest
		if !h.decode(w, r, &req) {
			return
		}
		if err := h.service.SelectItem(req.Item); err != nil {
			h.respondActionError(w, err)
			return
		}

	case "quantity":
		var req QuantityRequest
		if !h.decode(w, r, &req) {
			return
		}
		h.service.ChangeQuantity(req.Delta)

	case "details":
		var req UpdateFieldRequest
		if !h.decode(w, r, &req) {
			return
		}
		h.service.UpdateField(req.Field, req.Value)

	case "back":
		h.service.GoBack()

	case "submit":
		entry, err := h.service.Submit(r.Context())
		if err != nil {
			h.respondActionError(w, err)
			return
		}
		h.respondJSON(w, http.StatusCreated, SubmitResponse{
			OrderID: entry.ID,
			Status:  string(entry.Status),
			Total:   entry.Total,
		})
		return

	case "new":
		h.service.StartNewOrder()

	case "reorder":
		var req ReorderRequest
		if !h.decode(w, r, &req) {
			return
		}
		if err := h.service.Reorder(r.Context(), req.ID); err != nil {
			h.respondActionError(w, err)
			return
		}

	case "history/open":
		h.service.OpenHistory()

	case "history/close":
		h.service.CloseHistory()

	default:
		h.respondError(w, "Not found", http.StatusNotFound)
		return
	}

	h.respondJSON(w, http.StatusOK, sessionResponse(h.service.Snapshot()))
}

func sessionResponse(snap interfaces.SessionSnapshot) SessionResponse {
	errs := snap.Errors
	if errs == nil {
		errs = domain.ValidationErrors{}
	}

	return SessionResponse{
		Step: string(snap.Step),
		Draft: DraftResponse{
			Item:                snap.Draft.Item,
			Quantity:            snap.Draft.Quantity,
			Name:                snap.Draft.Name,
			Address:             snap.Draft.Address,
			Phone:               snap.Draft.Phone,
			SpecialInstructions: snap.Draft.SpecialInstructions,
		},
		Errors:      errs,
		Total:       snap.Total,
		CanSubmit:   snap.CanSubmit,
		HistoryOpen: snap.HistoryOpen,
	}
}

func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *SessionHandler) respondActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownItem), errors.Is(err, session.ErrUnknownOrder):
		h.respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrSubmitInFlight),
		errors.Is(err, session.ErrInvalidStep),
		errors.Is(err, session.ErrNotSubmittable):
		h.respondError(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("session_action_failed", "Session action failed", "", nil, err)
		h.respondError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *SessionHandler) respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func (h *SessionHandler) respondError(w http.ResponseWriter, message string, statusCode int) {
	h.respondJSON(w, statusCode, ErrorResponse{Error: message})
}
