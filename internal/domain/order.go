package domain

import (
	"strconv"
	"time"
)

const (
	MinQuantity = 1
	MaxQuantity = 20

	// DefaultHistoryLimit bounds the order history; recording an entry past
	// the limit evicts the oldest one.
	DefaultHistoryLimit = 10
)

// DraftOrder is the in-progress order being edited by the user. It is owned
// exclusively by the session wizard and mutated only through its operations.
type DraftOrder struct {
	Item                string
	Quantity            int
	Name                string
	Address             string
	Phone               string
	SpecialInstructions string
}

// NewDraft returns an empty draft with the minimum quantity.
func NewDraft() DraftOrder {
	return DraftOrder{Quantity: MinQuantity}
}

// ClampQuantity forces q into the [MinQuantity, MaxQuantity] range.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// HistoryEntry is an immutable record of a submitted order plus its mutable
// delivery status. Total is frozen at submission time and never recomputed.
type HistoryEntry struct {
	ID        string
	Order     DraftOrder
	Total     float64
	CreatedAt time.Time
	Status    Status
}

// NewHistoryEntry snapshots a draft into a confirmed history entry. The ID is
// derived from the submission timestamp, which keeps ids unique and monotonic
// within a session.
func NewHistoryEntry(draft DraftOrder, total float64, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Order:     draft,
		Total:     total,
		CreatedAt: now,
		Status:    StatusConfirmed,
	}
}
