package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/quick-order/internal/domain"
)

func sampleEntries() []domain.HistoryEntry {
	return []domain.HistoryEntry{
		{
			ID: "1709294400000",
			Order: domain.DraftOrder{
				Item:                "Pizza",
				Quantity:            2,
				Name:                "John Doe",
				Address:             "123 Main Street, Springfield",
				Phone:               "(555) 123-4567",
				SpecialInstructions: "Extra cheese",
			},
			Total:     25.98,
			CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Status:    domain.StatusConfirmed,
		},
		{
			ID: "1709208000000",
			Order: domain.DraftOrder{
				Item:     "Sushi",
				Quantity: 1,
				Name:     "Jane Roe",
				Address:  "42 Side Avenue, Springfield",
				Phone:    "+1 555 987 6543",
			},
			Total:     15.99,
			CreatedAt: time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
			Status:    domain.StatusDelivered,
		},
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	original := sampleEntries()

	blob, err := encodeHistory(original)
	require.NoError(t, err)

	decoded, err := decodeHistory(blob)
	require.NoError(t, err)
	require.Len(t, decoded, len(original))

	for i := range original {
		assert.Equal(t, original[i].ID, decoded[i].ID)
		assert.Equal(t, original[i].Order, decoded[i].Order)
		assert.Equal(t, original[i].Total, decoded[i].Total)
		assert.Equal(t, original[i].Status, decoded[i].Status)
		assert.True(t, original[i].CreatedAt.Equal(decoded[i].CreatedAt))
	}
}

func TestDecodeHistory_DropsMalformedEntries(t *testing.T) {
	blob := []byte(`[
		{"id":"1","orderData":{"item":"Pizza","quantity":1,"name":"A","address":"B","phone":"C"},"total":12.99,"timestamp":"2024-03-01T12:00:00Z","status":"confirmed"},
		{"id":"","orderData":{},"total":0,"timestamp":"2024-03-01T12:00:00Z","status":"confirmed"},
		{"id":"2","orderData":{},"total":0,"timestamp":"2024-03-01T12:00:00Z","status":"cancelled"},
		{"id":"3","orderData":{},"total":0,"timestamp":"not-a-date","status":"preparing"},
		"just a string",
		{"id":"4","orderData":{"item":"Sushi","quantity":1,"name":"D","address":"E","phone":"F"},"total":15.99,"timestamp":"2024-03-01T13:00:00Z","status":"delivered"}
	]`)

	decoded, err := decodeHistory(blob)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "1", decoded[0].ID)
	assert.Equal(t, "4", decoded[1].ID)
}

func TestDecodeHistory_UnreadableBlob(t *testing.T) {
	_, err := decodeHistory([]byte("not json at all"))
	assert.Error(t, err)
}

func TestEncodeHistory_EmptyList(t *testing.T) {
	blob, err := encodeHistory(nil)
	require.NoError(t, err)

	decoded, err := decodeHistory(blob)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
