package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, typ string, ev any) Envelope {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return Envelope{Type: typ, Data: data}
}

func TestFormatEvent(t *testing.T) {
	t.Run("order confirmed", func(t *testing.T) {
		line, err := formatEvent(envelope(t, TypeOrderConfirmed, OrderConfirmedEvent{
			OrderID:        7,
			Reference:      "ref-7",
			RequestedCount: 2,
			Plates:         []string{"AB 001", "AB 002"},
			PayerRef:       "payer",
			SiteRef:        "site",
			BaseAmount:     "100.00",
			FinalAmount:    "90.00",
			ConfirmedAt:    "2026-08-28T10:00:00Z",
		}))
		require.NoError(t, err)
		assert.Contains(t, line, "Order confirmed")
		assert.Contains(t, line, "order_id=7")
		assert.Contains(t, line, "plates=[AB 001,AB 002]")
		assert.Contains(t, line, "final=90.00")
	})

	t.Run("order cancelled", func(t *testing.T) {
		line, err := formatEvent(envelope(t, TypeOrderCancelled, OrderCancelledEvent{
			OrderID: 7, Reference: "ref-7", Reason: "withdrawn", Restored: 2,
			CancelledAt: "2026-08-28T10:00:00Z",
		}))
		require.NoError(t, err)
		assert.Contains(t, line, "Order cancelled")
		assert.Contains(t, line, "restored=2")
		assert.Contains(t, line, `reason="withdrawn"`)
	})

	t.Run("plate issued", func(t *testing.T) {
		line, err := formatEvent(envelope(t, TypePlateIssued, PlateIssuedEvent{
			IssuanceID: 3, Reference: "ref-3", Plate: "AB 007",
			SubjectRef: "subject", PaymentRef: "payment",
			IssuedAt: "2026-08-28T10:00:00Z",
		}))
		require.NoError(t, err)
		assert.Contains(t, line, "Plate issued")
		assert.Contains(t, line, `plate="AB 007"`)
	})

	t.Run("issuance cancelled", func(t *testing.T) {
		line, err := formatEvent(envelope(t, TypeIssuanceCancelled, IssuanceCancelledEvent{
			IssuanceID: 3, Reference: "ref-3", Reason: "damaged",
			CancelledAt: "2026-08-28T10:00:00Z",
		}))
		require.NoError(t, err)
		assert.Contains(t, line, "Issuance cancelled")
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		_, err := formatEvent(Envelope{Type: "mystery"})
		assert.Error(t, err)
	})
}
