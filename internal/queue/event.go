// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderConfirmedEvent is published when a wholesale reservation is
// successfully confirmed.  It carries enough information for
// downstream consumers to log, reconcile, or trigger notifications
// without querying the primary database.
type OrderConfirmedEvent struct {
	OrderID        uint64   `json:"order_id"`
	Reference      string   `json:"reference"`
	RequestedCount int      `json:"requested_count"`
	Plates         []string `json:"plates"`
	PayerRef       string   `json:"payer_ref"`
	SiteRef        string   `json:"site_ref"`
	BaseAmount     string   `json:"base_amount"`
	FinalAmount    string   `json:"final_amount"`
	ConfirmedAt    string   `json:"confirmed_at"`
}

// OrderCancelledEvent is published when a wholesale reservation is
// cancelled and its plates return to the pool.
type OrderCancelledEvent struct {
	OrderID     uint64 `json:"order_id"`
	Reference   string `json:"reference"`
	Reason      string `json:"reason"`
	Restored    int    `json:"restored"`
	CancelledAt string `json:"cancelled_at"`
}

// PlateIssuedEvent is published when a single plate is issued to a
// subject ("carte rose" delivery).
type PlateIssuedEvent struct {
	IssuanceID uint64 `json:"issuance_id"`
	Reference  string `json:"reference"`
	Plate      string `json:"plate"`
	SubjectRef string `json:"subject_ref"`
	PaymentRef string `json:"payment_ref"`
	IssuedAt   string `json:"issued_at"`
}

// IssuanceCancelledEvent is published when an issuance is cancelled
// and its plate returns to the pool.
type IssuanceCancelledEvent struct {
	IssuanceID  uint64 `json:"issuance_id"`
	Reference   string `json:"reference"`
	Reason      string `json:"reason"`
	CancelledAt string `json:"cancelled_at"`
}
