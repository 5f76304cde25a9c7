package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
	"github.com/kabasele/plate-allocation/internal/queue"
	queue_publisher "github.com/kabasele/plate-allocation/internal/service"
)

// IssuanceHandler exposes the single-plate issuance lifecycle.
type IssuanceHandler struct {
	Ledger *engine.Ledger
}

// NewIssuanceHandler constructs an IssuanceHandler.  The ledger must
// be non-nil.
func NewIssuanceHandler(ledger *engine.Ledger) *IssuanceHandler {
	if ledger == nil {
		panic("nil ledger passed to NewIssuanceHandler")
	}
	return &IssuanceHandler{Ledger: ledger}
}

// issuanceResponse is the public view of an issuance.
type issuanceResponse struct {
	ID           uint64  `json:"id"`
	Reference    string  `json:"reference"`
	ItemID       uint64  `json:"item_id"`
	Plate        string  `json:"plate,omitempty"`
	SubjectRef   string  `json:"subject_ref"`
	PaymentRef   string  `json:"payment_ref"`
	Status       string  `json:"status"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toIssuanceResponse(i *model.Issuance, plate string) issuanceResponse {
	return issuanceResponse{
		ID:           i.ID,
		Reference:    i.Reference,
		ItemID:       i.ItemID,
		Plate:        plate,
		SubjectRef:   i.SubjectRef,
		PaymentRef:   i.PaymentRef,
		Status:       string(i.Status),
		CancelReason: i.CancelReason,
		CreatedAt:    i.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    i.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateIssuance handles POST /v1/issuances.  It consumes one specific
// available item and binds it to a subject and a payment; the item is
// then unavailable to wholesale orders until the issuance is
// cancelled.
func (h *IssuanceHandler) CreateIssuance(c echo.Context) error {
	var body struct {
		ItemID     uint64 `json:"item_id"`
		SubjectRef string `json:"subject_ref"`
		PaymentRef string `json:"payment_ref"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id is required"})
	}
	ctx := c.Request().Context()
	issuance, plate, err := h.Ledger.Issue(ctx, body.ItemID, strings.TrimSpace(body.SubjectRef), strings.TrimSpace(body.PaymentRef))
	if err != nil {
		return writeEngineError(c, err)
	}

	_ = queue_publisher.PublishPlateIssued(ctx, queue.PlateIssuedEvent{
		IssuanceID: issuance.ID,
		Reference:  issuance.Reference,
		Plate:      plate,
		SubjectRef: issuance.SubjectRef,
		PaymentRef: issuance.PaymentRef,
		IssuedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, toIssuanceResponse(issuance, plate))
}

// GetIssuance handles GET /v1/issuances/:id.
func (h *IssuanceHandler) GetIssuance(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	issuance, err := h.Ledger.Get(c.Request().Context(), id)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toIssuanceResponse(issuance, ""))
}

// CancelIssuance handles POST /v1/issuances/:id/cancel.  The consumed
// item returns to the pool; cancelling twice fails with 409.
func (h *IssuanceHandler) CancelIssuance(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	issuance, err := h.Ledger.Cancel(ctx, id, strings.TrimSpace(body.Reason))
	if err != nil {
		return writeEngineError(c, err)
	}

	reason := ""
	if issuance.CancelReason != nil {
		reason = *issuance.CancelReason
	}
	_ = queue_publisher.PublishIssuanceCancelled(ctx, queue.IssuanceCancelledEvent{
		IssuanceID:  issuance.ID,
		Reference:   issuance.Reference,
		Reason:      reason,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, toIssuanceResponse(issuance, ""))
}
