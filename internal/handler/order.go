package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
	"github.com/kabasele/plate-allocation/internal/queue"
	queue_publisher "github.com/kabasele/plate-allocation/internal/service"
)

// OrderHandler exposes the wholesale reservation lifecycle: reserve a
// batch of plates, fetch an order, cancel it.
type OrderHandler struct {
	Allocator *engine.Allocator
}

// NewOrderHandler constructs an OrderHandler.  The allocator must be
// non-nil.
func NewOrderHandler(allocator *engine.Allocator) *OrderHandler {
	if allocator == nil {
		panic("nil allocator passed to NewOrderHandler")
	}
	return &OrderHandler{Allocator: allocator}
}

// orderResponse is the public view of a wholesale order.
type orderResponse struct {
	ID             uint64          `json:"id"`
	Reference      string          `json:"reference"`
	RequestedCount int             `json:"requested_count"`
	BaseTariff     decimal.Decimal `json:"base_tariff"`
	Discount       model.Discount  `json:"discount"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	Status         string          `json:"status"`
	PayerRef       string          `json:"payer_ref"`
	SiteRef        string          `json:"site_ref"`
	CancelReason   *string         `json:"cancel_reason,omitempty"`
	Plates         []string        `json:"plates"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

func toOrderResponse(o *model.Order, items []model.OrderItem) orderResponse {
	plates := make([]string, 0, len(items))
	for _, it := range items {
		plates = append(plates, it.Label)
	}
	return orderResponse{
		ID:             o.ID,
		Reference:      o.Reference,
		RequestedCount: o.RequestedCount,
		BaseTariff:     o.BaseTariff,
		Discount:       o.Discount,
		BaseAmount:     o.BaseAmount,
		FinalAmount:    o.FinalAmount,
		Status:         string(o.Status),
		PayerRef:       o.PayerRef,
		SiteRef:        o.SiteRef,
		CancelReason:   o.CancelReason,
		Plates:         plates,
		CreatedAt:      o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateOrder handles POST /v1/orders.  It atomically reserves the
// requested number of plates from active series in scope; on success
// an order.confirmed event is published (publish failures are logged
// and never fail the request).
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var body struct {
		Count      int             `json:"count"`
		Scope      engine.Scope    `json:"scope"`
		BaseTariff decimal.Decimal `json:"base_tariff"`
		Discount   model.Discount  `json:"discount"`
		PayerRef   string          `json:"payer_ref"`
		SiteRef    string          `json:"site_ref"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Discount.Kind == "" {
		body.Discount.Kind = model.DiscountNone
	}
	ctx := c.Request().Context()
	order, items, err := h.Allocator.Reserve(ctx, engine.ReserveRequest{
		Count:      body.Count,
		Scope:      body.Scope,
		BaseTariff: body.BaseTariff,
		Discount:   body.Discount,
		PayerRef:   strings.TrimSpace(body.PayerRef),
		SiteRef:    strings.TrimSpace(body.SiteRef),
	})
	if err != nil {
		return writeEngineError(c, err)
	}

	resp := toOrderResponse(order, items)
	_ = queue_publisher.PublishOrderConfirmed(ctx, queue.OrderConfirmedEvent{
		OrderID:        order.ID,
		Reference:      order.Reference,
		RequestedCount: order.RequestedCount,
		Plates:         resp.Plates,
		PayerRef:       order.PayerRef,
		SiteRef:        order.SiteRef,
		BaseAmount:     order.BaseAmount.StringFixed(2),
		FinalAmount:    order.FinalAmount.StringFixed(2),
		ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, resp)
}

// GetOrder handles GET /v1/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	order, items, err := h.Allocator.Get(c.Request().Context(), id)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order, items))
}

// CancelOrder handles POST /v1/orders/:id/cancel.  All plates bound to
// the order return to the pool atomically; cancelling twice fails with
// 409.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
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
	order, items, err := h.Allocator.Cancel(ctx, id, strings.TrimSpace(body.Reason))
	if err != nil {
		return writeEngineError(c, err)
	}

	reason := ""
	if order.CancelReason != nil {
		reason = *order.CancelReason
	}
	_ = queue_publisher.PublishOrderCancelled(ctx, queue.OrderCancelledEvent{
		OrderID:     order.ID,
		Reference:   order.Reference,
		Reason:      reason,
		Restored:    len(items),
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, toOrderResponse(order, items))
}
