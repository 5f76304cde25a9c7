package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
)

// FinanceHandler exposes the stateless financial computations: overdue
// penalty pricing and beneficiary distribution.  Both endpoints are
// pure functions over their request payloads.
type FinanceHandler struct{}

// NewFinanceHandler constructs a FinanceHandler.
func NewFinanceHandler() *FinanceHandler {
	return &FinanceHandler{}
}

// ComputePenalty handles POST /v1/pricing/penalty.  as_of defaults to
// the current time when absent, so the same request recomputed later
// can only grow.
func (h *FinanceHandler) ComputePenalty(c echo.Context) error {
	var body struct {
		CreationDate string            `json:"creation_date"`
		AsOf         string            `json:"as_of"`
		BaseAmount   decimal.Decimal   `json:"base_amount"`
		Rule         model.PenaltyRule `json:"rule"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	creation, err := time.Parse(time.RFC3339, body.CreationDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "creation_date must be RFC 3339"})
	}
	asOf := time.Now().UTC()
	if body.AsOf != "" {
		asOf, err = time.Parse(time.RFC3339, body.AsOf)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "as_of must be RFC 3339"})
		}
	}
	result, err := engine.ComputePenalty(creation, asOf, body.BaseAmount, body.Rule)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Distribute handles POST /v1/distributions.  The returned allocations
// always sum to the submitted total exactly.
func (h *FinanceHandler) Distribute(c echo.Context) error {
	var body struct {
		TotalAmount   decimal.Decimal          `json:"total_amount"`
		Beneficiaries []model.BeneficiaryShare `json:"beneficiaries"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	allocations, err := engine.Distribute(body.TotalAmount, body.Beneficiaries)
	if err != nil {
		return writeEngineError(c, err)
	}
	if allocations == nil {
		allocations = []engine.Allocation{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_amount": body.TotalAmount,
		"allocations":  allocations,
	})
}
