package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestComputePenaltyEndpoint(t *testing.T) {
	h := NewFinanceHandler()

	t.Run("computes the penalty", func(t *testing.T) {
		rec, out := postJSON(t, h.ComputePenalty, `{
			"creation_date": "2026-01-01T12:00:00Z",
			"as_of": "2026-03-07T12:00:00Z",
			"base_amount": "200.00",
			"rule": {"grace_period_days": 30, "penalty": {"kind": "PERCENTAGE", "value": "5"}}
		}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(65), out["elapsed_days"])
		assert.Equal(t, float64(2), out["periods_elapsed"])
		assert.Equal(t, "20", out["penalty_amount"])
		assert.Equal(t, "220", out["total_amount"])
	})

	t.Run("rejects a malformed creation date", func(t *testing.T) {
		rec, out := postJSON(t, h.ComputePenalty, `{"creation_date": "yesterday"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, out["error"], "creation_date")
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		rec, _ := postJSON(t, h.ComputePenalty, `{
			"creation_date": "2026-01-01T12:00:00Z",
			"base_amount": "200.00",
			"rule": {"grace_period_days": 0, "penalty": {"kind": "PERCENTAGE", "value": "5"}}
		}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDistributeEndpoint(t *testing.T) {
	h := NewFinanceHandler()

	t.Run("distributes exactly", func(t *testing.T) {
		rec, out := postJSON(t, h.Distribute, `{
			"total_amount": "100.00",
			"beneficiaries": [
				{"beneficiary_ref": "treasury", "share": {"kind": "PERCENTAGE", "value": "60"}},
				{"beneficiary_ref": "province", "share": {"kind": "PERCENTAGE", "value": "40"}}
			]
		}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		allocs, ok := out["allocations"].([]any)
		require.True(t, ok)
		require.Len(t, allocs, 2)
		first := allocs[0].(map[string]any)
		assert.Equal(t, "treasury", first["beneficiary_ref"])
		assert.Equal(t, "60", first["amount"])
	})

	t.Run("over-allocation maps to 400", func(t *testing.T) {
		rec, _ := postJSON(t, h.Distribute, `{
			"total_amount": "50.00",
			"beneficiaries": [
				{"beneficiary_ref": "a", "share": {"kind": "FIXED", "value": "60"}}
			]
		}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty list with positive total maps to 400", func(t *testing.T) {
		rec, _ := postJSON(t, h.Distribute, `{"total_amount": "50.00", "beneficiaries": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
