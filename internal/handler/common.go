// Package handler contains the HTTP handlers exposed by the plate
// allocation service.  Handlers bind and validate request payloads,
// delegate all business decisions to the engine layer, and translate
// engine errors into HTTP status codes in one place.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kabasele/plate-allocation/internal/engine"
)

// writeEngineError maps an engine error onto the HTTP surface.  The
// mapping is deliberately coarse: callers never learn SQL details,
// only the category and the engine's message.
func writeEngineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, engine.ErrValidation), errors.Is(err, engine.ErrOverAllocation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrConflict),
		errors.Is(err, engine.ErrInsufficientStock),
		errors.Is(err, engine.ErrItemNotAvailable),
		errors.Is(err, engine.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, engine.ErrTransient):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// parseIDParam parses the :id path parameter as a positive integer.
func parseIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
