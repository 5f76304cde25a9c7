package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
)

// SeriesHandler exposes series registry operations: creating a series
// with its item pool, listing, editing metadata, flipping activation,
// and inspecting the pool.
type SeriesHandler struct {
	Registry *engine.Registry
}

// NewSeriesHandler constructs a SeriesHandler.  The registry must be
// non-nil.
func NewSeriesHandler(registry *engine.Registry) *SeriesHandler {
	if registry == nil {
		panic("nil registry passed to NewSeriesHandler")
	}
	return &SeriesHandler{Registry: registry}
}

// seriesResponse is the public view of a series.
type seriesResponse struct {
	ID          uint64 `json:"id"`
	ProvinceID  uint64 `json:"province_id"`
	Code        string `json:"code"`
	RangeStart  uint16 `json:"range_start"`
	RangeEnd    uint16 `json:"range_end"`
	Size        int    `json:"size"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toSeriesResponse(s *model.Series) seriesResponse {
	return seriesResponse{
		ID:          s.ID,
		ProvinceID:  s.ProvinceID,
		Code:        s.Code,
		RangeStart:  s.RangeStart,
		RangeEnd:    s.RangeEnd,
		Size:        s.Size(),
		Description: s.Description,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// itemResponse is the public view of one plate slot.
type itemResponse struct {
	ID     uint64 `json:"id"`
	Value  uint16 `json:"value"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// provinceResponse is the public view of a province.
type provinceResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// CreateSeries handles POST /v1/series.  It creates the series and
// materializes one available item per value in the range.
func (h *SeriesHandler) CreateSeries(c echo.Context) error {
	var body struct {
		Code        string `json:"code"`
		ProvinceID  uint64 `json:"province_id"`
		RangeStart  uint16 `json:"range_start"`
		RangeEnd    uint16 `json:"range_end"`
		Description string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	series, err := h.Registry.CreateSeries(c.Request().Context(), engine.CreateSeriesRequest{
		Code:        body.Code,
		ProvinceID:  body.ProvinceID,
		RangeStart:  body.RangeStart,
		RangeEnd:    body.RangeEnd,
		Description: body.Description,
	})
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusCreated, toSeriesResponse(series))
}

// ListSeries handles GET /v1/series.  Optional query parameters:
// province_id and active.
func (h *SeriesHandler) ListSeries(c echo.Context) error {
	var filter engine.SeriesFilter
	if v := c.QueryParam("province_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid province_id"})
		}
		filter.ProvinceID = id
	}
	if v := c.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid active flag"})
		}
		filter.Active = &active
	}
	series, err := h.Registry.ListSeries(c.Request().Context(), filter)
	if err != nil {
		return writeEngineError(c, err)
	}
	items := make([]seriesResponse, 0, len(series))
	for i := range series {
		items = append(items, toSeriesResponse(&series[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateSeries handles PATCH /v1/series/:id.  Only the code and the
// description are editable; the range is immutable.
func (h *SeriesHandler) UpdateSeries(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Code        *string `json:"code"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Code == nil && body.Description == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	series, err := h.Registry.UpdateSeries(c.Request().Context(), id, engine.UpdateSeriesRequest{
		Code:        body.Code,
		Description: body.Description,
	})
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toSeriesResponse(series))
}

// SetActive handles PATCH /v1/series/:id/active.  Deactivating a
// series only blocks future reservations; used items are untouched.
func (h *SeriesHandler) SetActive(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Active == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "active is required"})
	}
	series, err := h.Registry.SetActive(c.Request().Context(), id, *body.Active)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, toSeriesResponse(series))
}

// ListItems handles GET /v1/series/:id/items and returns every slot of
// the series with its rendered plate label.
func (h *SeriesHandler) ListItems(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	series, err := h.Registry.GetSeries(ctx, id)
	if err != nil {
		return writeEngineError(c, err)
	}
	pool, err := h.Registry.ListItems(ctx, id)
	if err != nil {
		return writeEngineError(c, err)
	}
	items := make([]itemResponse, 0, len(pool))
	for _, it := range pool {
		items = append(items, itemResponse{
			ID:     it.ID,
			Value:  it.Value,
			Label:  model.PlateLabel(series.Code, it.Value),
			Status: string(it.Status),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"series_id": id, "items": items})
}

// Counts handles GET /v1/series/:id/counts.
func (h *SeriesHandler) Counts(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	counts, err := h.Registry.Counts(c.Request().Context(), id)
	if err != nil {
		return writeEngineError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

// ListProvinces handles GET /v1/provinces and returns the seeded
// province reference data.
func (h *SeriesHandler) ListProvinces(c echo.Context) error {
	provinces, err := h.Registry.ListProvinces(c.Request().Context())
	if err != nil {
		return writeEngineError(c, err)
	}
	items := make([]provinceResponse, 0, len(provinces))
	for _, p := range provinces {
		items = append(items, provinceResponse{ID: p.ID, Name: p.Name, Code: p.Code})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
