package engine

import (
	"context"
	"strings"

	"github.com/kabasele/plate-allocation/internal/model"
)

// CodeScope selects how series-code uniqueness is enforced.  The
// back office historically wavered between per-province and global
// uniqueness, so the choice is explicit configuration rather than a
// hard-coded rule.
type CodeScope string

const (
	CodeScopeProvince CodeScope = "province"
	CodeScopeGlobal   CodeScope = "global"
)

// Valid reports whether the scope is one of the known values.
func (s CodeScope) Valid() bool {
	return s == CodeScopeProvince || s == CodeScopeGlobal
}

// Registry manages series definitions and their materialized item
// pools.  Creating a series validates the code and range, enforces
// code uniqueness within the configured scope, and bulk-creates one
// available item per value of the range, all in one transaction.
type Registry struct {
	store     Store
	codeScope CodeScope
}

// NewRegistry builds a Registry.  The store must be non-nil and the
// scope one of CodeScopeProvince or CodeScopeGlobal.
func NewRegistry(store Store, codeScope CodeScope) *Registry {
	if store == nil {
		panic("nil store passed to NewRegistry")
	}
	if !codeScope.Valid() {
		panic("invalid series code scope: " + string(codeScope))
	}
	return &Registry{store: store, codeScope: codeScope}
}

// CreateSeriesRequest carries the operator input for a new series.
type CreateSeriesRequest struct {
	Code        string
	ProvinceID  uint64
	RangeStart  uint16
	RangeEnd    uint16
	Description string
}

// CreateSeries validates and persists a new series together with its
// item slots.  The code must be two uppercase letters and unique
// within the configured scope; the range must satisfy
// 1 ≤ start ≤ end ≤ 999.  On success every value in the range exists
// as an available item.
func (r *Registry) CreateSeries(ctx context.Context, req CreateSeriesRequest) (*model.Series, error) {
	code := strings.TrimSpace(req.Code)
	if !model.ValidSeriesCode(code) {
		return nil, validationf("series code must be two uppercase letters, got %q", req.Code)
	}
	if !model.ValidSeriesRange(req.RangeStart, req.RangeEnd) {
		return nil, validationf("series range must satisfy 1 <= start <= end <= 999, got [%d, %d]", req.RangeStart, req.RangeEnd)
	}
	if req.ProvinceID == 0 {
		return nil, validationf("province is required")
	}

	series := &model.Series{
		ProvinceID:  req.ProvinceID,
		Code:        code,
		RangeStart:  req.RangeStart,
		RangeEnd:    req.RangeEnd,
		Description: req.Description,
		Active:      true,
	}
	err := r.store.WithinTx(ctx, func(tx Tx) error {
		exists, err := tx.SeriesCodeExists(ctx, code, r.uniquenessProvince(req.ProvinceID), 0)
		if err != nil {
			return err
		}
		if exists {
			return ErrConflict
		}
		if err := tx.InsertSeries(ctx, series); err != nil {
			return err
		}
		return tx.InsertItems(ctx, series.ID, series.RangeStart, series.RangeEnd)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// uniquenessProvince returns the province the code-uniqueness check is
// restricted to: the series' own province in per-province scope, or
// zero (no restriction) in global scope.
func (r *Registry) uniquenessProvince(provinceID uint64) uint64 {
	if r.codeScope == CodeScopeGlobal {
		return 0
	}
	return provinceID
}

// UpdateSeriesRequest carries the mutable fields of a series.  Nil
// means "leave unchanged".  The range is immutable after creation and
// deliberately absent.
type UpdateSeriesRequest struct {
	Code        *string
	Description *string
}

// UpdateSeries changes a series' code and/or description.  A new code
// is re-validated against the pattern and the uniqueness scope.  The
// range is never resized.
func (r *Registry) UpdateSeries(ctx context.Context, id uint64, req UpdateSeriesRequest) (*model.Series, error) {
	if req.Code != nil && !model.ValidSeriesCode(strings.TrimSpace(*req.Code)) {
		return nil, validationf("series code must be two uppercase letters, got %q", *req.Code)
	}
	var series *model.Series
	err := r.store.WithinTx(ctx, func(tx Tx) error {
		s, err := tx.GetSeriesForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return ErrNotFound
		}
		if req.Code != nil {
			code := strings.TrimSpace(*req.Code)
			if code != s.Code {
				exists, err := tx.SeriesCodeExists(ctx, code, r.uniquenessProvince(s.ProvinceID), s.ID)
				if err != nil {
					return err
				}
				if exists {
					return ErrConflict
				}
				s.Code = code
			}
		}
		if req.Description != nil {
			s.Description = *req.Description
		}
		if err := tx.UpdateSeries(ctx, s); err != nil {
			return err
		}
		series = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// SetActive flips a series' eligibility for future reservations.  It
// never touches item statuses: plates already used stay used, and
// deactivation only removes the series from reservation scopes.
func (r *Registry) SetActive(ctx context.Context, id uint64, active bool) (*model.Series, error) {
	var series *model.Series
	err := r.store.WithinTx(ctx, func(tx Tx) error {
		s, err := tx.GetSeriesForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return ErrNotFound
		}
		s.Active = active
		if err := tx.UpdateSeries(ctx, s); err != nil {
			return err
		}
		series = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// GetSeries fetches one series by id.
func (r *Registry) GetSeries(ctx context.Context, id uint64) (*model.Series, error) {
	s, err := r.store.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

// ListSeries returns series matching the filter.
func (r *Registry) ListSeries(ctx context.Context, filter SeriesFilter) ([]model.Series, error) {
	return r.store.ListSeries(ctx, filter)
}

// ListProvinces returns the seeded province reference data.
func (r *Registry) ListProvinces(ctx context.Context) ([]model.Province, error) {
	return r.store.ListProvinces(ctx)
}

// ListItems returns every item of a series for audit and reporting.
func (r *Registry) ListItems(ctx context.Context, seriesID uint64) ([]model.Item, error) {
	s, err := r.store.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return r.store.ListItems(ctx, seriesID)
}

// Counts derives the {total, available, used} summary of a series.
func (r *Registry) Counts(ctx context.Context, seriesID uint64) (model.SeriesCounts, error) {
	s, err := r.store.GetSeries(ctx, seriesID)
	if err != nil {
		return model.SeriesCounts{}, err
	}
	if s == nil {
		return model.SeriesCounts{}, ErrNotFound
	}
	return r.store.Counts(ctx, seriesID)
}
