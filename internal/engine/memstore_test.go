package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kabasele/plate-allocation/internal/model"
)

// memStore is an in-memory Store for engine tests.  WithinTx holds one
// mutex for the whole transaction, which gives the same observable
// exclusivity as the row locks the SQL implementation takes: two
// transactions never interleave.  Rollback is not emulated; every
// engine path validates before it mutates, so the tests never need it.
type memStore struct {
	mu sync.Mutex

	seriesSeq    uint64
	itemSeq      uint64
	orderSeq     uint64
	orderItemSeq uint64
	issuanceSeq  uint64

	provinces  []model.Province
	series     map[uint64]*model.Series
	items      map[uint64]*model.Item
	orders     map[uint64]*model.Order
	orderItems map[uint64][]model.OrderItem
	issuances  map[uint64]*model.Issuance
}

func newMemStore() *memStore {
	return &memStore{
		provinces: []model.Province{
			{ID: 1, Name: "Kinshasa", Code: "KN", CreatedAt: time.Now()},
			{ID: 2, Name: "Haut-Katanga", Code: "HK", CreatedAt: time.Now()},
		},
		series:     make(map[uint64]*model.Series),
		items:      make(map[uint64]*model.Item),
		orders:     make(map[uint64]*model.Order),
		orderItems: make(map[uint64][]model.OrderItem),
		issuances:  make(map[uint64]*model.Issuance),
	}
}

// seedSeries inserts a series with one available item per value,
// bypassing the registry, for tests that need a known pool.
func (m *memStore) seedSeries(code string, provinceID uint64, start, end uint16, active bool) *model.Series {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seriesSeq++
	s := &model.Series{
		ID:         m.seriesSeq,
		ProvinceID: provinceID,
		Code:       code,
		RangeStart: start,
		RangeEnd:   end,
		Active:     active,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.series[s.ID] = s
	for v := start; v <= end; v++ {
		m.itemSeq++
		m.items[m.itemSeq] = &model.Item{
			ID:       m.itemSeq,
			SeriesID: s.ID,
			Value:    v,
			Status:   model.ItemAvailable,
		}
	}
	return s
}

func (m *memStore) WithinTx(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{m})
}

func (m *memStore) GetSeries(_ context.Context, id uint64) (*model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySeries(m.series[id]), nil
}

func (m *memStore) ListSeries(_ context.Context, filter SeriesFilter) ([]model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Series
	for _, s := range m.series {
		if filter.ProvinceID != 0 && s.ProvinceID != filter.ProvinceID {
			continue
		}
		if filter.Active != nil && s.Active != *filter.Active {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProvinceID != out[j].ProvinceID {
			return out[i].ProvinceID < out[j].ProvinceID
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *memStore) ListProvinces(_ context.Context) ([]model.Province, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Province(nil), m.provinces...), nil
}

func (m *memStore) ListItems(_ context.Context, seriesID uint64) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Item
	for _, it := range m.items {
		if it.SeriesID == seriesID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

func (m *memStore) Counts(_ context.Context, seriesID uint64) (model.SeriesCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c model.SeriesCounts
	for _, it := range m.items {
		if it.SeriesID != seriesID {
			continue
		}
		c.Total++
		if it.Status == model.ItemAvailable {
			c.Available++
		} else {
			c.Used++
		}
	}
	return c, nil
}

func (m *memStore) GetOrder(_ context.Context, id uint64) (*model.Order, []model.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.orders[id]
	if o == nil {
		return nil, nil, nil
	}
	cp := *o
	return &cp, append([]model.OrderItem(nil), m.orderItems[id]...), nil
}

func (m *memStore) GetIssuance(_ context.Context, id uint64) (*model.Issuance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iss := m.issuances[id]
	if iss == nil {
		return nil, nil
	}
	cp := *iss
	return &cp, nil
}

func copySeries(s *model.Series) *model.Series {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// memTx mutates the store directly; the store mutex is already held.
type memTx struct {
	m *memStore
}

func (t *memTx) SeriesCodeExists(_ context.Context, code string, provinceID, excludeID uint64) (bool, error) {
	for _, s := range t.m.series {
		if s.ID == excludeID {
			continue
		}
		if provinceID != 0 && s.ProvinceID != provinceID {
			continue
		}
		if s.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) InsertSeries(_ context.Context, s *model.Series) error {
	t.m.seriesSeq++
	s.ID = t.m.seriesSeq
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	cp := *s
	t.m.series[s.ID] = &cp
	return nil
}

func (t *memTx) InsertItems(_ context.Context, seriesID uint64, start, end uint16) error {
	for v := start; v <= end; v++ {
		t.m.itemSeq++
		t.m.items[t.m.itemSeq] = &model.Item{
			ID:       t.m.itemSeq,
			SeriesID: seriesID,
			Value:    v,
			Status:   model.ItemAvailable,
		}
	}
	return nil
}

func (t *memTx) GetSeriesForUpdate(_ context.Context, id uint64) (*model.Series, error) {
	return copySeries(t.m.series[id]), nil
}

func (t *memTx) UpdateSeries(_ context.Context, s *model.Series) error {
	cp := *s
	cp.UpdatedAt = time.Now()
	t.m.series[s.ID] = &cp
	return nil
}

func (t *memTx) SelectAvailableForUpdate(_ context.Context, scope Scope, limit int) ([]PoolItem, error) {
	inScope := func(s *model.Series) bool {
		if !s.Active {
			return false
		}
		if len(scope.SeriesIDs) > 0 {
			for _, id := range scope.SeriesIDs {
				if s.ID == id {
					return scope.ProvinceID == 0 || s.ProvinceID == scope.ProvinceID
				}
			}
			return false
		}
		return s.ProvinceID == scope.ProvinceID
	}
	var out []PoolItem
	for _, it := range t.m.items {
		s := t.m.series[it.SeriesID]
		if it.Status != model.ItemAvailable || s == nil || !inScope(s) {
			continue
		}
		out = append(out, PoolItem{Item: *it, SeriesCode: s.Code})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesCode != out[j].SeriesCode {
			return out[i].SeriesCode < out[j].SeriesCode
		}
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].SeriesID < out[j].SeriesID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *memTx) GetItemForUpdate(_ context.Context, itemID uint64) (*PoolItem, error) {
	it := t.m.items[itemID]
	if it == nil {
		return nil, nil
	}
	s := t.m.series[it.SeriesID]
	return &PoolItem{Item: *it, SeriesCode: s.Code}, nil
}

func (t *memTx) UpdateItemsStatus(_ context.Context, itemIDs []uint64, status model.ItemStatus) error {
	for _, id := range itemIDs {
		if it := t.m.items[id]; it != nil {
			it.Status = status
			it.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (t *memTx) InsertOrder(_ context.Context, o *model.Order) error {
	t.m.orderSeq++
	o.ID = t.m.orderSeq
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
	cp := *o
	t.m.orders[o.ID] = &cp
	return nil
}

func (t *memTx) InsertOrderItems(_ context.Context, items []model.OrderItem) error {
	for i := range items {
		t.m.orderItemSeq++
		items[i].ID = t.m.orderItemSeq
		t.m.orderItems[items[i].OrderID] = append(t.m.orderItems[items[i].OrderID], items[i])
	}
	return nil
}

func (t *memTx) GetOrderForUpdate(_ context.Context, id uint64) (*model.Order, error) {
	o := t.m.orders[id]
	if o == nil {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (t *memTx) OrderItems(_ context.Context, orderID uint64) ([]model.OrderItem, error) {
	out := append([]model.OrderItem(nil), t.m.orderItems[orderID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (t *memTx) UpdateOrderStatus(_ context.Context, id uint64, status model.OrderStatus, reason *string) error {
	o := t.m.orders[id]
	if o == nil {
		return nil
	}
	o.Status = status
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	return nil
}

func (t *memTx) InsertIssuance(_ context.Context, iss *model.Issuance) error {
	t.m.issuanceSeq++
	iss.ID = t.m.issuanceSeq
	iss.CreatedAt = time.Now()
	iss.UpdatedAt = time.Now()
	cp := *iss
	t.m.issuances[iss.ID] = &cp
	return nil
}

func (t *memTx) GetIssuanceForUpdate(_ context.Context, id uint64) (*model.Issuance, error) {
	iss := t.m.issuances[id]
	if iss == nil {
		return nil, nil
	}
	cp := *iss
	return &cp, nil
}

func (t *memTx) UpdateIssuanceStatus(_ context.Context, id uint64, status model.IssuanceStatus, reason *string) error {
	iss := t.m.issuances[id]
	if iss == nil {
		return nil
	}
	iss.Status = status
	iss.CancelReason = reason
	iss.UpdatedAt = time.Now()
	return nil
}

var (
	_ Store = (*memStore)(nil)
	_ Tx    = (*memTx)(nil)
)
