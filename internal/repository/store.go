package repository

import (
	"context"
	"database/sql"

	"github.com/kabasele/plate-allocation/internal/engine"
	"github.com/kabasele/plate-allocation/internal/model"
)

// Store composes the aggregate repos into the engine's persistence
// boundary.  Every engine mutation runs through WithinTx, which opens
// one transaction, hands the engine a Tx view scoped to it, and
// commits only when the callback succeeds — the "series of independent
// calls per step" pattern of the old back office is gone on purpose.
type Store struct {
	db        *sql.DB
	Series    *SeriesRepo
	Items     *ItemRepo
	Orders    *OrderRepo
	Issuances *IssuanceRepo
	Provinces *ProvinceRepo
}

// NewStore constructs a Store and its repos over one DB handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		Series:    NewSeriesRepo(db),
		Items:     NewItemRepo(db),
		Orders:    NewOrderRepo(db),
		Issuances: NewIssuanceRepo(db),
		Provinces: NewProvinceRepo(db),
	}
}

var _ engine.Store = (*Store)(nil)

// WithinTx runs fn inside one transaction, rolling back on error or
// panic and committing otherwise.  Commit and begin failures are
// mapped so lock timeouts surface as engine.ErrTransient.
func (s *Store) WithinTx(ctx context.Context, fn func(tx engine.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{s: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapErr(err)
	}
	committed = true
	return nil
}

// GetSeries implements engine.Store.
func (s *Store) GetSeries(ctx context.Context, id uint64) (*model.Series, error) {
	return s.Series.GetByID(ctx, id)
}

// ListSeries implements engine.Store.
func (s *Store) ListSeries(ctx context.Context, filter engine.SeriesFilter) ([]model.Series, error) {
	return s.Series.List(ctx, filter)
}

// ListProvinces implements engine.Store.
func (s *Store) ListProvinces(ctx context.Context) ([]model.Province, error) {
	return s.Provinces.List(ctx)
}

// ListItems implements engine.Store.
func (s *Store) ListItems(ctx context.Context, seriesID uint64) ([]model.Item, error) {
	return s.Items.ListBySeries(ctx, seriesID)
}

// Counts implements engine.Store.
func (s *Store) Counts(ctx context.Context, seriesID uint64) (model.SeriesCounts, error) {
	return s.Items.Counts(ctx, seriesID)
}

// GetOrder implements engine.Store.
func (s *Store) GetOrder(ctx context.Context, id uint64) (*model.Order, []model.OrderItem, error) {
	return s.Orders.GetByID(ctx, id)
}

// GetIssuance implements engine.Store.
func (s *Store) GetIssuance(ctx context.Context, id uint64) (*model.Issuance, error) {
	return s.Issuances.GetByID(ctx, id)
}

// storeTx adapts one *sql.Tx to the engine.Tx interface by delegating
// to the aggregate repos' ...Tx methods.
type storeTx struct {
	s  *Store
	tx *sql.Tx
}

var _ engine.Tx = (*storeTx)(nil)

func (t *storeTx) SeriesCodeExists(ctx context.Context, code string, provinceID, excludeID uint64) (bool, error) {
	return t.s.Series.CodeExistsTx(ctx, t.tx, code, provinceID, excludeID)
}

func (t *storeTx) InsertSeries(ctx context.Context, s *model.Series) error {
	return t.s.Series.CreateTx(ctx, t.tx, s)
}

func (t *storeTx) InsertItems(ctx context.Context, seriesID uint64, start, end uint16) error {
	return t.s.Items.CreateRangeTx(ctx, t.tx, seriesID, start, end)
}

func (t *storeTx) GetSeriesForUpdate(ctx context.Context, id uint64) (*model.Series, error) {
	return t.s.Series.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) UpdateSeries(ctx context.Context, s *model.Series) error {
	return t.s.Series.UpdateTx(ctx, t.tx, s)
}

func (t *storeTx) SelectAvailableForUpdate(ctx context.Context, scope engine.Scope, limit int) ([]engine.PoolItem, error) {
	return t.s.Items.SelectAvailableForUpdateTx(ctx, t.tx, scope, limit)
}

func (t *storeTx) GetItemForUpdate(ctx context.Context, itemID uint64) (*engine.PoolItem, error) {
	return t.s.Items.GetForUpdateTx(ctx, t.tx, itemID)
}

func (t *storeTx) UpdateItemsStatus(ctx context.Context, itemIDs []uint64, status model.ItemStatus) error {
	return t.s.Items.BulkUpdateStatusTx(ctx, t.tx, itemIDs, status)
}

func (t *storeTx) InsertOrder(ctx context.Context, o *model.Order) error {
	return t.s.Orders.CreateTx(ctx, t.tx, o)
}

func (t *storeTx) InsertOrderItems(ctx context.Context, items []model.OrderItem) error {
	return t.s.Orders.CreateItemsBulkTx(ctx, t.tx, items)
}

func (t *storeTx) GetOrderForUpdate(ctx context.Context, id uint64) (*model.Order, error) {
	return t.s.Orders.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) OrderItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	return t.s.Orders.ItemsTx(ctx, t.tx, orderID)
}

func (t *storeTx) UpdateOrderStatus(ctx context.Context, id uint64, status model.OrderStatus, reason *string) error {
	return t.s.Orders.UpdateStatusTx(ctx, t.tx, id, status, reason)
}

func (t *storeTx) InsertIssuance(ctx context.Context, iss *model.Issuance) error {
	return t.s.Issuances.CreateTx(ctx, t.tx, iss)
}

func (t *storeTx) GetIssuanceForUpdate(ctx context.Context, id uint64) (*model.Issuance, error) {
	return t.s.Issuances.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) UpdateIssuanceStatus(ctx context.Context, id uint64, status model.IssuanceStatus, reason *string) error {
	return t.s.Issuances.UpdateStatusTx(ctx, t.tx, id, status, reason)
}
