package engine

import (
	"context"

	"github.com/kabasele/plate-allocation/internal/model"
)

// Scope restricts which series an allocation may draw from.  A
// province-wide scope selects from every active series of the
// province; listing explicit series IDs narrows it further.
type Scope struct {
	ProvinceID uint64   `json:"province_id"`
	SeriesIDs  []uint64 `json:"series_ids,omitempty"`
}

// SeriesFilter narrows ListSeries results.  A zero ProvinceID means
// all provinces; a nil Active means both active and inactive series.
type SeriesFilter struct {
	ProvinceID uint64
	Active     *bool
}

// PoolItem is an item joined with its series code, enough to render
// the public plate label without a further lookup.
type PoolItem struct {
	model.Item
	SeriesCode string
}

// Store is the persistence boundary of the engine.  Read methods
// observe committed state; every mutation happens inside WithinTx so
// that "select then flip" sequences are one atomic step.  Lookup
// methods return a nil record (and nil error) when nothing matches;
// the engine translates that into ErrNotFound.
//
// Implementations must surface lock/transaction timeouts as
// ErrTransient and unique-key violations as ErrConflict.
type Store interface {
	// WithinTx runs fn inside one transaction.  If fn returns an
	// error the transaction is rolled back and the error returned
	// unchanged; otherwise the transaction is committed.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	GetSeries(ctx context.Context, id uint64) (*model.Series, error)
	ListSeries(ctx context.Context, filter SeriesFilter) ([]model.Series, error)
	ListProvinces(ctx context.Context) ([]model.Province, error)
	ListItems(ctx context.Context, seriesID uint64) ([]model.Item, error)
	// Counts derives {total, available, used} from the current item
	// statuses.  total == available + used always holds because the
	// figures come from one scan, never from stored counters.
	Counts(ctx context.Context, seriesID uint64) (model.SeriesCounts, error)
	GetOrder(ctx context.Context, id uint64) (*model.Order, []model.OrderItem, error)
	GetIssuance(ctx context.Context, id uint64) (*model.Issuance, error)
}

// Tx is the set of operations available inside one transaction.  The
// ...ForUpdate methods must take row locks so concurrent transactions
// serialize on the rows they touch; SelectAvailableForUpdate in
// particular is what keeps two concurrent reservations from ever
// seeing the same item as available.
type Tx interface {
	// SeriesCodeExists reports whether a series with the code exists.
	// A zero provinceID checks globally; a non-zero one restricts the
	// check to that province.  excludeID ignores one series (the one
	// being updated); zero excludes nothing.
	SeriesCodeExists(ctx context.Context, code string, provinceID, excludeID uint64) (bool, error)
	InsertSeries(ctx context.Context, s *model.Series) error
	// InsertItems materializes one available item per value in
	// [start, end] for the series.
	InsertItems(ctx context.Context, seriesID uint64, start, end uint16) error
	GetSeriesForUpdate(ctx context.Context, id uint64) (*model.Series, error)
	UpdateSeries(ctx context.Context, s *model.Series) error

	// SelectAvailableForUpdate locks and returns up to limit available
	// items from active series in scope, ordered by series code, item
	// value, then series ID so identical pre-states yield identical
	// selections even when two series in scope share a code.
	SelectAvailableForUpdate(ctx context.Context, scope Scope, limit int) ([]PoolItem, error)
	GetItemForUpdate(ctx context.Context, itemID uint64) (*PoolItem, error)
	UpdateItemsStatus(ctx context.Context, itemIDs []uint64, status model.ItemStatus) error

	InsertOrder(ctx context.Context, o *model.Order) error
	InsertOrderItems(ctx context.Context, items []model.OrderItem) error
	GetOrderForUpdate(ctx context.Context, id uint64) (*model.Order, error)
	OrderItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, id uint64, status model.OrderStatus, reason *string) error

	InsertIssuance(ctx context.Context, iss *model.Issuance) error
	GetIssuanceForUpdate(ctx context.Context, id uint64) (*model.Issuance, error)
	UpdateIssuanceStatus(ctx context.Context, id uint64, status model.IssuanceStatus, reason *string) error
}
