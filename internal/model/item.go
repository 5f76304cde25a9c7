package model

import (
	"fmt"
	"time"
)

// ItemStatus enumerates the states of a plate slot.  The only legal
// transitions are AVAILABLE→USED (reservation or issuance) and
// USED→AVAILABLE (cancellation restore).
type ItemStatus string

const (
	ItemAvailable ItemStatus = "AVAILABLE"
	ItemUsed      ItemStatus = "USED"
)

// Item is one plate slot within a series, identified by the pair
// (series_id, value).  Items are created in bulk when their series is
// created, one per value in the range, and are never deleted.
//
// Fields:
//  ID        – primary key identifier.
//  SeriesID  – series the slot belongs to.
//  Value     – numeric plate value within the series range.
//  Status    – AVAILABLE or USED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Item struct {
	ID        uint64     // items.id
	SeriesID  uint64     // items.series_id
	Value     uint16     // items.value
	Status    ItemStatus // items.status
	CreatedAt time.Time  // items.created_at
	UpdatedAt time.Time  // items.updated_at
}

// PlateLabel renders the public plate identifier for a series code and
// item value: the code, a space, and the value zero-padded to three
// digits (e.g. "AB 007").
func PlateLabel(code string, value uint16) string {
	return fmt.Sprintf("%s %03d", code, value)
}
