package model

import (
	"regexp"
	"time"
)

// seriesCodePattern matches exactly two uppercase letters, the only
// legal shape for a series code.
var seriesCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// Series defines a named numeric range of plate numbers inside a
// province.  The range is fixed at creation time and never resized;
// deactivating a series only blocks future reservations and never
// touches items that are already used.
//
// Fields:
//  ID          – primary key identifier.
//  ProvinceID  – province the series belongs to.
//  Code        – two uppercase letters, unique within its scope.
//  RangeStart  – first plate value of the range (1..999).
//  RangeEnd    – last plate value of the range (start ≤ end ≤ 999).
//  Description – free-form operator note.
//  Active      – whether the series is eligible for new reservations.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Series struct {
	ID          uint64    // series.id
	ProvinceID  uint64    // series.province_id
	Code        string    // series.code
	RangeStart  uint16    // series.range_start
	RangeEnd    uint16    // series.range_end
	Description string    // series.description
	Active      bool      // series.active
	CreatedAt   time.Time // series.created_at
	UpdatedAt   time.Time // series.updated_at
}

// ValidSeriesCode reports whether code is exactly two uppercase letters.
func ValidSeriesCode(code string) bool {
	return seriesCodePattern.MatchString(code)
}

// ValidSeriesRange reports whether the bounds form a legal plate range.
// Values run from 1 to 999 and the start may not exceed the end.
func ValidSeriesRange(start, end uint16) bool {
	return start >= 1 && start <= end && end <= 999
}

// Size returns the number of item slots the series materializes.
func (s *Series) Size() int {
	return int(s.RangeEnd-s.RangeStart) + 1
}

// SeriesCounts summarizes the state of a series' item pool.  The
// counts are always derived from the current item statuses; Total is
// Available plus Used by construction and never stored independently.
type SeriesCounts struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Used      int `json:"used"`
}
