package model

import "time"

// Province is immutable reference data describing the administrative
// region a plate series belongs to.  Provinces are seeded once and
// never modified through the API; they exist so that series codes can
// be scoped per province and reports can group allocations.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable name of the province.
//  Code      – short administrative code.
//  CreatedAt – creation timestamp.
type Province struct {
	ID        uint64    // provinces.id
	Name      string    // provinces.name
	Code      string    // provinces.code
	CreatedAt time.Time // provinces.created_at
}
