// Package engine implements the plate-series allocation and
// financial-distribution core: series registry, reservation engine,
// issuance ledger, and the pure pricing and distribution functions.
// It is consumed by the HTTP layer through synchronous calls and owns
// no wire format.  Sentinel errors below form the stable taxonomy
// callers match with errors.Is; the human-readable detail wrapped
// around them is informational only.
package engine

import (
	"errors"
	"fmt"
)

// ErrValidation is returned for malformed input: bad series codes or
// ranges, non-positive counts, malformed descriptors.  The caller must
// correct the request.
var ErrValidation = errors.New("validation")

// ErrConflict is returned when a series code already exists within the
// configured uniqueness scope.
var ErrConflict = errors.New("conflict")

// ErrInsufficientStock is returned by Reserve when fewer available
// items exist in scope than requested.  Nothing is allocated.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrItemNotAvailable is returned by Issue when the target item is not
// currently available.
var ErrItemNotAvailable = errors.New("item not available")

// ErrNotFound is returned when the referenced series, order or
// issuance does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyCancelled is returned on a repeated cancellation.  The
// first cancel wins; repeats fail and change nothing.
var ErrAlreadyCancelled = errors.New("already cancelled")

// ErrOverAllocation is returned by Distribute when the declared fixed
// shares sum to more than the total being distributed.
var ErrOverAllocation = errors.New("over-allocation")

// ErrEmptyBeneficiaryList is returned by Distribute when a positive
// total has nobody to receive it.  It is a validation failure, so it
// also matches ErrValidation.
var ErrEmptyBeneficiaryList = fmt.Errorf("%w: empty beneficiary list", ErrValidation)

// ErrTransient is returned when the underlying store times out on a
// lock or aborts a transaction due to a deadlock.  It is the only
// error kind that is safe to retry automatically; the store is left
// exactly as before the call.
var ErrTransient = errors.New("transient")

// validationf wraps ErrValidation with a formatted detail message.
func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
