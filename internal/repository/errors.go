// Package repository implements the engine's persistence boundary on
// MySQL.  Each aggregate gets a concrete repo over *sql.DB with ...Tx
// variants that run inside an existing transaction; Store composes
// them into the engine.Store interface.  Driver-level failures are
// translated here into the engine's stable error taxonomy so that
// handlers never see MySQL error numbers.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/kabasele/plate-allocation/internal/engine"
)

// MySQL server error numbers the engine cares about.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// mapErr translates driver errors into engine sentinels: duplicate
// keys become ErrConflict, lock timeouts and deadlocks become the
// retryable ErrTransient.  Errors that already carry an engine kind
// (or are unrelated to the driver) pass through unchanged.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrDuplicateEntry:
			return fmt.Errorf("%w: %v", engine.ErrConflict, err)
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return fmt.Errorf("%w: %v", engine.ErrTransient, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", engine.ErrTransient, err)
	}
	return err
}
