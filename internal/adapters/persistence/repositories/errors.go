package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"somity-ledger/internal/core/domain"
)

// MySQL server error numbers we classify
const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// mapError translates driver and gorm errors into the domain taxonomy.
// notFound is returned for gorm.ErrRecordNotFound; errors that are already
// domain errors pass through unchanged.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFound == nil {
			return domain.ErrNotFound
		}
		return notFound
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransientStore, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", domain.ErrConflict, mysqlErr.Message)
	}
	return err
}

// isTransient reports whether retrying the same unit may succeed
func isTransient(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDeadlock || mysqlErr.Number == mysqlLockWaitTimeout
	}
	return errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded)
}
