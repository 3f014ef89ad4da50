package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes reported by lib/pq.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translate folds driver errors that gorm's own translator misses into gorm's
// sentinels. gorm.io/driver/postgres only recognises pgx errors, so lib/pq
// constraint failures are mapped here, and raw sqlite3 errors that slip past
// the dialector get the same treatment.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", gorm.ErrDuplicatedKey, pqErr.Message)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", gorm.ErrForeignKeyViolated, pqErr.Message)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", gorm.ErrDuplicatedKey, liteErr.Error())
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %s", gorm.ErrForeignKeyViolated, liteErr.Error())
		case sqlite3.ErrConstraintTrigger:
			// ON DELETE RESTRICT is reported as a trigger constraint.
			if strings.Contains(liteErr.Error(), "FOREIGN KEY") {
				return fmt.Errorf("%w: %s", gorm.ErrForeignKeyViolated, liteErr.Error())
			}
		}
	}
	return err
}
