// Package repository is the entity store: durable records for users,
// dining tables, reservations and the reservation_tables join.  Every
// repository runs against a Querier so the same code serves plain reads
// on *sql.DB and writes inside a Store.Atomic unit of work.
//
// The sentinel values below let higher layers distinguish failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by id yields no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned when an insert violates a unique key.  The
// concrete error is a *DuplicateKeyError naming the offending column.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrInUse is returned when a dining table cannot be deleted because
// reservations still reference it.
var ErrInUse = errors.New("still referenced")

// DuplicateKeyError reports which unique column was violated.
type DuplicateKeyError struct {
	Column string // username, email, table_number or "" when unknown
}

func (e *DuplicateKeyError) Error() string {
	if e.Column == "" {
		return ErrDuplicateKey.Error()
	}
	return ErrDuplicateKey.Error() + ": " + e.Column
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// uniqueColumns are checked against the driver message to find which
// constraint fired.  MySQL reports the key name (uq_users_username),
// SQLite the column (users.username); both contain the column name.
var uniqueColumns = []string{"username", "email", "table_number"}

// asDuplicateKey converts a unique violation from either driver into a
// *DuplicateKeyError.  Other errors are returned unchanged.
func asDuplicateKey(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	isDup := errors.As(err, &myErr) && myErr.Number == 1062
	msg := strings.ToLower(err.Error())
	if !isDup && !strings.Contains(msg, "unique constraint failed") {
		return err
	}
	for _, col := range uniqueColumns {
		if strings.Contains(msg, col) {
			return &DuplicateKeyError{Column: col}
		}
	}
	return &DuplicateKeyError{}
}
