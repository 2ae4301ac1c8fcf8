// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// knowing which SQL driver produced them.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row, or when a write
// references a movie or cinema that does not exist.  Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrUnknownUser is returned when a write names a user that no longer
// exists, e.g. a token issued before the account was removed.
var ErrUnknownUser = errors.New("unknown user")

// ErrEmailExists is returned by UserRepo.Create when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// errDuplicate and errForeignKey classify driver errors; they never leave
// this package.
var (
	errDuplicate  = errors.New("duplicate key")
	errForeignKey = errors.New("foreign key violation")
)

// classify maps raw driver errors onto package sentinels.  MySQL is matched
// on error numbers; SQLite (used by tests) does not export typed errors
// through database/sql, so its messages are matched instead.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062: // ER_DUP_ENTRY
			return errDuplicate
		case 1452, 1216: // ER_NO_REFERENCED_ROW_2, ER_NO_REFERENCED_ROW
			return errForeignKey
		}
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return errDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errForeignKey
	}
	return err
}
