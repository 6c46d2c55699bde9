// Package repository is the data access layer.  Each aggregate gets a
// repo struct bound to a *sql.DB with plain methods plus ...Tx
// variants that run inside a caller-owned transaction.  The sentinel
// errors below are shared across repos so handlers can map failures to
// HTTP responses without string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or status change cannot be
// performed because of dependent state, such as removing a room that
// still has active reservations.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when a referenced row does not exist.  Repos
// wrap sql.ErrNoRows into this so handlers deal with a single value.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique key rejects an insert or
// update, e.g. a second room with the same number in one hotel.
var ErrDuplicate = errors.New("duplicate")

// isDuplicateKey detects a MySQL 1062 duplicate-entry error.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
