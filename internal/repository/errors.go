// Package repository contains data access logic separated from HTTP
// handlers. This file defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers such
// as handlers to distinguish between different failure scenarios; for
// example ErrCollectionNotFound covers both a collection that does not
// exist and one owned by another user, so handlers cannot leak existence
// information to non-owners.
package repository

import (
	"errors"
	"strings"
)

// ErrCollectionNotFound is returned when a collection lookup by
// (owner, uuid) finds no row. A collection owned by someone else is
// indistinguishable from a nonexistent one. Handlers should translate
// this into an HTTP 404 response.
var ErrCollectionNotFound = errors.New("collection not found")

// ErrEmailExists is returned when registering with an email address
// that is already taken. Handlers should translate this into an HTTP
// 409 response.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062, raised on unique constraint violations).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
