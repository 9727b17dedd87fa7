// Package shared holds small cross-cutting helpers that have no better home.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import "strings"

// IsSQLiteConflictError reports whether err is a SQLite concurrency failure:
// SQLITE_BUSY or "database is locked". Writers that can lose a WAL race, like
// the conversation log, retry on these; anything else is a real error.
func IsSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
