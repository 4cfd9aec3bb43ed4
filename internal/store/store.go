// Package store provides durable backends for the single JSON blob that
// holds the transaction list, category catalog and settings. Every backend
// overwrites the whole blob on save; there are no partial updates and no
// cross-session concurrency control (last write wins).
package store

import "errors"

// DefaultKey is the well-known key the blob is stored under in key-value
// backends. It matches the original storage layout so existing data can be
// carried over.
const DefaultKey = "expenseTrackerData"

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown store backend")
