// Package sqlite provides a SQLite-backed static snapshot store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Records are stored as canonical JSON alongside the columns
// they are looked up by, so a row decodes straight back into the domain type.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.legis/data/snapshot.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. Import replaces the whole
// snapshot inside one transaction, so readers never see a partial import.
package sqlite
