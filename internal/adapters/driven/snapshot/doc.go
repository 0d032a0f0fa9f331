// Package snapshot opens the static offline dataset.
//
// A snapshot is either a JSON file in canonical shape, served from memory and
// reloaded when the file changes, or a SQLite database built by
// "legis snapshot import", opened read-only.
package snapshot
