package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/legis/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/legis/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
	"github.com/custodia-labs/legis/internal/logger"
)

// Load reads a JSON snapshot file.
func Load(path string) (*domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a JSON snapshot.
func Decode(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot: %v", domain.ErrInvalidInput, err)
	}
	return &snap, nil
}

// IsDatabase reports whether path names a SQLite snapshot rather than JSON.
func IsDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

// Opened is a snapshot store together with whatever keeps it alive.
type Opened struct {
	Store   driven.SnapshotStore
	Watcher *Watcher
	closer  io.Closer
}

// Close releases the database or stops the watcher.
func (o *Opened) Close() error {
	if o.Watcher != nil {
		_ = o.Watcher.Close()
	}
	if o.closer != nil {
		return o.closer.Close()
	}
	return nil
}

// Open opens the snapshot at path. A JSON snapshot is loaded into memory
// and gets a watcher that the caller should Run; a database is opened
// read-only.
func Open(path string) (*Opened, error) {
	if IsDatabase(path) {
		store, err := sqlite.OpenReadOnly(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("snapshot: opened database %s", path)
		return &Opened{Store: store, closer: store}, nil
	}

	snap, err := Load(path)
	if err != nil {
		return nil, err
	}
	store := memory.NewSnapshotStore(snap)

	watcher, err := NewWatcher(path, store)
	if err != nil {
		return nil, err
	}

	counts := snap.Counts()
	logger.Debug("snapshot: loaded %s (%d bills, %d members, %d committees)",
		path, counts[domain.KindBill], counts[domain.KindMember], counts[domain.KindCommittee])
	return &Opened{Store: store, Watcher: watcher}, nil
}
