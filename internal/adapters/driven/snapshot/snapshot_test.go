package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/legis/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/legis/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/legis/internal/core/domain"
)

func snapshotWithTitle(title string) *domain.Snapshot {
	return &domain.Snapshot{
		GeneratedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Bills: []domain.Bill{
			{ID: "118-hr-1234", Congress: 118, Type: "hr", Number: "1234", Title: title},
		},
		Members: []domain.Member{
			{BioguideID: "S000001", Name: "Smith, Jane", State: "CA", Current: true},
		},
	}
}

// writeAtomically writes data next to path and renames it into place.
func writeAtomically(t *testing.T, path string, data []byte) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, data, 0600))
	require.NoError(t, os.Rename(tmp, path))
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, marshal(t, snapshotWithTitle("Clean Water Act")), 0600))

	snap, err := Load(path)
	require.NoError(t, err)
	require.Len(t, snap.Bills, 1)
	assert.Equal(t, "Clean Water Act", snap.Bills[0].Title)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsDatabase(t *testing.T) {
	assert.True(t, IsDatabase("/data/snapshot.db"))
	assert.True(t, IsDatabase("snap.SQLITE"))
	assert.False(t, IsDatabase("snapshot.json"))
	assert.False(t, IsDatabase("snapshot"))
}

func TestOpen_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, marshal(t, snapshotWithTitle("Clean Water Act")), 0600))

	opened, err := Open(path)
	require.NoError(t, err)
	defer opened.Close()

	require.NotNil(t, opened.Watcher)
	b, err := opened.Store.Bill(context.Background(), "118-hr-1234")
	require.NoError(t, err)
	assert.Equal(t, "Clean Water Act", b.Title)
}

func TestOpen_Database(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, db.Import(context.Background(), snapshotWithTitle("From DB")))
	require.NoError(t, db.Close())

	opened, err := Open(filepath.Join(dir, sqlite.DBFile))
	require.NoError(t, err)
	defer opened.Close()

	assert.Nil(t, opened.Watcher)
	b, err := opened.Store.Bill(context.Background(), "118-hr-1234")
	require.NoError(t, err)
	assert.Equal(t, "From DB", b.Title)
}

func TestOpen_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0600))

	_, err := Open(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func startWatcher(t *testing.T, path string) (*memory.SnapshotStore, *Watcher) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, marshal(t, snapshotWithTitle("v1")), 0600))

	snap, err := Load(path)
	require.NoError(t, err)
	store := memory.NewSnapshotStore(snap)

	w, err := NewWatcher(path, store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
		wg.Wait()
	})
	return store, w
}

func waitReload(t *testing.T, w *Watcher) error {
	t.Helper()
	select {
	case err := <-w.Reloads():
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot reload")
		return nil
	}
}

func TestWatcher_ReloadsOnReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store, w := startWatcher(t, path)

	writeAtomically(t, path, marshal(t, snapshotWithTitle("v2")))
	require.NoError(t, waitReload(t, w))

	b, err := store.Bill(context.Background(), "118-hr-1234")
	require.NoError(t, err)
	assert.Equal(t, "v2", b.Title)
}

func TestWatcher_KeepsPreviousOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store, w := startWatcher(t, path)

	writeAtomically(t, path, []byte("{broken"))
	assert.Error(t, waitReload(t, w))

	b, err := store.Bill(context.Background(), "118-hr-1234")
	require.NoError(t, err)
	assert.Equal(t, "v1", b.Title)
}

type recordingReplacer struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingReplacer) Replace(*domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
}

func TestWatcher_HandleEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(path, marshal(t, snapshotWithTitle("v1")), 0600))
	require.NoError(t, os.WriteFile(other, marshal(t, snapshotWithTitle("other")), 0600))

	tests := []struct {
		name       string
		event      fsnotify.Event
		wantReload bool
	}{
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"rename away", fsnotify.Event{Name: path, Op: fsnotify.Rename}, false},
		{"other file", fsnotify.Event{Name: other, Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingReplacer{}
			w, err := NewWatcher(path, r)
			require.NoError(t, err)
			defer w.Close()

			w.handleEvent(tt.event)
			if tt.wantReload {
				assert.Equal(t, 1, r.calls)
			} else {
				assert.Equal(t, 0, r.calls)
			}
		})
	}
}
