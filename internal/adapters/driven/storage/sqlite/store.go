package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/legis/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/legis/internal/core/domain"
	"github.com/custodia-labs/legis/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// DBFile is the snapshot database file name inside the data directory.
const DBFile = "snapshot.db"

const metaGeneratedAt = "generated_at"

// Store is a SQLite-backed static snapshot.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// NewStore opens (creating if needed) the snapshot database in dataDir.
// If dataDir is empty, defaults to ~/.legis/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".legis", "data")
	}

	return Create(filepath.Join(dataDir, DBFile))
}

// Create opens a writable snapshot database at dbPath, creating the file
// and its directory if needed.
func Create(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// OpenReadOnly opens an existing snapshot database without write access.
// The file must already carry the snapshot schema.
func OpenReadOnly(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s is not a snapshot database: %v", domain.ErrInvalidInput, dbPath, err)
	}

	return &Store{db: db, path: dbPath, readOnly: true}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Import replaces the stored snapshot with snap in a single transaction.
// Records without an identifier are skipped.
func (s *Store) Import(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	if s.readOnly {
		return fmt.Errorf("%w: snapshot database opened read-only", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"bills", "members", "committees", "snapshot_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, b := range snap.Bills {
		if b.ID == "" {
			continue
		}
		body, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshalling bill %s: %w", b.ID, err)
		}
		number, _ := strconv.Atoi(b.Number)
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO bills (id, congress, type, number, body) VALUES (?, ?, ?, ?, ?)`,
			strings.ToLower(b.ID), b.Congress, strings.ToLower(b.Type), number, string(body))
		if err != nil {
			return fmt.Errorf("inserting bill %s: %w", b.ID, err)
		}
	}

	for _, m := range snap.Members {
		if m.BioguideID == "" {
			continue
		}
		body, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshalling member %s: %w", m.BioguideID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO members (bioguide_id, state, name, current, body) VALUES (?, ?, ?, ?, ?)`,
			strings.ToUpper(m.BioguideID), strings.ToUpper(m.State), m.Name, m.Current, string(body))
		if err != nil {
			return fmt.Errorf("inserting member %s: %w", m.BioguideID, err)
		}
	}

	for _, c := range snap.Committees {
		if c.Code == "" {
			continue
		}
		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshalling committee %s: %w", c.Code, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO committees (chamber, code, body) VALUES (?, ?, ?)`,
			strings.ToLower(c.Chamber), strings.ToLower(c.Code), string(body))
		if err != nil {
			return fmt.Errorf("inserting committee %s: %w", c.Code, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (key, value) VALUES (?, ?)`,
		metaGeneratedAt, snap.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing snapshot metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// GeneratedAt returns when the stored snapshot was built, or the zero time
// if nothing has been imported.
func (s *Store) GeneratedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = ?`, metaGeneratedAt).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading snapshot metadata: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

// Counts returns the number of stored records of each kind.
func (s *Store) Counts(ctx context.Context) (map[domain.RecordKind]int, error) {
	counts := make(map[domain.RecordKind]int, 3)
	for kind, table := range map[domain.RecordKind]string{
		domain.KindBill:      "bills",
		domain.KindMember:    "members",
		domain.KindCommittee: "committees",
	} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", table, err)
		}
		counts[kind] = n
	}
	return counts, nil
}

// Bill returns a bill by ID.
func (s *Store) Bill(ctx context.Context, id string) (domain.Bill, error) {
	return queryOne[domain.Bill](ctx, s.db,
		`SELECT body FROM bills WHERE id = ?`, strings.ToLower(id))
}

// Bills returns a page of the bills of a congress, ordered by type and
// number. An unknown congress is ErrNotFound; a page past the end is empty.
func (s *Store) Bills(ctx context.Context, congress int, page domain.Page) ([]domain.Bill, error) {
	page = page.Normalised()
	if err := s.exists(ctx, `SELECT 1 FROM bills WHERE congress = ? LIMIT 1`, congress); err != nil {
		return nil, err
	}
	return queryAll[domain.Bill](ctx, s.db,
		`SELECT body FROM bills WHERE congress = ? ORDER BY type, number LIMIT ? OFFSET ?`,
		congress, page.Limit, page.Offset)
}

// Member returns a member by bioguide ID.
func (s *Store) Member(ctx context.Context, bioguideID string) (domain.Member, error) {
	return queryOne[domain.Member](ctx, s.db,
		`SELECT body FROM members WHERE bioguide_id = ?`, strings.ToUpper(bioguideID))
}

// MembersByState returns the current members representing a state.
func (s *Store) MembersByState(ctx context.Context, state string) ([]domain.Member, error) {
	members, err := queryAll[domain.Member](ctx, s.db,
		`SELECT body FROM members WHERE state = ? AND current = 1 ORDER BY name`,
		strings.ToUpper(state))
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.ErrNotFound
	}
	return members, nil
}

// Committee returns a committee by chamber and system code.
func (s *Store) Committee(ctx context.Context, chamber, code string) (domain.Committee, error) {
	return queryOne[domain.Committee](ctx, s.db,
		`SELECT body FROM committees WHERE chamber = ? AND code = ?`,
		strings.ToLower(chamber), strings.ToLower(code))
}

// Committees returns the committees of a chamber.
func (s *Store) Committees(ctx context.Context, chamber string) ([]domain.Committee, error) {
	committees, err := queryAll[domain.Committee](ctx, s.db,
		`SELECT body FROM committees WHERE chamber = ? ORDER BY code`, strings.ToLower(chamber))
	if err != nil {
		return nil, err
	}
	if len(committees) == 0 {
		return nil, domain.ErrNotFound
	}
	return committees, nil
}

func (s *Store) exists(ctx context.Context, query string, args ...any) error {
	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("querying snapshot: %w", err)
	}
	return nil
}

// canonical is a snapshot record that can fill its own missing defaults.
type canonical[T any] interface {
	WithDefaults() T
}

func queryOne[T canonical[T]](ctx context.Context, db *sql.DB, query string, args ...any) (T, error) {
	var zero T
	var body string
	err := db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("querying snapshot: %w", err)
	}

	var v T
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return zero, fmt.Errorf("decoding snapshot record: %w", err)
	}
	return v.WithDefaults(), nil
}

func queryAll[T canonical[T]](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning snapshot record: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("decoding snapshot record: %w", err)
		}
		out = append(out, v.WithDefaults())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot records: %w", err)
	}
	return out, nil
}
