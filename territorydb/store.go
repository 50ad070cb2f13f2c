// Persists territory maps in a SQLite database, one snapshot per export.
package territorydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benoitkugler/svgmap/svgmap"
	"github.com/benoitkugler/svgmap/svgpath"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoExport is returned when the requested export does not exist.
var ErrNoExport = errors.New("territorydb: no such export")

// Export describes one stored snapshot.
type Export struct {
	ID          string
	CreatedAt   time.Time
	Source      string // free form, usually the source drawing
	Groups      int
	Territories int
}

// Store is a SQLite backed archive of territory maps.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the database at `path`.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exports (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		source TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS territory_groups (
		export_id TEXT NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		label TEXT NOT NULL,
		PRIMARY KEY (export_id, position)
	);

	CREATE TABLE IF NOT EXISTS territories (
		export_id TEXT NOT NULL,
		group_position INTEGER NOT NULL,
		position INTEGER NOT NULL,
		label TEXT NOT NULL,
		polygon TEXT NOT NULL,
		PRIMARY KEY (export_id, group_position, position),
		FOREIGN KEY (export_id, group_position) REFERENCES territory_groups(export_id, position) ON DELETE CASCADE
	);

	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores a snapshot of `m` and returns its description.
func (s *Store) Save(ctx context.Context, m *svgmap.TerritoryMap, source string) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := Export{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Source:      source,
		Groups:      len(m.Groups()),
		Territories: m.Len(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Export{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `INSERT INTO exports (id, created_at, source) VALUES (?, ?, ?)`,
		e.ID, e.CreatedAt, e.Source); err != nil {
		return Export{}, fmt.Errorf("failed to insert export: %w", err)
	}

	groupStmt, err := tx.PrepareContext(ctx, `INSERT INTO territory_groups (export_id, position, label) VALUES (?, ?, ?)`)
	if err != nil {
		return Export{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer groupStmt.Close()
	territoryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO territories (export_id, group_position, position, label, polygon)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Export{}, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer territoryStmt.Close()

	for i, g := range m.Groups() {
		if _, err = groupStmt.ExecContext(ctx, e.ID, i, g.Label); err != nil {
			return Export{}, fmt.Errorf("failed to insert group %q: %w", g.Label, err)
		}
		for j, t := range g.Territories {
			if _, err = territoryStmt.ExecContext(ctx, e.ID, i, j, t.Label, t.Polygon.String()); err != nil {
				return Export{}, fmt.Errorf("failed to insert territory %q: %w", t.Label, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return Export{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return e, nil
}

// Load returns the snapshot with the given ID.
func (s *Store) Load(ctx context.Context, id string) (*svgmap.TerritoryMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exports WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to query export: %w", err)
	}
	if exists == 0 {
		return nil, ErrNoExport
	}

	m := svgmap.NewTerritoryMap()
	groups, err := s.db.QueryContext(ctx, `SELECT label FROM territory_groups WHERE export_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	var labels []string
	for groups.Next() {
		var label string
		if err := groups.Scan(&label); err != nil {
			groups.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		labels = append(labels, label)
		m.AddGroup(label)
	}
	groups.Close()
	if err := groups.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT group_position, label, polygon FROM territories
		WHERE export_id = ? ORDER BY group_position, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query territories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			group          int
			label, polygon string
		)
		if err := rows.Scan(&group, &label, &polygon); err != nil {
			return nil, fmt.Errorf("failed to scan territory: %w", err)
		}
		if group < 0 || group >= len(labels) {
			return nil, fmt.Errorf("territorydb: territory %q has an invalid group %d", label, group)
		}
		m.Set(labels[group], label, svgpath.Polygon{polygon})
	}
	return m, rows.Err()
}

// Exports lists the stored snapshots, most recent first.
func (s *Store) Exports(ctx context.Context) ([]Export, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.created_at, e.source,
			(SELECT COUNT(*) FROM territory_groups g WHERE g.export_id = e.id),
			(SELECT COUNT(*) FROM territories t WHERE t.export_id = e.id)
		FROM exports e ORDER BY e.rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Source, &e.Groups, &e.Territories); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Latest returns the most recent snapshot.
func (s *Store) Latest(ctx context.Context) (*svgmap.TerritoryMap, Export, error) {
	exports, err := s.Exports(ctx)
	if err != nil {
		return nil, Export{}, err
	}
	if len(exports) == 0 {
		return nil, Export{}, ErrNoExport
	}
	m, err := s.Load(ctx, exports[0].ID)
	return m, exports[0], err
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM exports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete export: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoExport
	}
	return nil
}
