package taxonomy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// SQLiteStore persists terms in SQLite. The UNIQUE(parent, code) constraint
// is what guarantees exactly one term per distinct place under concurrent
// creation: the loser of a race gets ErrDuplicate and re-reads.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS location_terms (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	name   TEXT NOT NULL,
	code   TEXT NOT NULL COLLATE NOCASE,
	parent INTEGER NOT NULL DEFAULT 0,
	UNIQUE (parent, code)
);
CREATE INDEX IF NOT EXISTS idx_location_terms_parent ON location_terms(parent);
`

// NewSQLiteStore opens (and migrates) a term database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open term db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate term db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Create(ctx context.Context, t Term) (TermID, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO location_terms (name, code, parent) VALUES (?, ?, ?)`,
		t.Name, t.Code, t.Parent)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return 0, fmt.Errorf("%w: code %q under %d", ErrDuplicate, t.Code, t.Parent)
		}
		return 0, fmt.Errorf("insert term: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return TermID(id), nil
}

func (s *SQLiteStore) Get(ctx context.Context, id TermID) (Term, bool, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, name, code, parent FROM location_terms WHERE id = ?`, id))
}

func (s *SQLiteStore) FindByCode(ctx context.Context, parent TermID, code string) (Term, bool, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, name, code, parent FROM location_terms WHERE parent = ? AND code = ?`,
		parent, code))
}

func (s *SQLiteStore) FindByName(ctx context.Context, parent TermID, name string) (Term, bool, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, name, code, parent FROM location_terms
		 WHERE parent = ? AND name = ? COLLATE NOCASE`,
		parent, name))
}

func (s *SQLiteStore) Ancestors(ctx context.Context, id TermID) ([]Term, error) {
	var chain []Term
	cur := id
	for {
		t, ok, err := s.Get(ctx, cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: term %d missing", ErrIntegrity, cur)
		}
		if t.Parent == RootID {
			return chain, nil
		}
		parent, ok, err := s.Get(ctx, t.Parent)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: parent %d of term %d missing", ErrIntegrity, t.Parent, cur)
		}
		chain = append(chain, parent)
		cur = parent.ID
		if len(chain) > maxDepth+1 {
			return chain, nil
		}
	}
}

func (s *SQLiteStore) scanOne(row *sql.Row) (Term, bool, error) {
	var t Term
	err := row.Scan(&t.ID, &t.Name, &t.Code, &t.Parent)
	if errors.Is(err, sql.ErrNoRows) {
		return Term{}, false, nil
	}
	if err != nil {
		return Term{}, false, err
	}
	return t, true, nil
}
