package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	r "github.com/quipper/poc/crewcom/pkg/repositories/roster"
)

type SQLiteRepo struct{ db *sql.DB }

// Ensure interface compliance
var _ r.Repository = (*SQLiteRepo)(nil)

// NewSQLiteRepo opens the roster database at path and creates the nodes table
// when it does not exist yet.
func NewSQLiteRepo(path string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &r.StoreError{Op: "open", Err: err}
	}
	// One connection keeps pragmas consistent and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, &r.StoreError{Op: "open", Err: err}
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, &r.StoreError{Op: "init schema", Err: err}
	}
	return &SQLiteRepo{db: db}, nil
}

func (s *SQLiteRepo) Disconnect() { _ = s.db.Close() }

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS nodes (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  name TEXT
	);
	`)
	return err
}

func (s *SQLiteRepo) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &r.StoreError{Op: "ping", Err: err}
	}
	return nil
}

func (s *SQLiteRepo) ListMembers(ctx context.Context) ([]*r.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM nodes ORDER BY id ASC`)
	if err != nil {
		return nil, &r.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()
	var out []*r.Member
	for rows.Next() {
		var m r.Member
		var name sql.NullString
		if err := rows.Scan(&m.ID, &name); err != nil {
			return nil, &r.StoreError{Op: "list", Err: err}
		}
		if name.Valid {
			m.Name = name.String
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, &r.StoreError{Op: "list", Err: err}
	}
	return out, nil
}

func (s *SQLiteRepo) AddMember(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO nodes (name) VALUES (?)`, name)
	if err != nil {
		return 0, &r.StoreError{Op: "add", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &r.StoreError{Op: "add", Err: err}
	}
	return id, nil
}

func (s *SQLiteRepo) DeleteMember(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, id); err != nil {
		return &r.StoreError{Op: "delete", Err: err}
	}
	return nil
}
