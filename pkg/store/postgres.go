package store

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/errors"
)

// PostgresStore persists saved galleries in a PostgreSQL table with the
// composition document stored as JSONB.
type PostgresStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS saved_galleries (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// NewPostgresStore connects with the given DSN and ensures the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "open postgres connection")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping postgres")
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ensure saved_galleries table")
	}
	return &PostgresStore{db: db}, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, name string, doc codec.Document, opts SaveOptions) (*SavedGallery, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := prepare(name, opts, existing)
	if err != nil {
		return nil, err
	}
	for _, prev := range existing {
		if prev.ID == rec.ID {
			rec.CreatedAt = prev.CreatedAt
			break
		}
	}
	rec.Document = doc

	docJSON, err := json.Marshal(rec.Document)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode gallery document")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_galleries (id, name, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.Name, docJSON, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "save gallery %q", name)
	}
	out := *rec
	return &out, nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, id string) (*SavedGallery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM saved_galleries WHERE id = $1`, id)

	rec, err := scanGallery(row.Scan)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get gallery %q", id)
	}
	return rec, nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context) ([]*SavedGallery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM saved_galleries ORDER BY updated_at DESC`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list galleries")
	}
	defer rows.Close()

	var records []*SavedGallery
	for rows.Next() {
		rec, err := scanGallery(rows.Scan)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "scan gallery row")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate gallery rows")
	}
	return records, nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_galleries WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete gallery %q", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(id)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// scanGallery reads one row through the given scan function.
func scanGallery(scan func(dest ...any) error) (*SavedGallery, error) {
	var rec SavedGallery
	var docJSON []byte
	if err := scan(&rec.ID, &rec.Name, &docJSON, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(docJSON, &rec.Document); err != nil {
		return nil, err
	}
	return &rec, nil
}

var _ Store = (*PostgresStore)(nil)
