/*
Package corpus keeps named training texts in a SQLite database so that a
Markov model can be rebuilt from the same sources across runs. Only the raw
sources are stored; models are always rebuilt in memory from them.

The package is driver-agnostic: open the *sql.DB with either
modernc.org/sqlite or github.com/mattn/go-sqlite3 and call SetupSchema once.
*/
package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrSourceNotFound is returned when a named source does not exist.
var ErrSourceNotFound = errors.New("corpus: source not found")

// Source is the metadata of one stored training text.
type Source struct {
	ID      string
	Name    string
	AddedAt time.Time
	Size    int64 // content length in bytes
}

// StoreStats holds aggregated statistics for the whole store.
type StoreStats struct {
	Sources    int   // The number of stored sources
	TotalBytes int64 // The combined size of all source texts
}

// SetupSchema initializes the corpus table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaSources = `
CREATE TABLE IF NOT EXISTS corpus_sources (
    source_id TEXT PRIMARY KEY,
    source_name TEXT NOT NULL UNIQUE,
    added_at INTEGER NOT NULL,
    byte_len INTEGER NOT NULL,
    content TEXT NOT NULL
);
`
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaSources); err != nil {
		return fmt.Errorf("could not create corpus schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store provides access to stored sources through prepared statements.
type Store struct {
	db             *sql.DB
	stmtUpsert     *sql.Stmt
	stmtGetSource  *sql.Stmt
	stmtGetContent *sql.Stmt
	stmtList       *sql.Stmt
	stmtRemove     *sql.Stmt
	stmtStats      *sql.Stmt
	logger         *slog.Logger
}

// NewStore prepares all statements against db, which must already have the
// schema from SetupSchema.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return s, nil
}

// prepare fills every statement field. On failure the statements prepared so
// far are closed again.
func (s *Store) prepare() error {
	stmts := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.stmtGetSource, `SELECT source_id, added_at, byte_len FROM corpus_sources WHERE source_name = ?;`},
		{&s.stmtList, `SELECT source_id, source_name, added_at, byte_len FROM corpus_sources ORDER BY source_name;`},
		{&s.stmtRemove, `DELETE FROM corpus_sources WHERE source_name = ?;`},
		{&s.stmtStats, `SELECT COUNT(*), coalesce(SUM(byte_len), 0) FROM corpus_sources;`},
		{&s.stmtGetContent, `SELECT content FROM corpus_sources WHERE source_name = ?;`},
		{&s.stmtUpsert, `INSERT INTO corpus_sources (source_id, source_name, added_at, byte_len, content) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(source_name) DO UPDATE SET added_at = excluded.added_at, byte_len = excluded.byte_len, content = excluded.content
RETURNING source_id;`},
	}
	for _, st := range stmts {
		stmt, err := s.db.Prepare(st.query)
		if err != nil {
			s.Close()
			return fmt.Errorf("could not prepare corpus statement: %w", err)
		}
		*st.dst = stmt
	}
	return nil
}

// Close releases all prepared statements held by the Store.
func (s *Store) Close() {
	for _, stmt := range []*sql.Stmt{s.stmtUpsert, s.stmtGetSource, s.stmtGetContent, s.stmtList, s.stmtRemove, s.stmtStats} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// AddSource reads r to the end and stores it under name. Adding a name that
// already exists replaces its content and keeps its ID.
func (s *Store) AddSource(ctx context.Context, name string, r io.Reader) (Source, error) {
	if name == "" {
		return Source{}, errors.New("corpus: source name must not be empty")
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("could not read source '%s': %w", name, err)
	}

	src := Source{
		Name:    name,
		AddedAt: time.Now().UTC().Truncate(time.Second),
		Size:    int64(len(content)),
	}
	err = s.stmtUpsert.QueryRowContext(ctx, uuid.NewString(), name, src.AddedAt.Unix(), src.Size, string(content)).Scan(&src.ID)
	if err != nil {
		return Source{}, fmt.Errorf("could not store source '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Corpus source stored",
		slog.String("source_name", name),
		slog.String("source_id", src.ID),
		slog.Int64("bytes", src.Size),
	)
	return src, nil
}

// GetSource returns the metadata of the named source.
func (s *Store) GetSource(ctx context.Context, name string) (Source, error) {
	src := Source{Name: name}
	var addedAt int64
	err := s.stmtGetSource.QueryRowContext(ctx, name).Scan(&src.ID, &addedAt, &src.Size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Source{}, fmt.Errorf("%w: '%s'", ErrSourceNotFound, name)
		}
		return Source{}, err
	}
	src.AddedAt = time.Unix(addedAt, 0).UTC()
	return src, nil
}

// ListSources returns every stored source ordered by name.
func (s *Store) ListSources(ctx context.Context) ([]Source, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	sources := make([]Source, 0)
	for rows.Next() {
		var src Source
		var addedAt int64
		if err = rows.Scan(&src.ID, &src.Name, &addedAt, &src.Size); err != nil {
			return nil, err
		}
		src.AddedAt = time.Unix(addedAt, 0).UTC()
		sources = append(sources, src)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}

// RemoveSource deletes the named source.
func (s *Store) RemoveSource(ctx context.Context, name string) error {
	res, err := s.stmtRemove.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove source '%s': %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: '%s'", ErrSourceNotFound, name)
	}

	s.logger.InfoContext(ctx, "Corpus source removed", slog.String("source_name", name))
	return nil
}

// Open returns a reader over the named source's text.
func (s *Store) Open(ctx context.Context, name string) (io.Reader, error) {
	var content string
	err := s.stmtGetContent.QueryRowContext(ctx, name).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: '%s'", ErrSourceNotFound, name)
		}
		return nil, err
	}
	return strings.NewReader(content), nil
}

// Stats returns a snapshot of the store's size.
func (s *Store) Stats(ctx context.Context) (StoreStats, error) {
	var st StoreStats
	if err := s.stmtStats.QueryRowContext(ctx).Scan(&st.Sources, &st.TotalBytes); err != nil {
		return StoreStats{}, err
	}
	return st, nil
}
