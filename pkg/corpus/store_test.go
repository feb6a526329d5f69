package corpus

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestStore creates a fresh on-disk database and a Store for testing.
func setupTestStore(t *testing.T) (*sql.DB, *Store) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "corpus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SetupSchema(db))
	require.NoError(t, SetupSchema(db), "SetupSchema must be idempotent")

	s, err := NewStore(db)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return db, s
}

func TestAddAndOpenSource(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	src, err := s.AddSource(ctx, "fish", strings.NewReader("one fish two fish"))
	require.NoError(t, err)
	require.NotEmpty(t, src.ID)
	require.Equal(t, int64(17), src.Size)

	r, err := s.Open(ctx, "fish")
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "one fish two fish", string(body))

	got, err := s.GetSource(ctx, "fish")
	require.NoError(t, err)
	require.Equal(t, src.ID, got.ID)
	require.True(t, src.AddedAt.Equal(got.AddedAt), "added_at should round-trip at second precision")
}

func TestAddSourceReplacesContentKeepsID(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.AddSource(ctx, "doc", strings.NewReader("old"))
	require.NoError(t, err)
	second, err := s.AddSource(ctx, "doc", strings.NewReader("newer text"))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "re-adding a name must keep its ID")

	r, err := s.Open(ctx, "doc")
	require.NoError(t, err)
	body, _ := io.ReadAll(r)
	require.Equal(t, "newer text", string(body))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, StoreStats{Sources: 1, TotalBytes: 10}, st)
}

func TestAddSourceEmptyName(t *testing.T) {
	_, s := setupTestStore(t)
	_, err := s.AddSource(context.Background(), "", strings.NewReader("x"))
	require.Error(t, err)
}

func TestListAndRemoveSources(t *testing.T) {
	db, s := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := s.AddSource(ctx, name, strings.NewReader(name))
		require.NoError(t, err)
	}

	sources, err := s.ListSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	require.Equal(t, "alpha", sources[0].Name)
	require.Equal(t, "zeta", sources[2].Name)

	require.NoError(t, s.RemoveSource(ctx, "mid"))
	require.ErrorIs(t, s.RemoveSource(ctx, "mid"), ErrSourceNotFound)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM corpus_sources").Scan(&count))
	require.Equal(t, 2, count)
}

func TestMissingSource(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Open(ctx, "nope")
	require.ErrorIs(t, err, ErrSourceNotFound)

	_, err = s.GetSource(ctx, "nope")
	require.ErrorIs(t, err, ErrSourceNotFound)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, st.Sources)
	require.Zero(t, st.TotalBytes)
}

func TestNewStoreClosesStatementsOnFailure(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "legacy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// A table without the content column lets the metadata statements
	// prepare before the content statements fail.
	_, err = db.Exec(`CREATE TABLE corpus_sources (
    source_id TEXT PRIMARY KEY,
    source_name TEXT NOT NULL UNIQUE,
    added_at INTEGER NOT NULL,
    byte_len INTEGER NOT NULL
);`)
	require.NoError(t, err)

	_, err = NewStore(db)
	require.Error(t, err)

	s := &Store{db: db}
	require.Error(t, s.prepare())
	require.NotNil(t, s.stmtGetSource, "metadata statements prepare before the failing one")
	require.Nil(t, s.stmtUpsert)

	var n int
	err = s.stmtStats.QueryRowContext(context.Background()).Scan(&n, new(int64))
	require.ErrorContains(t, err, "statement is closed")

	s.Close() // safe on a partially prepared store

	_, err = db.Exec(`INSERT INTO corpus_sources VALUES ('id', 'name', 0, 0);`)
	require.NoError(t, err, "the database must stay usable after a failed NewStore")
}
