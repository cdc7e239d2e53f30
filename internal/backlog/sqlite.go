package backlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrRecordNotFound is returned when a record id does not exist.
var ErrRecordNotFound = errors.New("record not found")

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	tbl        TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS records_tbl ON records (tbl, created_at);
`

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
// ":memory:" gives a throwaway in-memory store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Create(ctx context.Context, table string, fields Fields) (Record, error) {
	rec := Record{
		ID:          newRecordID(),
		CreatedTime: s.now().UTC(),
		Fields:      cloneFields(fields),
	}
	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return Record{}, fmt.Errorf("marshal fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, tbl, fields, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, table, string(data), rec.CreatedTime.Format(time.RFC3339Nano))
	if err != nil {
		return Record{}, fmt.Errorf("create record in %s: %w", table, err)
	}
	return rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, table string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, fields, created_at FROM records WHERE tbl = ? ORDER BY created_at, rowid`, table)
	if err != nil {
		return nil, fmt.Errorf("list records in %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records in %s: %w", table, err)
	}
	return records, nil
}

func (s *SQLiteStore) Update(ctx context.Context, table, id string, fields Fields, replace bool) (Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx,
		`SELECT id, fields, created_at FROM records WHERE tbl = ? AND id = ?`, table, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("update record %s: %w", id, ErrRecordNotFound)
	}
	if err != nil {
		return Record{}, err
	}

	if replace {
		rec.Fields = cloneFields(fields)
	} else {
		for k, v := range fields {
			rec.Fields[k] = v
		}
	}

	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return Record{}, fmt.Errorf("marshal fields: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET fields = ? WHERE tbl = ? AND id = ?`, string(data), table, id); err != nil {
		return Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("update record %s: %w", id, err)
	}
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, table, id string) (DeleteResult, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE tbl = ? AND id = ?`, table, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete record %s: %w", id, err)
	}
	return DeleteResult{ID: id, Deleted: n > 0}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		rawFields string
		created   string
	)
	if err := row.Scan(&rec.ID, &rawFields, &created); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(rawFields), &rec.Fields); err != nil {
		return Record{}, fmt.Errorf("decode fields of %s: %w", rec.ID, err)
	}
	if rec.Fields == nil {
		rec.Fields = Fields{}
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, fmt.Errorf("decode created_at of %s: %w", rec.ID, err)
	}
	rec.CreatedTime = t
	return rec, nil
}

// newRecordID returns an Airtable-shaped id: "rec" followed by 14 characters.
func newRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

func cloneFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
