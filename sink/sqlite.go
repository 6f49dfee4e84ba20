package sink

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/JvelezMendoza/comunicaci-n-tx-rx-rssi/protocol"
)

const ddlRecords = `
CREATE TABLE IF NOT EXISTS records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    idx         INTEGER NOT NULL,
    metric      INTEGER NOT NULL,
    received_at INTEGER NOT NULL -- Unix milliseconds
);
CREATE INDEX IF NOT EXISTS idx_records_received_at ON records (received_at DESC);
`

// SQLite archives every received record with its arrival time, in WAL
// mode so an operator can query while the listener keeps writing.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the archive at path and applies the
// schema.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Annotate(err, "sink: open archive")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Annotate(err, "sink: ping archive")
	}
	// Single writer; WAL still allows concurrent readers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(ddlRecords); err != nil {
		db.Close()
		return nil, errors.Annotate(err, "sink: migrate archive")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(rec protocol.Record) error {
	_, err := s.db.Exec(
		`INSERT INTO records (idx, metric, received_at) VALUES (?, ?, ?)`,
		rec.Index, rec.Metric, time.Now().UnixMilli(),
	)
	return errors.Annotate(err, "sink: archive record")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
