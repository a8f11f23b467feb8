// shared/sqlitedb/client.go
package sqlitedb

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the SQLite database at path and verifies
// the connection. The returned handle is process-wide and safe for
// concurrent reuse across requests. The _pragma DSN options are applied on
// every pooled connection: WAL so readers do not block writers, foreign
// keys on, and a busy timeout so concurrent writes wait instead of failing
// with SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	log.Println("Successfully opened SQLite database.")
	return db, nil
}
