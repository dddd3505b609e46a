package db

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Open opens a SQLite database connection and configures pragmas.
//
// Pragmas are passed in the DSN so they apply to every connection in the
// pool, and _txlock=immediate makes every transaction take the write lock
// up front. The ledger relies on this: a transaction that has read a
// quantity holds the lock until it commits, so no other write can slip in
// between the read and the update.
func Open(path string) (*sql.DB, error) {
	params := url.Values{
		"_txlock": {"immediate"},
		"_pragma": {
			"journal_mode(WAL)",
			"busy_timeout(5000)",
			"foreign_keys(1)",
			"synchronous(NORMAL)",
		},
	}

	db, err := sql.Open("sqlite", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}
