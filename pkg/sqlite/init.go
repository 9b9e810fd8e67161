package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by this package.
const DriverName = "sqlite3_stoptext"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// The cache is written from request goroutines and the eviction loop at once.
			for _, pragma := range []string{
				"PRAGMA busy_timeout = 5000",
				"PRAGMA journal_mode = WAL",
				"PRAGMA synchronous = NORMAL",
			} {
				if _, err := conn.Exec(pragma, nil); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
