package db

import (
	"database/sql"
)

// Database is a connected, migrated database handle. Connect runs any
// pending schema migrations before returning.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
