//go:build sqlite_cgo

package state

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteDriver = "sqlite3"

func sqliteDSN(path string) string {
	return fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", path)
}
