package sqlite

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
