package store

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Store errors. Every error returned by this package wraps exactly one of
// these together with the original driver error.
var (
	ErrNotFound            = errors.New("store: record not found")
	ErrUniqueViolation     = errors.New("store: uniqueness violation")
	ErrForeignKeyViolation = errors.New("store: foreign key violation")
	ErrNotNullViolation    = errors.New("store: not-null violation")
	ErrConnection          = errors.New("store: connection failure")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// MySQL server error numbers.
const (
	myDupEntry          = 1062
	myRowIsReferenced   = 1451
	myNoReferencedRow   = 1452
	myBadNull           = 1048
	myNoDefaultForField = 1364
)

// Classify maps a database error onto the store taxonomy. Errors that fit
// no category are returned unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if kind := classify(err); kind != nil {
		if errors.Is(err, kind) {
			return err
		}
		return fmt.Errorf("%w: %w", kind, err)
	}
	return err
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, ErrUniqueViolation), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUniqueViolation
	case errors.Is(err, ErrForeignKeyViolation), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKeyViolation
	case errors.Is(err, ErrNotNullViolation):
		return ErrNotNullViolation
	case errors.Is(err, ErrConnection):
		return ErrConnection
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrUniqueViolation
		case pgForeignKeyViolation:
			return ErrForeignKeyViolation
		case pgNotNullViolation:
			return ErrNotNullViolation
		}
		return classifyMessage(err)
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myDupEntry:
			return ErrUniqueViolation
		case myRowIsReferenced, myNoReferencedRow:
			return ErrForeignKeyViolation
		case myBadNull, myNoDefaultForField:
			return ErrNotNullViolation
		}
		return classifyMessage(err)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrUniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return ErrForeignKeyViolation
		case sqlite3.ErrConstraintNotNull:
			return ErrNotNullViolation
		case sqlite3.ErrConstraintTrigger:
			// ON DELETE RESTRICT reports as a trigger constraint; the schema
			// defines no triggers of its own.
			return ErrForeignKeyViolation
		}
		if liteErr.Code == sqlite3.ErrCantOpen {
			return ErrConnection
		}
		return classifyMessage(err)
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, gomysql.ErrInvalidConn) {
		return ErrConnection
	}

	return classifyMessage(err)
}

// classifyMessage is the last resort for drivers that only expose text.
func classifyMessage(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate"):
		return ErrUniqueViolation
	case strings.Contains(msg, "foreign key"):
		return ErrForeignKeyViolation
	case strings.Contains(msg, "not null constraint") || strings.Contains(msg, "not-null constraint"):
		return ErrNotNullViolation
	case strings.Contains(msg, "connection refused"):
		return ErrConnection
	}
	return nil
}
