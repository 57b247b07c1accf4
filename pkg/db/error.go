package db

import (
	"errors"
	"strconv"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// DriverError is the portable shape of a database error.
type DriverError struct {
	Code    string
	Message string
	Details string
	Hint    string
}

// Classify extracts a code and message from a driver error. SQLite has no
// SQLSTATE, so missing table and column errors are mapped to the
// Postgres codes.
func Classify(err error) (DriverError, bool) {
	if err == nil {
		return DriverError{}, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return DriverError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}, true
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return DriverError{
			Code:    strconv.Itoa(int(myErr.Number)),
			Message: myErr.Message,
		}, true
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such table"):
		return DriverError{Code: "42P01", Message: msg}, true
	case strings.Contains(msg, "no such column"), strings.Contains(msg, "has no column named"):
		return DriverError{Code: "42703", Message: msg}, true
	}
	return DriverError{}, false
}
