package db

import (
	"errors"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyPostgres(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "42P01", Message: "relation does not exist", Hint: "create it"})
	got, ok := Classify(err)
	if !ok {
		t.Fatal("expected classification")
	}
	if got.Code != "42P01" || got.Hint != "create it" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestClassifyMySQL(t *testing.T) {
	got, ok := Classify(&gomysql.MySQLError{Number: 1146, Message: "Table 'iom.delivery_records' doesn't exist"})
	if !ok || got.Code != "1146" {
		t.Fatalf("unexpected result %+v ok=%v", got, ok)
	}
}

func TestClassifySQLite(t *testing.T) {
	conn, err := Open(Config{Type: TypeSQLite, DSN: ":memory:", MaxOpenConn: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(conn)

	var rows []map[string]any
	qErr := conn.Table("missing_table").Find(&rows).Error
	got, ok := Classify(qErr)
	if !ok || got.Code != "42P01" {
		t.Fatalf("expected 42P01, got %+v ok=%v (err=%v)", got, ok, qErr)
	}

	if err := conn.Exec("CREATE TABLE t (id integer)").Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	colErr := conn.Exec("INSERT INTO t (nope) VALUES (1)").Error
	got, ok = Classify(colErr)
	if !ok || got.Code != "42703" {
		t.Fatalf("expected 42703, got %+v ok=%v (err=%v)", got, ok, colErr)
	}
}

func TestClassifyUnknown(t *testing.T) {
	if _, ok := Classify(errors.New("boom")); ok {
		t.Fatal("plain errors should not classify")
	}
	if _, ok := Classify(nil); ok {
		t.Fatal("nil should not classify")
	}
}
