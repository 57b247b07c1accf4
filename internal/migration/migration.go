package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

//go:embed setup.sql
var setupSQL string

// SetupSQL is the script an operator pastes into the Postgres SQL editor
// when the remote table is missing or out of date. It drops existing data.
func SetupSQL() string {
	return strings.TrimSpace(setupSQL)
}

// RunMigrations applies the embedded Postgres migrations.
func RunMigrations(conn *sql.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}

// EnsureSchema creates the delivery table on conn. Postgres goes through
// the versioned migrations; MySQL and SQLite get an equivalent CREATE
// TABLE IF NOT EXISTS built from the column table.
func EnsureSchema(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if dbType == db.TypePostgres {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}

	ddl, err := CreateTableSQL(dbType)
	if err != nil {
		return err
	}
	if err := conn.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create %s: %w", domain.TableName, err)
	}
	return nil
}

// CreateTableSQL renders the delivery table DDL for a non-Postgres dialect.
func CreateTableSQL(dbType string) (string, error) {
	var idCol, numericType, createdCol string
	switch dbType {
	case db.TypeSQLite:
		idCol = "id integer primary key autoincrement"
		numericType = "numeric"
		createdCol = "created_at text default current_timestamp"
	case db.TypeMySQL:
		idCol = "id bigint auto_increment primary key"
		numericType = "double"
		createdCol = "created_at timestamp default current_timestamp"
	default:
		return "", fmt.Errorf("no portable schema for %q", dbType)
	}

	lines := []string{"  " + idCol}
	for _, col := range domain.Columns {
		typ := "text"
		switch {
		case col.Wire == "iom_no":
			typ = "bigint"
		case col.Kind == domain.KindNumeric:
			typ = numericType
		}
		lines = append(lines, fmt.Sprintf("  %s %s", col.Wire, typ))
	}
	lines = append(lines, "  "+createdCol)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", domain.TableName, strings.Join(lines, ",\n")), nil
}
