package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/Ayavuzer/manushotspot/core/utils"
)

//go:embed migrations_pg/*.sql
var migrationsPgFS embed.FS

//go:embed migrations_sqlite/*.sql
var migrationsSqliteFS embed.FS

// ApplyMigrations brings the schema up to date. Postgres is the production
// dialect; the sqlite set exists for the test runtime only and mirrors the
// postgres schema table for table.
func ApplyMigrations(ctx context.Context, db *sql.DB, driver string, logger *utils.Logger) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "postgres", "pg", "":
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		goose.SetBaseFS(migrationsPgFS)
		if logger != nil {
			logger.Printf("applying migrations (postgres)")
		}
		return goose.UpContext(ctx, db, "migrations_pg")
	case "sqlite":
		if !isTestRuntime() {
			return fmt.Errorf("sqlite migrations are supported only in go test runtime")
		}
		if err := goose.SetDialect("sqlite3"); err != nil {
			return err
		}
		goose.SetBaseFS(migrationsSqliteFS)
		return goose.UpContext(ctx, db, "migrations_sqlite")
	default:
		return fmt.Errorf("unsupported db driver: %s", driver)
	}
}
