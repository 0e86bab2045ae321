// Package migrations embeds the goose migrations for the client's local
// sqlite database.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// Run applies all pending migrations to db.
func Run(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}
