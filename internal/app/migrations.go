package app

import (
	"embed"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MustMigratePostgres applies pending schema migrations
// before the server starts accepting traffic.
func MustMigratePostgres() {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	err := goose.SetDialect("postgres")
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to set goose dialect")
		panic(err)
	}

	db := stdlib.OpenDBFromPool(globalPostgresPool)
	defer func() { _ = db.Close() }()

	err = goose.Up(db, "migrations")
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to apply migrations")
		panic(err)
	}
	globalLogger.Info().Msg("applied migrations")
}
