package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one embedded schema file
type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded migrations in version order
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		body, err := migrationFiles.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{
			Version: strings.TrimSuffix(entry.Name(), ".sql"),
			SQL:     string(body),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations and returns the versions it applied.
func (c *Client) Migrate(ctx context.Context) ([]string, error) {
	if _, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	dialect := goqu.Dialect(driverName)
	var applied []string
	for _, m := range migrations {
		query, _, err := dialect.From("schema_migrations").
			Select(goqu.COUNT("*")).
			Where(goqu.Ex{"version": m.Version}).
			ToSQL()
		if err != nil {
			return applied, fmt.Errorf("failed to build migration lookup: %w", err)
		}

		var count int
		if err := c.db.GetContext(ctx, &count, query); err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		err = c.WithTx(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			insert, _, err := dialect.Insert("schema_migrations").
				Rows(goqu.Record{"version": m.Version}).
				ToSQL()
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, insert)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}

		log.Info().Str("version", m.Version).Msg("applied migration")
		applied = append(applied, m.Version)
	}

	return applied, nil
}
