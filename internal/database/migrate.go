package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the embedded migrations for driver that have not been
// recorded in schema_migrations yet.  Files are applied in name order;
// each file may hold several statements separated by semicolons.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dir := path.Join("migrations", migrationDir(driver))
	entries, err := migrations.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("migrate: no migrations for driver %q: %w", driver, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version VARCHAR(191) NOT NULL PRIMARY KEY)`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	for _, f := range files {
		var applied int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, f).Scan(&applied); err != nil {
			return err
		}
		if applied > 0 {
			continue
		}
		b, err := migrations.ReadFile(path.Join(dir, f))
		if err != nil {
			return err
		}
		for _, stmt := range splitStatements(string(b)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", f, err)
			}
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, f); err != nil {
			return err
		}
	}
	return nil
}

// migrationDir returns the embedded directory holding driver's
// migrations.  "sqlite" is accepted as an alias of the driver name.
func migrationDir(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return driver
}

// splitStatements splits a migration file on semicolons, dropping
// blank statements and full-line "--" comments.
func splitStatements(src string) []string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
