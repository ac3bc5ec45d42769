package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrations returns the embedded migration files for driver, sorted by name.
func Migrations(driver string) ([]string, error) {
	dir := path.Join("migrations", driver)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for %q: %w", driver, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// Migrate executes every embedded migration for driver. Each file holds one
// idempotent statement, so it is safe to re-run.
func Migrate(ctx context.Context, db *sqlx.DB, driver string) ([]string, error) {
	files, err := Migrations(driver)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		stmt, err := migrationsFS.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", f, err)
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return nil, fmt.Errorf("exec migration %s: %w", f, err)
		}
	}

	return files, nil
}
