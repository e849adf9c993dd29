package sqldb

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration returns the migration file whose name ends with name, e.g.
// "001_create_credentials.up" or "create_credentials.down". A name matching
// more than one file is rejected.
func Migration(name string) (string, []byte, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return "", nil, err
	}

	suffix := strings.TrimSuffix(name, ".sql") + ".sql"
	var matches []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			matches = append(matches, e.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", nil, fmt.Errorf("migration file not found")
	case 1:
		content, err := migrationFiles.ReadFile("migrations/" + matches[0])
		return matches[0], content, err
	default:
		return "", nil, fmt.Errorf("migration name %q is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

// Migrate applies every up migration in name order.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}
