package seeder

import (
	"context"
	"fmt"

	"jamco/internal/database"
)

// RequireTables fails unless every table exists in the public schema, so a
// seeder run against an unmigrated database stops before writing.
func RequireTables(ctx context.Context, q database.Querier, tables ...string) error {
	rows, err := q.Query(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, t := range tables {
		if _, ok := existing[t]; !ok {
			return fmt.Errorf("schema mismatch: missing table %s", t)
		}
	}
	return nil
}
