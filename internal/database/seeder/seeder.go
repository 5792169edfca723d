// Package seeder loads demo data into a migrated database.
package seeder

import (
	"context"

	"jamco/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

func Defaults() []Seeder {
	return []Seeder{
		DemoUsersSeeder{},
	}
}
