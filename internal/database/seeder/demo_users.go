package seeder

import (
	"context"

	"jamco/internal/database"
	"jamco/internal/pkg/identity"
	"jamco/internal/repository"
	frienduc "jamco/internal/usecase/friend"
	useruc "jamco/internal/usecase/user"
)

// DemoUsersSeeder creates two befriended accounts through the same path a
// first login takes. Running it again changes nothing.
type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "demo_users" }

var demoUsers = []identity.Claims{
	{Subject: "demo-ada", Email: "ada@example.com", GivenName: "Ada", FamilyName: "Lovelace"},
	{Subject: "demo-alan", Email: "alan@example.com", GivenName: "Alan", FamilyName: "Turing"},
}

func (DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireTables(ctx, db, "users", "privacies", "kanban_columns", "friendships"); err != nil {
		return err
	}

	return SeedDemoUsers(ctx, repository.NewPostgresStore(db))
}

// SeedDemoUsers loads the demo accounts into any store.
func SeedDemoUsers(ctx context.Context, store repository.Store) error {
	accounts := useruc.NewService(store, nil)
	friends := frienduc.NewService(store, nil, nil)

	ids := make([]int64, 0, len(demoUsers))
	for _, c := range demoUsers {
		u, _, err := accounts.GetOrCreateUser(ctx, c)
		if err != nil {
			return err
		}
		ids = append(ids, u.ID)
	}
	return friends.AddFriend(ctx, ids[0], ids[1])
}
