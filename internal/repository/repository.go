package repository

import (
	"context"

	"jamco/internal/database"
	"jamco/internal/domain/column"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/job"
	"jamco/internal/domain/review"
	"jamco/internal/domain/user"
)

// Repos groups the repositories bound to one connection or transaction.
type Repos interface {
	Users() user.Repository
	Privacy() user.PrivacyRepository
	Columns() column.Repository
	Friends() friend.Repository
	Jobs() job.Repository
	Reviews() review.Repository
}

// Store hands out Repos and runs units of work atomically. Repos passed to
// fn are only valid inside fn.
type Store interface {
	Repos
	WithTx(ctx context.Context, fn func(r Repos) error) error
}

type postgresRepos struct {
	q database.Querier
}

func (r postgresRepos) Users() user.Repository          { return &PostgresUserRepository{q: r.q} }
func (r postgresRepos) Privacy() user.PrivacyRepository { return &PostgresPrivacyRepository{q: r.q} }
func (r postgresRepos) Columns() column.Repository      { return &PostgresColumnRepository{q: r.q} }
func (r postgresRepos) Friends() friend.Repository      { return &PostgresFriendRepository{q: r.q} }
func (r postgresRepos) Jobs() job.Repository            { return &PostgresJobRepository{q: r.q} }
func (r postgresRepos) Reviews() review.Repository      { return &PostgresReviewRepository{q: r.q} }

type PostgresStore struct {
	postgresRepos
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{postgresRepos: postgresRepos{q: db}, db: db}
}

func (s *PostgresStore) WithTx(ctx context.Context, fn func(r Repos) error) error {
	return database.WithTx(ctx, s.db, func(tx database.Tx) error {
		return fn(postgresRepos{q: tx})
	})
}
