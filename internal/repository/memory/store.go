// Package memory is an in-process Store with the same semantics as the
// PostgreSQL one. It backs tests and the DB_DRIVER=memory local mode.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"jamco/internal/domain/column"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/job"
	"jamco/internal/domain/review"
	"jamco/internal/domain/user"
	"jamco/internal/repository"
)

type state struct {
	nextID int64

	users          map[int64]user.User
	privacy        map[int64]user.Privacy
	friendships    map[[2]int64]struct{}
	requests       []friend.Request
	columns        map[int64]column.Column
	jobs           map[int64]job.Job
	reviewRequests map[int64]review.Request
	reviews        map[int64]review.Review
}

func newState() *state {
	return &state{
		users:          map[int64]user.User{},
		privacy:        map[int64]user.Privacy{},
		friendships:    map[[2]int64]struct{}{},
		columns:        map[int64]column.Column{},
		jobs:           map[int64]job.Job{},
		reviewRequests: map[int64]review.Request{},
		reviews:        map[int64]review.Review{},
	}
}

func (s *state) clone() *state {
	return &state{
		nextID:         s.nextID,
		users:          maps.Clone(s.users),
		privacy:        maps.Clone(s.privacy),
		friendships:    maps.Clone(s.friendships),
		requests:       slices.Clone(s.requests),
		columns:        maps.Clone(s.columns),
		jobs:           maps.Clone(s.jobs),
		reviewRequests: maps.Clone(s.reviewRequests),
		reviews:        maps.Clone(s.reviews),
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

// Store guards one state with a mutex. A transaction holds the mutex for its
// whole duration and works on a copy that replaces the state on commit.
type Store struct {
	mu    sync.Mutex
	st    *state
	fails map[string]error

	Now func() time.Time
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{st: newState(), fails: map[string]error{}, Now: time.Now}
}

// FailOn makes every later call of op (for example "columns.create") return
// err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fails, op)
		return
	}
	s.fails[op] = err
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(view{store: s, tx: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) Users() user.Repository          { return userRepo{view{store: s}} }
func (s *Store) Privacy() user.PrivacyRepository { return privacyRepo{view{store: s}} }
func (s *Store) Columns() column.Repository      { return columnRepo{view{store: s}} }
func (s *Store) Friends() friend.Repository      { return friendRepo{view{store: s}} }
func (s *Store) Jobs() job.Repository            { return jobRepo{view{store: s}} }
func (s *Store) Reviews() review.Repository      { return reviewRepo{view{store: s}} }

// view is the Repos handed to callers. Outside a transaction tx is nil and
// every call takes the store mutex.
type view struct {
	store *Store
	tx    *state
}

func (v view) Users() user.Repository          { return userRepo{v} }
func (v view) Privacy() user.PrivacyRepository { return privacyRepo{v} }
func (v view) Columns() column.Repository      { return columnRepo{v} }
func (v view) Friends() friend.Repository      { return friendRepo{v} }
func (v view) Jobs() job.Repository            { return jobRepo{v} }
func (v view) Reviews() review.Repository      { return reviewRepo{v} }

func (v view) do(ctx context.Context, op string, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		if err := v.store.fails[op]; err != nil {
			return err
		}
		return fn(v.tx)
	}

	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if err := v.store.fails[op]; err != nil {
		return err
	}
	return fn(v.store.st)
}

func (v view) now() time.Time {
	if v.store.Now != nil {
		return v.store.Now()
	}
	return time.Now()
}
