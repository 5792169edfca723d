package column

import (
	"context"
	"fmt"
	"log"
	"time"

	"jamco/internal/domain/column"
	"jamco/internal/domain/user"
	"jamco/internal/repository"
)

// Cache is the board cache. Implementations must tolerate being unavailable.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type Service struct {
	store  repository.Store
	cache  Cache
	logger *log.Logger
}

func NewService(store repository.Store, cache Cache, logger *log.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// CacheKey names a board snapshot. Boards are cached per generation so a
// fill that started before a reconcile can never shadow the newer board.
func CacheKey(userID, gen int64) string {
	return fmt.Sprintf("board:columns:%d:%d", userID, gen)
}

func GenerationKey(userID int64) string {
	return fmt.Sprintf("board:gen:%d", userID)
}

func (s *Service) GetColumns(ctx context.Context, userID int64) ([]column.Column, error) {
	// The generation must be read before the store.
	gen, cacheable := s.generation(ctx, userID)
	if cacheable {
		var cached []column.Column
		if found, err := s.cache.GetJSON(ctx, CacheKey(userID, gen), &cached); err == nil && found {
			return cached, nil
		}
	}

	exists, err := s.store.Users().Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}
	cols, err := s.store.Columns().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.SetJSON(ctx, CacheKey(userID, gen), cols, 0); err != nil {
			s.logf("Board cache set failed | user_id=%d err=%v", userID, err)
		}
	}
	return cols, nil
}

// UpdateColumns replaces the user's board with desired. Columns whose id is
// not listed are deleted with their jobs, listed ids are updated in place and
// anything else is created. column_number is stored as given.
func (s *Service) UpdateColumns(ctx context.Context, userID int64, desired []column.Spec) ([]column.Column, error) {
	for i, spec := range desired {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
	}

	var out []column.Column
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		exists, err := r.Users().Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return user.ErrNotFound
		}

		current, err := r.Columns().ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		existing := make(map[int64]bool, len(current))
		for _, c := range current {
			existing[c.ID] = true
		}

		retained := make(map[int64]bool, len(desired))
		for _, spec := range desired {
			if spec.ID != nil && existing[*spec.ID] {
				retained[*spec.ID] = true
			}
		}
		var stale []int64
		for _, c := range current {
			if !retained[c.ID] {
				stale = append(stale, c.ID)
			}
		}
		if err := r.Columns().DeleteByIDs(ctx, userID, stale); err != nil {
			return err
		}

		for _, spec := range desired {
			c := column.Column{UserID: userID, Name: *spec.Name, ColumnNumber: *spec.ColumnNumber}
			if spec.ID != nil && retained[*spec.ID] {
				c.ID = *spec.ID
				if err := r.Columns().Update(ctx, c); err != nil {
					return err
				}
				continue
			}
			if _, err := r.Columns().Create(ctx, c); err != nil {
				return err
			}
		}

		out, err = r.Columns().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	s.logf("Board reconciled | user_id=%d columns=%d", userID, len(out))
	return out, nil
}

// CreateDefaults adds the starter board. It runs on the caller's Repos so it
// can join account creation.
func CreateDefaults(ctx context.Context, cols column.Repository, userID int64) error {
	for _, d := range column.Defaults {
		if _, err := cols.Create(ctx, column.Column{UserID: userID, Name: d.Name, ColumnNumber: d.ColumnNumber}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) generation(ctx context.Context, userID int64) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	var gen int64
	if _, err := s.cache.GetJSON(ctx, GenerationKey(userID), &gen); err != nil {
		s.logf("Board cache generation read failed | user_id=%d err=%v", userID, err)
		return 0, false
	}
	return gen, true
}

// invalidate retires the current generation. It must run after commit.
func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	gen, err := s.cache.Incr(ctx, GenerationKey(userID))
	if err != nil {
		s.logf("Board cache invalidate failed | user_id=%d err=%v", userID, err)
		return
	}
	if err := s.cache.Delete(ctx, CacheKey(userID, gen-1)); err != nil {
		s.logf("Board cache cleanup failed | user_id=%d err=%v", userID, err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
