package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"jamco/internal/domain"
	"jamco/internal/domain/user"
	"jamco/internal/pkg/identity"
	"jamco/internal/repository"
	columnuc "jamco/internal/usecase/column"
)

const (
	searchLimit      = 20
	defaultEmail     = "No Email Found"
	defaultFirstName = "No First Name Found"
)

var (
	ErrEmptyUpdate  = fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	ErrUnknownField = fmt.Errorf("%w: unknown field", domain.ErrValidation)
	ErrEmptyQuery   = fmt.Errorf("%w: search query is required", domain.ErrValidation)
)

type Service struct {
	store  repository.Store
	logger *log.Logger

	now func() time.Time
}

func NewService(store repository.Store, logger *log.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// GetOrCreateUser finds the account for the verified identity, creating it
// with its privacy row and starter board on first login. Every call stamps
// last_login.
func (s *Service) GetOrCreateUser(ctx context.Context, claims identity.Claims) (user.User, bool, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return user.User{}, false, fmt.Errorf("%w: missing subject", domain.ErrValidation)
	}

	// Postgres keeps microseconds; the session check compares exactly.
	loginAt := s.now().UTC().Truncate(time.Microsecond)

	var (
		out     user.User
		created bool
	)
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		u, err := r.Users().GetByGoogleID(ctx, claims.Subject)
		switch {
		case errors.Is(err, user.ErrNotFound):
			u, err = r.Users().Create(ctx, newUserFromClaims(claims))
			if err != nil {
				return err
			}
			if err := r.Privacy().Create(ctx, user.DefaultPrivacy(u.ID)); err != nil {
				return err
			}
			if err := columnuc.CreateDefaults(ctx, r.Columns(), u.ID); err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		}

		if err := r.Users().TouchLastLogin(ctx, u.ID, loginAt); err != nil {
			return err
		}
		u.LastLogin = &loginAt
		out = u
		return nil
	})
	if err != nil {
		return user.User{}, false, err
	}

	if created {
		s.logf("Account created | user_id=%d", out.ID)
	}
	return out, created, nil
}

func newUserFromClaims(c identity.Claims) user.User {
	u := user.User{
		GoogleID:  c.Subject,
		Username:  c.Subject,
		Email:     c.Email,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
	}
	if u.Email == "" {
		u.Email = defaultEmail
	}
	if u.FirstName == "" {
		u.FirstName = defaultFirstName
	}
	if c.Picture != "" {
		pic := c.Picture
		u.ImageURL = &pic
	}
	return u
}

func (s *Service) GetUser(ctx context.Context, userID int64) (user.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// UpdateUser applies every field or none. Keys outside the allow-list and
// badly typed values are rejected before anything is written.
func (s *Service) UpdateUser(ctx context.Context, userID int64, fields map[string]json.RawMessage) (user.User, error) {
	if len(fields) == 0 {
		return user.User{}, ErrEmptyUpdate
	}
	for _, key := range sortedKeys(fields) {
		if _, ok := userFields[key]; !ok {
			return user.User{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	var out user.User
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		u, err := r.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		for _, key := range sortedKeys(fields) {
			if err := userFields[key](&u, fields[key]); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		if err := r.Users().Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return out, nil
}

func (s *Service) GetPrivacy(ctx context.Context, userID int64) (user.Privacy, error) {
	exists, err := s.store.Users().Exists(ctx, userID)
	if err != nil {
		return user.Privacy{}, err
	}
	if !exists {
		return user.Privacy{}, user.ErrNotFound
	}
	return s.store.Privacy().Get(ctx, userID)
}

func (s *Service) UpdatePrivacy(ctx context.Context, userID int64, fields map[string]json.RawMessage) (user.Privacy, error) {
	if len(fields) == 0 {
		return user.Privacy{}, ErrEmptyUpdate
	}
	for _, key := range sortedKeys(fields) {
		if _, ok := privacyFields[key]; !ok {
			return user.Privacy{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
	}

	var out user.Privacy
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		exists, err := r.Users().Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return user.ErrNotFound
		}
		p, err := r.Privacy().Get(ctx, userID)
		if err != nil {
			return err
		}
		for _, key := range sortedKeys(fields) {
			if err := privacyFields[key](&p, fields[key]); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		if err := r.Privacy().Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return user.Privacy{}, err
	}
	return out, nil
}

func (s *Service) SearchUsers(ctx context.Context, callerID int64, query string) ([]user.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.store.Users().SearchByName(ctx, query, callerID, searchLimit)
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
