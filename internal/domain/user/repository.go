package user

import (
	"context"
	"fmt"
	"time"

	"jamco/internal/domain"
)

var (
	ErrNotFound        = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrPrivacyNotFound = fmt.Errorf("privacy %w", domain.ErrNotFound)
)

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, u User) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	// SearchByName only returns users whose privacy allows being found.
	SearchByName(ctx context.Context, query string, excludeID int64, limit int) ([]User, error)
}

type PrivacyRepository interface {
	Create(ctx context.Context, p Privacy) error
	Get(ctx context.Context, userID int64) (Privacy, error)
	Update(ctx context.Context, p Privacy) error
}
