package friend

import (
	"context"
	"fmt"
	"time"

	"jamco/internal/domain"
	"jamco/internal/domain/user"
)

var (
	ErrSelfFriend       = fmt.Errorf("%w: cannot befriend yourself", domain.ErrValidation)
	ErrAlreadyFriends   = fmt.Errorf("%w: users are already friends", domain.ErrConflict)
	ErrRequestPending   = fmt.Errorf("%w: a pending friend request already exists", domain.ErrConflict)
	ErrRecipientHidden  = fmt.Errorf("%w: recipient is not accepting friend requests", domain.ErrConflict)
	ErrNoPendingRequest = fmt.Errorf("pending friend request %w", domain.ErrNotFound)
)

type Repository interface {
	AreFriends(ctx context.Context, a, b int64) (bool, error)
	// AddFriendship and RemoveFriendship are idempotent.
	AddFriendship(ctx context.Context, a, b int64) error
	RemoveFriendship(ctx context.Context, a, b int64) error
	ListFriends(ctx context.Context, userID int64) ([]user.User, error)

	HasPendingRequest(ctx context.Context, fromUserID, toUserID int64) (bool, error)
	// CreateRequest returns ErrRequestPending if the ordered pair already has
	// a pending request.
	CreateRequest(ctx context.Context, r Request) (Request, error)
	// Acknowledge moves a pending request matching (id, to, from) to a
	// terminal state, or returns ErrNoPendingRequest.
	Acknowledge(ctx context.Context, id, toUserID, fromUserID int64, accepted bool, at time.Time) (Request, error)
	ListSent(ctx context.Context, userID int64) ([]Request, error)
	ListReceived(ctx context.Context, userID int64) ([]Request, error)
}
