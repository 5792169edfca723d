// Package access decides whether a caller may act on another user's data.
package access

import (
	"context"
	"errors"

	"jamco/internal/domain"
	"jamco/internal/domain/user"
	"jamco/internal/repository"
)

// ErrDenied carries no detail about why access failed or whether the owner
// exists.
var ErrDenied = domain.ErrUnauthorized

type Gate struct {
	repos repository.Repos
}

func NewGate(repos repository.Repos) *Gate {
	return &Gate{repos: repos}
}

// Authorize permits the owner, and when allowFriends is set, a friend of the
// owner whose board is shared. State is read on every call.
func (g *Gate) Authorize(ctx context.Context, callerID, ownerID int64, allowFriends bool) error {
	if callerID == ownerID {
		exists, err := g.repos.Users().Exists(ctx, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrDenied
		}
		return nil
	}
	if !allowFriends {
		return ErrDenied
	}

	friends, err := g.repos.Friends().AreFriends(ctx, callerID, ownerID)
	if err != nil {
		return err
	}
	if !friends {
		return ErrDenied
	}

	privacy, err := g.repos.Privacy().Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrPrivacyNotFound) {
			return ErrDenied
		}
		return err
	}
	if !privacy.ShareKanban {
		return ErrDenied
	}
	return nil
}
