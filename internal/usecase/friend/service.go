package friend

import (
	"context"
	"log"
	"time"

	"jamco/internal/domain/event"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/user"
	"jamco/internal/repository"
)

// RequestsStatus lists a user's friend requests in creation order.
type RequestsStatus struct {
	Sent     []friend.Request
	Received []friend.Request
}

type Service struct {
	store    repository.Store
	notifier event.Notifier
	logger   *log.Logger

	now func() time.Time
}

func NewService(store repository.Store, notifier event.Notifier, logger *log.Logger) *Service {
	if notifier == nil {
		notifier = event.Discard{}
	}
	return &Service{store: store, notifier: notifier, logger: logger, now: time.Now}
}

func (s *Service) CreateRequest(ctx context.Context, fromUserID, toUserID int64) (friend.Request, error) {
	if fromUserID == toUserID {
		return friend.Request{}, friend.ErrSelfFriend
	}

	var created friend.Request
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		if err := requireUsers(ctx, r.Users(), fromUserID, toUserID); err != nil {
			return err
		}

		friends, err := r.Friends().AreFriends(ctx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if friends {
			return friend.ErrAlreadyFriends
		}

		pending, err := r.Friends().HasPendingRequest(ctx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if pending {
			return friend.ErrRequestPending
		}

		privacy, err := r.Privacy().Get(ctx, toUserID)
		if err != nil {
			return err
		}
		if !privacy.IsSearchable {
			return friend.ErrRecipientHidden
		}

		created, err = r.Friends().CreateRequest(ctx, friend.Request{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Sent:       s.now().UTC(),
		})
		return err
	})
	if err != nil {
		return friend.Request{}, err
	}

	s.notifier.Notify(toUserID, event.FriendRequestCreated, map[string]int64{
		"request_id":   created.ID,
		"from_user_id": fromUserID,
	})
	s.logf("Friend request created | request_id=%d from=%d to=%d", created.ID, fromUserID, toUserID)
	return created, nil
}

func (s *Service) AcceptRequest(ctx context.Context, requestID, toUserID, fromUserID int64) (friend.Request, error) {
	return s.acknowledge(ctx, requestID, toUserID, fromUserID, true)
}

func (s *Service) DenyRequest(ctx context.Context, requestID, toUserID, fromUserID int64) (friend.Request, error) {
	return s.acknowledge(ctx, requestID, toUserID, fromUserID, false)
}

func (s *Service) acknowledge(ctx context.Context, requestID, toUserID, fromUserID int64, accepted bool) (friend.Request, error) {
	var req friend.Request
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		var err error
		req, err = r.Friends().Acknowledge(ctx, requestID, toUserID, fromUserID, accepted, s.now().UTC())
		if err != nil {
			return err
		}
		if accepted {
			return r.Friends().AddFriendship(ctx, fromUserID, toUserID)
		}
		return nil
	})
	if err != nil {
		return friend.Request{}, err
	}

	eventType := event.FriendRequestDenied
	if accepted {
		eventType = event.FriendRequestAccepted
	}
	s.notifier.Notify(fromUserID, eventType, map[string]int64{
		"request_id": req.ID,
		"to_user_id": toUserID,
	})
	s.logf("Friend request acknowledged | request_id=%d status=%s", req.ID, req.Status())
	return req, nil
}

// AddFriend links two users directly. Linking existing friends is a no-op.
func (s *Service) AddFriend(ctx context.Context, a, b int64) error {
	if a == b {
		return friend.ErrSelfFriend
	}
	return s.store.WithTx(ctx, func(r repository.Repos) error {
		if err := requireUsers(ctx, r.Users(), a, b); err != nil {
			return err
		}
		return r.Friends().AddFriendship(ctx, a, b)
	})
}

// RemoveFriend unlinks two users. Removing a missing link succeeds.
func (s *Service) RemoveFriend(ctx context.Context, a, b int64) error {
	if a == b {
		return friend.ErrSelfFriend
	}
	var wasFriend bool
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		var err error
		wasFriend, err = r.Friends().AreFriends(ctx, a, b)
		if err != nil || !wasFriend {
			return err
		}
		return r.Friends().RemoveFriendship(ctx, a, b)
	})
	if err != nil {
		return err
	}
	if wasFriend {
		s.notifier.Notify(b, event.FriendRemoved, map[string]int64{"user_id": a})
	}
	return nil
}

func (s *Service) GetFriends(ctx context.Context, userID int64) ([]user.User, error) {
	exists, err := s.store.Users().Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}
	return s.store.Friends().ListFriends(ctx, userID)
}

func (s *Service) GetRequestsStatus(ctx context.Context, userID int64) (RequestsStatus, error) {
	sent, err := s.store.Friends().ListSent(ctx, userID)
	if err != nil {
		return RequestsStatus{}, err
	}
	received, err := s.store.Friends().ListReceived(ctx, userID)
	if err != nil {
		return RequestsStatus{}, err
	}
	return RequestsStatus{Sent: sent, Received: received}, nil
}

func requireUsers(ctx context.Context, users user.Repository, ids ...int64) error {
	for _, id := range ids {
		exists, err := users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return user.ErrNotFound
		}
	}
	return nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
