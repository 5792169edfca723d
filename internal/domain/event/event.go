// Package event names the notifications pushed to connected users.
package event

const (
	FriendRequestCreated  = "friend_request.created"
	FriendRequestAccepted = "friend_request.accepted"
	FriendRequestDenied   = "friend_request.denied"
	FriendRemoved         = "friend.removed"
	ReviewRequestCreated  = "review_request.created"
	ReviewCreated         = "review.created"
)

// Notifier delivers an event to one user. It never blocks and never fails;
// offline users miss the event.
type Notifier interface {
	Notify(userID int64, eventType string, payload any)
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Notify(int64, string, any) {}
