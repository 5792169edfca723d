package friend

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDenied   Status = "denied"
)

// Request is a directional friend request. It is pending until Acknowledged
// is set, after which it is terminal.
type Request struct {
	ID           int64
	FromUserID   int64
	ToUserID     int64
	Sent         time.Time
	Accepted     bool
	Acknowledged *time.Time
}

func (r Request) Status() Status {
	switch {
	case r.Acknowledged == nil:
		return StatusPending
	case r.Accepted:
		return StatusAccepted
	default:
		return StatusDenied
	}
}

func (r Request) Pending() bool { return r.Acknowledged == nil }

// Pair orders two user ids so a friendship is stored once.
func Pair(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}
