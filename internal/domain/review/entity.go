package review

import "time"

// Request asks ReviewerID to review the cover letter of JobID.
// Fulfilled is informational and never gates anything.
type Request struct {
	ID         int64
	JobID      int64
	ReviewerID int64
	Message    string
	Fulfilled  bool
	CreatedAt  time.Time
}

// IncomingRequest is a Request joined with the job it refers to.
type IncomingRequest struct {
	Request
	OwnerID       int64
	PositionTitle string
	Company       string
	CoverLetter   string
}

// Review keeps existing after its request is deleted; RequestID is then nil.
type Review struct {
	ID         int64
	RequestID  *int64
	ReviewerID int64
	Response   string
	Completed  *time.Time
	CreatedAt  time.Time
}
