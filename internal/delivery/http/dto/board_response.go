package dto

import (
	"encoding/json"
	"time"

	"jamco/internal/domain/column"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/job"
	"jamco/internal/domain/review"
)

type ColumnResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ColumnNumber int    `json:"column_number"`
}

func NewColumns(cols []column.Column) []ColumnResponse {
	out := make([]ColumnResponse, 0, len(cols))
	for _, c := range cols {
		out = append(out, ColumnResponse{ID: c.ID, Name: c.Name, ColumnNumber: c.ColumnNumber})
	}
	return out
}

type FriendRequestResponse struct {
	ID           int64         `json:"id"`
	FromUserID   int64         `json:"from_user_id"`
	ToUserID     int64         `json:"to_user_id"`
	Sent         time.Time     `json:"sent"`
	Accepted     bool          `json:"accepted"`
	Acknowledged *time.Time    `json:"acknowledged"`
	Status       friend.Status `json:"status"`
}

type FriendRequestsStatusResponse struct {
	Sent     []FriendRequestResponse `json:"sent"`
	Received []FriendRequestResponse `json:"received"`
}

func NewFriendRequest(r friend.Request) FriendRequestResponse {
	return FriendRequestResponse{
		ID:           r.ID,
		FromUserID:   r.FromUserID,
		ToUserID:     r.ToUserID,
		Sent:         r.Sent,
		Accepted:     r.Accepted,
		Acknowledged: r.Acknowledged,
		Status:       r.Status(),
	}
}

func NewFriendRequests(reqs []friend.Request) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, NewFriendRequest(r))
	}
	return out
}

type JobResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	ColumnID      int64           `json:"kcolumn_id"`
	PositionTitle string          `json:"position_title"`
	Company       string          `json:"company"`
	Description   string          `json:"description"`
	Notes         string          `json:"notes"`
	CoverLetter   string          `json:"cover_letter"`
	Type          *string         `json:"type"`
	Deadlines     json.RawMessage `json:"deadlines"`
}

// JobSummaryResponse is the only job shape rendered on a board.
type JobSummaryResponse struct {
	ID            int64   `json:"id"`
	ColumnID      int64   `json:"kcolumn_id"`
	PositionTitle string  `json:"position_title"`
	Company       string  `json:"company"`
	Type          *string `json:"type"`
}

func NewJobResponse(j job.Job) JobResponse {
	deadlines := j.Deadlines
	if len(deadlines) == 0 {
		deadlines = json.RawMessage("null")
	}
	return JobResponse{
		ID:            j.ID,
		UserID:        j.UserID,
		ColumnID:      j.ColumnID,
		PositionTitle: j.PositionTitle,
		Company:       j.Company,
		Description:   j.Description,
		Notes:         j.Notes,
		CoverLetter:   j.CoverLetter,
		Type:          j.Type,
		Deadlines:     deadlines,
	}
}

func NewJobSummaries(jobs []job.Summary) []JobSummaryResponse {
	out := make([]JobSummaryResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobSummaryResponse{
			ID:            j.ID,
			ColumnID:      j.ColumnID,
			PositionTitle: j.PositionTitle,
			Company:       j.Company,
			Type:          j.Type,
		})
	}
	return out
}

type ReviewRequestResponse struct {
	ID         int64     `json:"id"`
	JobID      int64     `json:"job_id"`
	ReviewerID int64     `json:"reviewer_id"`
	Message    string    `json:"message"`
	Fulfilled  bool      `json:"fulfilled"`
	CreatedAt  time.Time `json:"created_at"`
}

type IncomingReviewRequestResponse struct {
	ReviewRequestResponse
	OwnerID       int64  `json:"owner_id"`
	PositionTitle string `json:"position_title"`
	Company       string `json:"company"`
	CoverLetter   string `json:"cover_letter"`
}

type ReviewResponse struct {
	ID         int64      `json:"id"`
	RequestID  *int64     `json:"request_id"`
	ReviewerID int64      `json:"reviewer_id"`
	Response   string     `json:"response"`
	Completed  *time.Time `json:"completed"`
	CreatedAt  time.Time  `json:"created_at"`
}

func NewReviewRequest(r review.Request) ReviewRequestResponse {
	return ReviewRequestResponse{
		ID:         r.ID,
		JobID:      r.JobID,
		ReviewerID: r.ReviewerID,
		Message:    r.Message,
		Fulfilled:  r.Fulfilled,
		CreatedAt:  r.CreatedAt,
	}
}

func NewIncomingReviewRequests(reqs []review.IncomingRequest) []IncomingReviewRequestResponse {
	out := make([]IncomingReviewRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, IncomingReviewRequestResponse{
			ReviewRequestResponse: NewReviewRequest(r.Request),
			OwnerID:               r.OwnerID,
			PositionTitle:         r.PositionTitle,
			Company:               r.Company,
			CoverLetter:           r.CoverLetter,
		})
	}
	return out
}

func NewReview(r review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		RequestID:  r.RequestID,
		ReviewerID: r.ReviewerID,
		Response:   r.Response,
		Completed:  r.Completed,
		CreatedAt:  r.CreatedAt,
	}
}

func NewReviews(reviews []review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReview(r))
	}
	return out
}
