package review

import (
	"context"
	"fmt"

	"jamco/internal/domain"
)

var (
	ErrRequestNotFound = fmt.Errorf("review request %w", domain.ErrNotFound)
	ErrSelfReview      = fmt.Errorf("%w: cannot request a review from yourself", domain.ErrValidation)
	ErrNotRequestable  = fmt.Errorf("%w: reviewer is not accepting cover letter reviews", domain.ErrConflict)
)

type Repository interface {
	CreateRequest(ctx context.Context, r Request) (Request, error)
	GetRequest(ctx context.Context, id int64) (Request, error)
	ListIncoming(ctx context.Context, reviewerID int64) ([]IncomingRequest, error)
	// DeleteRequest only deletes requests on jobs owned by ownerID.
	DeleteRequest(ctx context.Context, ownerID, id int64) error
	MarkFulfilled(ctx context.Context, id int64) error

	CreateReview(ctx context.Context, r Review) (Review, error)
	// ListForOwner returns reviews on requests for ownerID's jobs, newest first.
	ListForOwner(ctx context.Context, ownerID int64) ([]Review, error)
}
