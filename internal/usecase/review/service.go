package review

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"jamco/internal/domain"
	"jamco/internal/domain/event"
	"jamco/internal/domain/review"
	"jamco/internal/domain/user"
	"jamco/internal/repository"
)

var ErrMissingResponse = fmt.Errorf("%w: review missing field: response", domain.ErrValidation)

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

// CreateReviewRequest asks reviewerID to review the cover letter on one of
// ownerID's jobs.
func (s *Service) CreateReviewRequest(ctx context.Context, ownerID, jobID, reviewerID int64, message string) (review.Request, error) {
	var created review.Request
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		if _, err := r.Jobs().GetByID(ctx, ownerID, jobID); err != nil {
			return err
		}
		exists, err := r.Users().Exists(ctx, reviewerID)
		if err != nil {
			return err
		}
		if !exists {
			return user.ErrNotFound
		}
		if reviewerID == ownerID {
			return review.ErrSelfReview
		}

		privacy, err := r.Privacy().Get(ctx, reviewerID)
		if err != nil {
			return err
		}
		if !privacy.CoverLetterRequestable {
			return review.ErrNotRequestable
		}

		created, err = r.Reviews().CreateRequest(ctx, review.Request{
			JobID:      jobID,
			ReviewerID: reviewerID,
			Message:    message,
		})
		return err
	})
	if err != nil {
		return review.Request{}, err
	}

	s.notifier.Notify(reviewerID, event.ReviewRequestCreated, map[string]int64{
		"request_id": created.ID,
		"job_id":     jobID,
		"owner_id":   ownerID,
	})
	s.logf("Review request created | request_id=%d job_id=%d reviewer=%d", created.ID, jobID, reviewerID)
	return created, nil
}

func (s *Service) GetReviewRequestsForUser(ctx context.Context, reviewerID int64) ([]review.IncomingRequest, error) {
	return s.store.Reviews().ListIncoming(ctx, reviewerID)
}

func (s *Service) DeleteReviewRequest(ctx context.Context, ownerID, requestID int64) error {
	if err := s.store.Reviews().DeleteRequest(ctx, ownerID, requestID); err != nil {
		return err
	}
	s.logf("Review request deleted | request_id=%d owner=%d", requestID, ownerID)
	return nil
}

// CreateReview answers a request addressed to reviewerID and marks it fulfilled.
func (s *Service) CreateReview(ctx context.Context, reviewerID, requestID int64, response string) (review.Review, error) {
	if strings.TrimSpace(response) == "" {
		return review.Review{}, ErrMissingResponse
	}

	var (
		created review.Review
		ownerID int64
	)
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		req, err := r.Reviews().GetRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.ReviewerID != reviewerID {
			return review.ErrRequestNotFound
		}
		incoming, err := r.Reviews().ListIncoming(ctx, reviewerID)
		if err != nil {
			return err
		}
		for _, in := range incoming {
			if in.ID == requestID {
				ownerID = in.OwnerID
				break
			}
		}

		completed := s.now().UTC()
		created, err = r.Reviews().CreateReview(ctx, review.Review{
			RequestID:  &req.ID,
			ReviewerID: reviewerID,
			Response:   response,
			Completed:  &completed,
		})
		if err != nil {
			return err
		}
		return r.Reviews().MarkFulfilled(ctx, requestID)
	})
	if err != nil {
		return review.Review{}, err
	}

	if ownerID != 0 {
		s.notifier.Notify(ownerID, event.ReviewCreated, map[string]int64{
			"review_id":  created.ID,
			"request_id": requestID,
		})
	}
	s.logf("Review created | review_id=%d request_id=%d reviewer=%d", created.ID, requestID, reviewerID)
	return created, nil
}

func (s *Service) GetReviewsForUser(ctx context.Context, ownerID int64) ([]review.Review, error) {
	return s.store.Reviews().ListForOwner(ctx, ownerID)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
