package review

import (
	"context"
	"errors"
	"testing"

	"jamco/internal/domain"
	"jamco/internal/domain/column"
	"jamco/internal/domain/event"
	"jamco/internal/domain/job"
	"jamco/internal/domain/review"
	"jamco/internal/domain/user"
	"jamco/internal/repository/memory"
)

type sentEvent struct {
	userID    int64
	eventType string
}

type recordingNotifier struct {
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID int64, eventType string, _ any) {
	n.events = append(n.events, sentEvent{userID: userID, eventType: eventType})
}

type fixture struct {
	store    *memory.Store
	svc      *Service
	notifier *recordingNotifier
	owner    user.User
	reviewer user.User
	job      job.Job
}

func newFixture(t *testing.T, requestable bool) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	n := &recordingNotifier{}
	f := fixture{store: store, svc: NewService(store, n, nil), notifier: n}

	mk := func(sub string, requestable bool) user.User {
		u, err := store.Users().Create(ctx, user.User{GoogleID: sub, Username: sub})
		if err != nil {
			t.Fatalf("create user: %v", err)
		}
		p := user.DefaultPrivacy(u.ID)
		p.CoverLetterRequestable = requestable
		if err := store.Privacy().Create(ctx, p); err != nil {
			t.Fatalf("create privacy: %v", err)
		}
		return u
	}
	f.owner = mk("owner", true)
	f.reviewer = mk("reviewer", requestable)

	c, err := store.Columns().Create(ctx, column.Column{UserID: f.owner.ID, Name: "To Apply"})
	if err != nil {
		t.Fatalf("create column: %v", err)
	}
	f.job, err = store.Jobs().Create(ctx, job.Job{UserID: f.owner.ID, ColumnID: c.ID, PositionTitle: "SWE", Company: "Acme", CoverLetter: "Dear Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return f
}

func TestCreateReviewRequest(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	req, err := f.svc.CreateReviewRequest(ctx, f.owner.ID, f.job.ID, f.reviewer.ID, "please look")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if req.Fulfilled || req.JobID != f.job.ID {
		t.Fatalf("unexpected request: %+v", req)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0] != (sentEvent{f.reviewer.ID, event.ReviewRequestCreated}) {
		t.Fatalf("unexpected events: %+v", f.notifier.events)
	}

	incoming, err := f.svc.GetReviewRequestsForUser(ctx, f.reviewer.ID)
	if err != nil {
		t.Fatalf("list incoming: %v", err)
	}
	if len(incoming) != 1 || incoming[0].CoverLetter != "Dear Acme" || incoming[0].OwnerID != f.owner.ID {
		t.Fatalf("unexpected incoming: %+v", incoming)
	}
}

func TestCreateReviewRequest_Rejections(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, true)
	if _, err := f.svc.CreateReviewRequest(ctx, f.reviewer.ID, f.job.ID, f.owner.ID, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign job: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.CreateReviewRequest(ctx, f.owner.ID, f.job.ID, 9999, ""); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("unknown reviewer: expected user.ErrNotFound, got %v", err)
	}
	if _, err := f.svc.CreateReviewRequest(ctx, f.owner.ID, f.job.ID, f.owner.ID, ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self review: expected ErrValidation, got %v", err)
	}

	closed := newFixture(t, false)
	if _, err := closed.svc.CreateReviewRequest(ctx, closed.owner.ID, closed.job.ID, closed.reviewer.ID, ""); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("not requestable: expected ErrConflict, got %v", err)
	}
	if len(f.notifier.events)+len(closed.notifier.events) != 0 {
		t.Fatalf("rejected requests must not notify")
	}
}

func TestCreateReview(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	req, _ := f.svc.CreateReviewRequest(ctx, f.owner.ID, f.job.ID, f.reviewer.ID, "")

	if _, err := f.svc.CreateReview(ctx, f.reviewer.ID, req.ID, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := f.svc.CreateReview(ctx, f.owner.ID, req.ID, "looks good"); !errors.Is(err, review.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound for wrong reviewer, got %v", err)
	}

	rv, err := f.svc.CreateReview(ctx, f.reviewer.ID, req.ID, "looks good")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rv.Completed == nil || rv.RequestID == nil || *rv.RequestID != req.ID {
		t.Fatalf("unexpected review: %+v", rv)
	}
	stored, _ := f.store.Reviews().GetRequest(ctx, req.ID)
	if !stored.Fulfilled {
		t.Fatalf("request should be fulfilled")
	}
	last := f.notifier.events[len(f.notifier.events)-1]
	if last != (sentEvent{f.owner.ID, event.ReviewCreated}) {
		t.Fatalf("unexpected event: %+v", last)
	}

	reviews, err := f.svc.GetReviewsForUser(ctx, f.owner.ID)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Response != "looks good" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}

func TestCreateReview_RollsBackWhenFulfilFails(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	req, _ := f.svc.CreateReviewRequest(ctx, f.owner.ID, f.job.ID, f.reviewer.ID, "")

	f.store.FailOn("reviews.mark_fulfilled", errors.New("boom"))
	if _, err := f.svc.CreateReview(ctx, f.reviewer.ID, req.ID, "ok"); err == nil {
		t.Fatalf("expected error")
	}
	f.store.FailOn("reviews.mark_fulfilled", nil)

	reviews, _ := f.svc.GetReviewsForUser(ctx, f.owner.ID)
	if len(reviews) != 0 {
		t.Fatalf("review should have been rolled back: %+v", reviews)
	}
}

func TestDeleteReviewRequest(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	req, _ := f.svc.CreateReviewRequest(ctx, f.owner.ID, f.job.ID, f.reviewer.ID, "")
	if _, err := f.svc.CreateReview(ctx, f.reviewer.ID, req.ID, "ok"); err != nil {
		t.Fatalf("create review: %v", err)
	}

	if err := f.svc.DeleteReviewRequest(ctx, f.reviewer.ID, req.ID); !errors.Is(err, review.ErrRequestNotFound) {
		t.Fatalf("only the owner may delete, got %v", err)
	}
	if err := f.svc.DeleteReviewRequest(ctx, f.owner.ID, req.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := f.svc.DeleteReviewRequest(ctx, f.owner.ID, req.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	incoming, _ := f.svc.GetReviewRequestsForUser(ctx, f.reviewer.ID)
	if len(incoming) != 0 {
		t.Fatalf("unexpected incoming: %+v", incoming)
	}
	reviews, _ := f.svc.GetReviewsForUser(ctx, f.owner.ID)
	if len(reviews) != 0 {
		t.Fatalf("orphaned reviews are not listed: %+v", reviews)
	}
}
