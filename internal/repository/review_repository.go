package repository

import (
	"context"

	"jamco/internal/database"
	"jamco/internal/database/postgres"
	"jamco/internal/domain/review"
)

type PostgresReviewRepository struct {
	q database.Querier
}

func (r *PostgresReviewRepository) CreateRequest(ctx context.Context, req review.Request) (review.Request, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO review_requests (job_id, reviewer_id, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, fulfilled, created_at`,
		req.JobID, req.ReviewerID, req.Message,
	).Scan(&req.ID, &req.Fulfilled, &req.CreatedAt)
	if err != nil {
		return review.Request{}, err
	}
	return req, nil
}

func (r *PostgresReviewRepository) GetRequest(ctx context.Context, id int64) (review.Request, error) {
	var req review.Request
	err := r.q.QueryRow(ctx,
		`SELECT id, job_id, reviewer_id, message, fulfilled, created_at
		 FROM review_requests WHERE id = $1`,
		id,
	).Scan(&req.ID, &req.JobID, &req.ReviewerID, &req.Message, &req.Fulfilled, &req.CreatedAt)
	if err != nil {
		if postgres.IsNoRows(err) {
			return review.Request{}, review.ErrRequestNotFound
		}
		return review.Request{}, err
	}
	return req, nil
}

func (r *PostgresReviewRepository) ListIncoming(ctx context.Context, reviewerID int64) ([]review.IncomingRequest, error) {
	rows, err := r.q.Query(ctx,
		`SELECT rr.id, rr.job_id, rr.reviewer_id, rr.message, rr.fulfilled, rr.created_at,
		        j.user_id, j.position_title, j.company, j.cover_letter
		 FROM review_requests rr
		 JOIN jobs j ON j.id = rr.job_id
		 WHERE rr.reviewer_id = $1
		 ORDER BY rr.created_at DESC, rr.id DESC`,
		reviewerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]review.IncomingRequest, 0)
	for rows.Next() {
		var in review.IncomingRequest
		if err := rows.Scan(
			&in.ID, &in.JobID, &in.ReviewerID, &in.Message, &in.Fulfilled, &in.CreatedAt,
			&in.OwnerID, &in.PositionTitle, &in.Company, &in.CoverLetter,
		); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresReviewRepository) DeleteRequest(ctx context.Context, ownerID, id int64) error {
	n, err := r.q.Exec(ctx,
		`DELETE FROM review_requests rr
		 USING jobs j
		 WHERE rr.id = $1 AND j.id = rr.job_id AND j.user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrRequestNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) MarkFulfilled(ctx context.Context, id int64) error {
	n, err := r.q.Exec(ctx, `UPDATE review_requests SET fulfilled = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return review.ErrRequestNotFound
	}
	return nil
}

func (r *PostgresReviewRepository) CreateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO reviews (request_id, reviewer_id, response, completed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rv.RequestID, rv.ReviewerID, rv.Response, rv.Completed,
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return review.Review{}, err
	}
	return rv, nil
}

func (r *PostgresReviewRepository) ListForOwner(ctx context.Context, ownerID int64) ([]review.Review, error) {
	rows, err := r.q.Query(ctx,
		`SELECT rv.id, rv.request_id, rv.reviewer_id, rv.response, rv.completed, rv.created_at
		 FROM reviews rv
		 JOIN review_requests rr ON rr.id = rv.request_id
		 JOIN jobs j ON j.id = rr.job_id
		 WHERE j.user_id = $1
		 ORDER BY rv.created_at DESC, rv.id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]review.Review, 0)
	for rows.Next() {
		var rv review.Review
		if err := rows.Scan(&rv.ID, &rv.RequestID, &rv.ReviewerID, &rv.Response, &rv.Completed, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
