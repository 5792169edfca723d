package repository

import (
	"context"
	"time"

	"jamco/internal/database"
	"jamco/internal/database/postgres"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/user"
)

type PostgresFriendRepository struct {
	q database.Querier
}

func (r *PostgresFriendRepository) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	low, high := friend.Pair(a, b)
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM friendships WHERE user_low = $1 AND user_high = $2)`,
		low, high,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresFriendRepository) AddFriendship(ctx context.Context, a, b int64) error {
	low, high := friend.Pair(a, b)
	_, err := r.q.Exec(ctx,
		`INSERT INTO friendships (user_low, user_high) VALUES ($1, $2)
		 ON CONFLICT (user_low, user_high) DO NOTHING`,
		low, high,
	)
	return err
}

func (r *PostgresFriendRepository) RemoveFriendship(ctx context.Context, a, b int64) error {
	low, high := friend.Pair(a, b)
	_, err := r.q.Exec(ctx, `DELETE FROM friendships WHERE user_low = $1 AND user_high = $2`, low, high)
	return err
}

func (r *PostgresFriendRepository) ListFriends(ctx context.Context, userID int64) ([]user.User, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+`
		 FROM friendships f
		 JOIN users u ON u.id = CASE WHEN f.user_low = $1 THEN f.user_high ELSE f.user_low END
		 WHERE f.user_low = $1 OR f.user_high = $1
		 ORDER BY u.username ASC, u.id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresFriendRepository) HasPendingRequest(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM friend_requests
		   WHERE from_user_id = $1 AND to_user_id = $2 AND acknowledged IS NULL)`,
		fromUserID, toUserID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresFriendRepository) CreateRequest(ctx context.Context, req friend.Request) (friend.Request, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO friend_requests (from_user_id, to_user_id, sent)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		req.FromUserID, req.ToUserID, req.Sent,
	).Scan(&req.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return friend.Request{}, friend.ErrRequestPending
		}
		return friend.Request{}, err
	}
	return req, nil
}

func (r *PostgresFriendRepository) Acknowledge(ctx context.Context, id, toUserID, fromUserID int64, accepted bool, at time.Time) (friend.Request, error) {
	var req friend.Request
	err := r.q.QueryRow(ctx,
		`UPDATE friend_requests
		 SET accepted = $4, acknowledged = $5
		 WHERE id = $1 AND to_user_id = $2 AND from_user_id = $3 AND acknowledged IS NULL
		 RETURNING id, from_user_id, to_user_id, sent, accepted, acknowledged`,
		id, toUserID, fromUserID, accepted, at,
	).Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Sent, &req.Accepted, &req.Acknowledged)
	if err != nil {
		if postgres.IsNoRows(err) {
			return friend.Request{}, friend.ErrNoPendingRequest
		}
		return friend.Request{}, err
	}
	return req, nil
}

func (r *PostgresFriendRepository) ListSent(ctx context.Context, userID int64) ([]friend.Request, error) {
	return r.listRequests(ctx, `from_user_id = $1`, userID)
}

func (r *PostgresFriendRepository) ListReceived(ctx context.Context, userID int64) ([]friend.Request, error) {
	return r.listRequests(ctx, `to_user_id = $1`, userID)
}

func (r *PostgresFriendRepository) listRequests(ctx context.Context, where string, userID int64) ([]friend.Request, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, from_user_id, to_user_id, sent, accepted, acknowledged
		 FROM friend_requests
		 WHERE `+where+`
		 ORDER BY sent ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]friend.Request, 0)
	for rows.Next() {
		var req friend.Request
		if err := rows.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &req.Sent, &req.Accepted, &req.Acknowledged); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
