package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"jamco/internal/domain"
	"jamco/internal/domain/column"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/job"
	"jamco/internal/domain/review"
	"jamco/internal/domain/user"
)

type userRepo struct{ v view }

func (r userRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.v.do(ctx, "users.create", func(st *state) error {
		for _, existing := range st.users {
			if existing.GoogleID == u.GoogleID {
				return domain.ErrConflict
			}
		}
		u.ID = st.id()
		u.CreatedAt = r.v.now()
		st.users[u.ID] = u
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (r userRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var out user.User
	err := r.v.do(ctx, "users.get", func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return user.ErrNotFound
		}
		out = u
		return nil
	})
	return out, err
}

func (r userRepo) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	var out user.User
	err := r.v.do(ctx, "users.get_by_google_id", func(st *state) error {
		for _, u := range st.users {
			if u.GoogleID == googleID {
				out = u
				return nil
			}
		}
		return user.ErrNotFound
	})
	return out, err
}

func (r userRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.v.do(ctx, "users.exists", func(st *state) error {
		_, ok = st.users[id]
		return nil
	})
	return ok, err
}

func (r userRepo) Update(ctx context.Context, u user.User) error {
	return r.v.do(ctx, "users.update", func(st *state) error {
		existing, ok := st.users[u.ID]
		if !ok {
			return user.ErrNotFound
		}
		u.GoogleID = existing.GoogleID
		u.LastLogin = existing.LastLogin
		u.CreatedAt = existing.CreatedAt
		st.users[u.ID] = u
		return nil
	})
}

func (r userRepo) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.v.do(ctx, "users.touch_last_login", func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return user.ErrNotFound
		}
		u.LastLogin = &at
		st.users[id] = u
		return nil
	})
}

func (r userRepo) SearchByName(ctx context.Context, query string, excludeID int64, limit int) ([]user.User, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]user.User, 0)
	err := r.v.do(ctx, "users.search", func(st *state) error {
		for _, u := range st.users {
			if u.ID == excludeID || !st.privacy[u.ID].IsSearchable {
				continue
			}
			full := u.FirstName + " " + u.LastName
			for _, field := range []string{u.Username, u.FirstName, u.LastName, full} {
				if strings.Contains(strings.ToLower(field), needle) {
					out = append(out, u)
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortUsers(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortUsers(us []user.User) {
	slices.SortFunc(us, func(a, b user.User) int {
		return cmp.Or(cmp.Compare(a.Username, b.Username), cmp.Compare(a.ID, b.ID))
	})
}

type privacyRepo struct{ v view }

func (r privacyRepo) Create(ctx context.Context, p user.Privacy) error {
	return r.v.do(ctx, "privacy.create", func(st *state) error {
		if _, ok := st.privacy[p.UserID]; ok {
			return domain.ErrConflict
		}
		st.privacy[p.UserID] = p
		return nil
	})
}

func (r privacyRepo) Get(ctx context.Context, userID int64) (user.Privacy, error) {
	var out user.Privacy
	err := r.v.do(ctx, "privacy.get", func(st *state) error {
		p, ok := st.privacy[userID]
		if !ok {
			return user.ErrPrivacyNotFound
		}
		out = p
		return nil
	})
	return out, err
}

func (r privacyRepo) Update(ctx context.Context, p user.Privacy) error {
	return r.v.do(ctx, "privacy.update", func(st *state) error {
		if _, ok := st.privacy[p.UserID]; !ok {
			return user.ErrPrivacyNotFound
		}
		st.privacy[p.UserID] = p
		return nil
	})
}

type columnRepo struct{ v view }

func (r columnRepo) ListByUser(ctx context.Context, userID int64) ([]column.Column, error) {
	out := make([]column.Column, 0)
	err := r.v.do(ctx, "columns.list", func(st *state) error {
		for _, c := range st.columns {
			if c.UserID == userID {
				out = append(out, c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b column.Column) int {
		return cmp.Or(cmp.Compare(a.ColumnNumber, b.ColumnNumber), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r columnRepo) GetByID(ctx context.Context, userID, id int64) (column.Column, error) {
	var out column.Column
	err := r.v.do(ctx, "columns.get", func(st *state) error {
		c, ok := st.columns[id]
		if !ok || c.UserID != userID {
			return column.ErrNotFound
		}
		out = c
		return nil
	})
	return out, err
}

func (r columnRepo) Create(ctx context.Context, c column.Column) (column.Column, error) {
	err := r.v.do(ctx, "columns.create", func(st *state) error {
		if _, ok := st.users[c.UserID]; !ok {
			return user.ErrNotFound
		}
		c.ID = st.id()
		st.columns[c.ID] = c
		return nil
	})
	if err != nil {
		return column.Column{}, err
	}
	return c, nil
}

func (r columnRepo) Update(ctx context.Context, c column.Column) error {
	return r.v.do(ctx, "columns.update", func(st *state) error {
		existing, ok := st.columns[c.ID]
		if !ok || existing.UserID != c.UserID {
			return column.ErrNotFound
		}
		st.columns[c.ID] = c
		return nil
	})
}

func (r columnRepo) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	return r.v.do(ctx, "columns.delete", func(st *state) error {
		for _, id := range ids {
			c, ok := st.columns[id]
			if !ok || c.UserID != userID {
				continue
			}
			delete(st.columns, id)
			for jobID, j := range st.jobs {
				if j.ColumnID == id {
					st.deleteJob(jobID)
				}
			}
		}
		return nil
	})
}

// deleteJob mirrors the cascade rules of the schema.
func (s *state) deleteJob(jobID int64) {
	delete(s.jobs, jobID)
	for id, rr := range s.reviewRequests {
		if rr.JobID == jobID {
			s.deleteReviewRequest(id)
		}
	}
}

func (s *state) deleteReviewRequest(id int64) {
	delete(s.reviewRequests, id)
	for rid, rv := range s.reviews {
		if rv.RequestID != nil && *rv.RequestID == id {
			rv.RequestID = nil
			s.reviews[rid] = rv
		}
	}
}

type friendRepo struct{ v view }

func (r friendRepo) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	var ok bool
	err := r.v.do(ctx, "friends.are_friends", func(st *state) error {
		low, high := friend.Pair(a, b)
		_, ok = st.friendships[[2]int64{low, high}]
		return nil
	})
	return ok, err
}

func (r friendRepo) AddFriendship(ctx context.Context, a, b int64) error {
	return r.v.do(ctx, "friends.add", func(st *state) error {
		if _, ok := st.users[a]; !ok {
			return user.ErrNotFound
		}
		if _, ok := st.users[b]; !ok {
			return user.ErrNotFound
		}
		low, high := friend.Pair(a, b)
		st.friendships[[2]int64{low, high}] = struct{}{}
		return nil
	})
}

func (r friendRepo) RemoveFriendship(ctx context.Context, a, b int64) error {
	return r.v.do(ctx, "friends.remove", func(st *state) error {
		low, high := friend.Pair(a, b)
		delete(st.friendships, [2]int64{low, high})
		return nil
	})
}

func (r friendRepo) ListFriends(ctx context.Context, userID int64) ([]user.User, error) {
	out := make([]user.User, 0)
	err := r.v.do(ctx, "friends.list", func(st *state) error {
		for pair := range st.friendships {
			var other int64
			switch userID {
			case pair[0]:
				other = pair[1]
			case pair[1]:
				other = pair[0]
			default:
				continue
			}
			if u, ok := st.users[other]; ok {
				out = append(out, u)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortUsers(out)
	return out, nil
}

func (r friendRepo) HasPendingRequest(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	var found bool
	err := r.v.do(ctx, "friends.has_pending", func(st *state) error {
		found = st.pendingIndex(fromUserID, toUserID) >= 0
		return nil
	})
	return found, err
}

func (s *state) pendingIndex(from, to int64) int {
	return slices.IndexFunc(s.requests, func(req friend.Request) bool {
		return req.FromUserID == from && req.ToUserID == to && req.Pending()
	})
}

func (r friendRepo) CreateRequest(ctx context.Context, req friend.Request) (friend.Request, error) {
	err := r.v.do(ctx, "friends.create_request", func(st *state) error {
		if st.pendingIndex(req.FromUserID, req.ToUserID) >= 0 {
			return friend.ErrRequestPending
		}
		req.ID = st.id()
		req.Accepted = false
		req.Acknowledged = nil
		st.requests = append(st.requests, req)
		return nil
	})
	if err != nil {
		return friend.Request{}, err
	}
	return req, nil
}

func (r friendRepo) Acknowledge(ctx context.Context, id, toUserID, fromUserID int64, accepted bool, at time.Time) (friend.Request, error) {
	var out friend.Request
	err := r.v.do(ctx, "friends.acknowledge", func(st *state) error {
		i := slices.IndexFunc(st.requests, func(req friend.Request) bool {
			return req.ID == id && req.ToUserID == toUserID && req.FromUserID == fromUserID && req.Pending()
		})
		if i < 0 {
			return friend.ErrNoPendingRequest
		}
		st.requests[i].Accepted = accepted
		st.requests[i].Acknowledged = &at
		out = st.requests[i]
		return nil
	})
	return out, err
}

func (r friendRepo) ListSent(ctx context.Context, userID int64) ([]friend.Request, error) {
	return r.list(ctx, func(req friend.Request) bool { return req.FromUserID == userID })
}

func (r friendRepo) ListReceived(ctx context.Context, userID int64) ([]friend.Request, error) {
	return r.list(ctx, func(req friend.Request) bool { return req.ToUserID == userID })
}

func (r friendRepo) list(ctx context.Context, match func(friend.Request) bool) ([]friend.Request, error) {
	out := make([]friend.Request, 0)
	err := r.v.do(ctx, "friends.list_requests", func(st *state) error {
		for _, req := range st.requests {
			if match(req) {
				out = append(out, req)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type jobRepo struct{ v view }

func (r jobRepo) Create(ctx context.Context, j job.Job) (job.Job, error) {
	err := r.v.do(ctx, "jobs.create", func(st *state) error {
		if c, ok := st.columns[j.ColumnID]; !ok || c.UserID != j.UserID {
			return column.ErrNotFound
		}
		j.ID = st.id()
		st.jobs[j.ID] = j
		return nil
	})
	if err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r jobRepo) Update(ctx context.Context, j job.Job) error {
	return r.v.do(ctx, "jobs.update", func(st *state) error {
		existing, ok := st.jobs[j.ID]
		if !ok || existing.UserID != j.UserID {
			return job.ErrNotFound
		}
		if _, ok := st.columns[j.ColumnID]; !ok {
			return column.ErrNotFound
		}
		st.jobs[j.ID] = j
		return nil
	})
}

func (r jobRepo) GetByID(ctx context.Context, userID, jobID int64) (job.Job, error) {
	var out job.Job
	err := r.v.do(ctx, "jobs.get", func(st *state) error {
		j, ok := st.jobs[jobID]
		if !ok || j.UserID != userID {
			return job.ErrNotFound
		}
		out = j
		return nil
	})
	return out, err
}

func (r jobRepo) ListSummaries(ctx context.Context, userID int64) ([]job.Summary, error) {
	out := make([]job.Summary, 0)
	err := r.v.do(ctx, "jobs.list", func(st *state) error {
		for _, j := range st.jobs {
			if j.UserID == userID {
				out = append(out, job.Summary{
					ID:            j.ID,
					ColumnID:      j.ColumnID,
					PositionTitle: j.PositionTitle,
					Company:       j.Company,
					Type:          j.Type,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b job.Summary) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

type reviewRepo struct{ v view }

func (r reviewRepo) CreateRequest(ctx context.Context, req review.Request) (review.Request, error) {
	err := r.v.do(ctx, "reviews.create_request", func(st *state) error {
		if _, ok := st.jobs[req.JobID]; !ok {
			return job.ErrNotFound
		}
		req.ID = st.id()
		req.Fulfilled = false
		req.CreatedAt = r.v.now()
		st.reviewRequests[req.ID] = req
		return nil
	})
	if err != nil {
		return review.Request{}, err
	}
	return req, nil
}

func (r reviewRepo) GetRequest(ctx context.Context, id int64) (review.Request, error) {
	var out review.Request
	err := r.v.do(ctx, "reviews.get_request", func(st *state) error {
		req, ok := st.reviewRequests[id]
		if !ok {
			return review.ErrRequestNotFound
		}
		out = req
		return nil
	})
	return out, err
}

func (r reviewRepo) ListIncoming(ctx context.Context, reviewerID int64) ([]review.IncomingRequest, error) {
	out := make([]review.IncomingRequest, 0)
	err := r.v.do(ctx, "reviews.list_incoming", func(st *state) error {
		for _, req := range st.reviewRequests {
			if req.ReviewerID != reviewerID {
				continue
			}
			j := st.jobs[req.JobID]
			out = append(out, review.IncomingRequest{
				Request:       req,
				OwnerID:       j.UserID,
				PositionTitle: j.PositionTitle,
				Company:       j.Company,
				CoverLetter:   j.CoverLetter,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b review.IncomingRequest) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}

func (r reviewRepo) DeleteRequest(ctx context.Context, ownerID, id int64) error {
	return r.v.do(ctx, "reviews.delete_request", func(st *state) error {
		req, ok := st.reviewRequests[id]
		if !ok || st.jobs[req.JobID].UserID != ownerID {
			return review.ErrRequestNotFound
		}
		st.deleteReviewRequest(id)
		return nil
	})
}

func (r reviewRepo) MarkFulfilled(ctx context.Context, id int64) error {
	return r.v.do(ctx, "reviews.mark_fulfilled", func(st *state) error {
		req, ok := st.reviewRequests[id]
		if !ok {
			return review.ErrRequestNotFound
		}
		req.Fulfilled = true
		st.reviewRequests[id] = req
		return nil
	})
}

func (r reviewRepo) CreateReview(ctx context.Context, rv review.Review) (review.Review, error) {
	err := r.v.do(ctx, "reviews.create", func(st *state) error {
		rv.ID = st.id()
		rv.CreatedAt = r.v.now()
		st.reviews[rv.ID] = rv
		return nil
	})
	if err != nil {
		return review.Review{}, err
	}
	return rv, nil
}

func (r reviewRepo) ListForOwner(ctx context.Context, ownerID int64) ([]review.Review, error) {
	out := make([]review.Review, 0)
	err := r.v.do(ctx, "reviews.list_for_owner", func(st *state) error {
		for _, rv := range st.reviews {
			if rv.RequestID == nil {
				continue
			}
			req, ok := st.reviewRequests[*rv.RequestID]
			if !ok || st.jobs[req.JobID].UserID != ownerID {
				continue
			}
			out = append(out, rv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b review.Review) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}
