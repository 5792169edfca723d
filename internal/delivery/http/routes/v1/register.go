package v1

import (
	"jamco/internal/delivery/http/handler"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Column *handler.ColumnHandler
	Friend *handler.FriendHandler
	Job    *handler.JobHandler
	Review *handler.ReviewHandler
	// WS is optional; without it /ws is not mounted.
	WS *ws.Handler

	AuthMiddleware *middleware.AuthMiddleware
	AccessGate     *middleware.AccessGate
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	authMw := h.AuthMiddleware.Middleware()
	owner := h.AccessGate.Owner()
	friend := h.AccessGate.OwnerOrFriend()

	authGroup := r.Group("/auth")
	h.Auth.RegisterRoutes(authGroup)
	authGroup.Post("/validate", authMw, h.Auth.Validate)

	protected := r.Group("", authMw)
	if h.WS != nil {
		protected.Get("/ws", h.WS.HandleNotifications)
	}

	protected.Get("/users/search", h.User.Search)

	u := protected.Group("/users/:user_id")
	u.Get("", owner, h.User.GetUser)
	u.Patch("", owner, h.User.UpdateUser)
	u.Get("/privacy", owner, h.User.GetPrivacy)
	u.Patch("/privacy", owner, h.User.UpdatePrivacy)

	u.Get("/columns", friend, h.Column.GetColumns)
	u.Put("/columns", owner, h.Column.UpdateColumns)

	u.Get("/friends", owner, h.Friend.GetFriends)
	u.Delete("/friends/:friend_id", owner, h.Friend.RemoveFriend)
	u.Get("/friend-requests", owner, h.Friend.GetRequestsStatus)
	u.Post("/friend-requests", owner, h.Friend.CreateRequest)
	u.Post("/friend-requests/:request_id/accept", owner, h.Friend.AcceptRequest)
	u.Post("/friend-requests/:request_id/deny", owner, h.Friend.DenyRequest)

	u.Get("/jobs", friend, h.Job.ListJobs)
	u.Post("/jobs", owner, h.Job.CreateJob)
	u.Post("/jobs/import", owner, h.Job.ImportJob)
	u.Get("/jobs/:job_id", friend, h.Job.GetJob)
	u.Patch("/jobs/:job_id", owner, h.Job.UpdateJob)
	u.Post("/jobs/:job_id/review-requests", owner, h.Review.CreateReviewRequest)

	u.Get("/review-requests", owner, h.Review.ListIncomingRequests)
	u.Delete("/review-requests/:request_id", owner, h.Review.DeleteReviewRequest)
	u.Post("/review-requests/:request_id/reviews", owner, h.Review.CreateReview)
	u.Get("/reviews", owner, h.Review.ListReviews)
}
