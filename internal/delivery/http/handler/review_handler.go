package handler

import (
	"context"

	"jamco/internal/delivery/http/dto"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/domain/review"
	"jamco/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type ReviewUsecase interface {
	CreateReviewRequest(ctx context.Context, ownerID, jobID, reviewerID int64, message string) (review.Request, error)
	GetReviewRequestsForUser(ctx context.Context, reviewerID int64) ([]review.IncomingRequest, error)
	DeleteReviewRequest(ctx context.Context, ownerID, requestID int64) error
	CreateReview(ctx context.Context, reviewerID, requestID int64, response string) (review.Review, error)
	GetReviewsForUser(ctx context.Context, ownerID int64) ([]review.Review, error)
}

type ReviewHandler struct {
	uc ReviewUsecase
}

type createReviewRequestRequest struct {
	ReviewerID *int64 `json:"reviewer_id"`
	Message    string `json:"message"`
}

type createReviewRequest struct {
	Response string `json:"response"`
}

func NewReviewHandler(uc ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) CreateReviewRequest(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	jobID, err := paramID(c, "job_id")
	if err != nil {
		return err
	}
	var req createReviewRequestRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.ReviewerID == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "reviewer_id is required", nil, nil)
	}

	rr, err := h.uc.CreateReviewRequest(c.Context(), id, jobID, *req.ReviewerID, req.Message)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewReviewRequest(rr))
}

func (h *ReviewHandler) ListIncomingRequests(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	reqs, err := h.uc.GetReviewRequestsForUser(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewIncomingReviewRequests(reqs))
}

func (h *ReviewHandler) DeleteReviewRequest(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	requestID, err := paramID(c, "request_id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteReviewRequest(c.Context(), id, requestID); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *ReviewHandler) CreateReview(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	requestID, err := paramID(c, "request_id")
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	rv, err := h.uc.CreateReview(c.Context(), id, requestID, req.Response)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewReview(rv))
}

func (h *ReviewHandler) ListReviews(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	reviews, err := h.uc.GetReviewsForUser(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewReviews(reviews))
}
