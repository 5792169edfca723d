package handler

import (
	"context"

	"jamco/internal/delivery/http/dto"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/domain/friend"
	"jamco/internal/domain/user"
	"jamco/internal/pkg/response"
	frienduc "jamco/internal/usecase/friend"

	"github.com/gofiber/fiber/v3"
)

type FriendUsecase interface {
	CreateRequest(ctx context.Context, fromUserID, toUserID int64) (friend.Request, error)
	AcceptRequest(ctx context.Context, requestID, toUserID, fromUserID int64) (friend.Request, error)
	DenyRequest(ctx context.Context, requestID, toUserID, fromUserID int64) (friend.Request, error)
	RemoveFriend(ctx context.Context, a, b int64) error
	GetFriends(ctx context.Context, userID int64) ([]user.User, error)
	GetRequestsStatus(ctx context.Context, userID int64) (frienduc.RequestsStatus, error)
}

type FriendHandler struct {
	uc FriendUsecase
}

type createFriendRequest struct {
	ToUserID *int64 `json:"to_user_id"`
}

type acknowledgeFriendRequest struct {
	FromUserID *int64 `json:"from_user_id"`
}

func NewFriendHandler(uc FriendUsecase) *FriendHandler {
	return &FriendHandler{uc: uc}
}

func (h *FriendHandler) GetFriends(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	friends, err := h.uc.GetFriends(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewPublicUsers(friends))
}

func (h *FriendHandler) RemoveFriend(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	friendID, err := paramID(c, "friend_id")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveFriend(c.Context(), id, friendID); err != nil {
		return err
	}
	return response.OK(c, nil)
}

func (h *FriendHandler) GetRequestsStatus(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	st, err := h.uc.GetRequestsStatus(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.FriendRequestsStatusResponse{
		Sent:     dto.NewFriendRequests(st.Sent),
		Received: dto.NewFriendRequests(st.Received),
	})
}

func (h *FriendHandler) CreateRequest(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	var req createFriendRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.ToUserID == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "to_user_id is required", nil, nil)
	}

	fr, err := h.uc.CreateRequest(c.Context(), id, *req.ToUserID)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewFriendRequest(fr))
}

func (h *FriendHandler) AcceptRequest(c fiber.Ctx) error {
	return h.acknowledge(c, h.uc.AcceptRequest)
}

func (h *FriendHandler) DenyRequest(c fiber.Ctx) error {
	return h.acknowledge(c, h.uc.DenyRequest)
}

func (h *FriendHandler) acknowledge(c fiber.Ctx, ack func(ctx context.Context, requestID, toUserID, fromUserID int64) (friend.Request, error)) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	requestID, err := paramID(c, "request_id")
	if err != nil {
		return err
	}
	var req acknowledgeFriendRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.FromUserID == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "from_user_id is required", nil, nil)
	}

	fr, err := ack(c.Context(), requestID, id, *req.FromUserID)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewFriendRequest(fr))
}
