package handler

import (
	"context"
	"encoding/json"

	"jamco/internal/delivery/http/dto"
	"jamco/internal/domain/user"
	"jamco/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type UserUsecase interface {
	GetUser(ctx context.Context, userID int64) (user.User, error)
	UpdateUser(ctx context.Context, userID int64, fields map[string]json.RawMessage) (user.User, error)
	GetPrivacy(ctx context.Context, userID int64) (user.Privacy, error)
	UpdatePrivacy(ctx context.Context, userID int64, fields map[string]json.RawMessage) (user.Privacy, error)
	SearchUsers(ctx context.Context, callerID int64, query string) ([]user.User, error)
}

type UserHandler struct {
	uc UserUsecase
}

func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) Search(c fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}

	users, err := h.uc.SearchUsers(c.Context(), caller, c.Query("name"))
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewPublicUsers(users))
}

func (h *UserHandler) GetUser(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	u, err := h.uc.GetUser(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewUserResponse(u))
}

func (h *UserHandler) UpdateUser(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	u, err := h.uc.UpdateUser(c.Context(), id, fields)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewUserResponse(u))
}

func (h *UserHandler) GetPrivacy(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.GetPrivacy(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewPrivacyResponse(p))
}

func (h *UserHandler) UpdatePrivacy(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	p, err := h.uc.UpdatePrivacy(c.Context(), id, fields)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewPrivacyResponse(p))
}
