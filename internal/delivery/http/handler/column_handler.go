package handler

import (
	"context"

	"jamco/internal/delivery/http/dto"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/domain/column"
	"jamco/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type ColumnUsecase interface {
	GetColumns(ctx context.Context, userID int64) ([]column.Column, error)
	UpdateColumns(ctx context.Context, userID int64, desired []column.Spec) ([]column.Column, error)
}

type ColumnHandler struct {
	uc ColumnUsecase
}

// updateColumnsRequest keeps Payload a pointer so a missing key is rejected
// while an empty list clears the board.
type updateColumnsRequest struct {
	Payload *[]column.Spec `json:"payload"`
}

func NewColumnHandler(uc ColumnUsecase) *ColumnHandler {
	return &ColumnHandler{uc: uc}
}

func (h *ColumnHandler) GetColumns(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	cols, err := h.uc.GetColumns(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewColumns(cols))
}

func (h *ColumnHandler) UpdateColumns(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	var req updateColumnsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Payload == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "payload is required", nil, nil)
	}

	cols, err := h.uc.UpdateColumns(c.Context(), id, *req.Payload)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewColumns(cols))
}
