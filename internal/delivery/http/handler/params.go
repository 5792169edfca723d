package handler

import (
	"encoding/json"
	"strconv"

	"jamco/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

func paramID(c fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

// ownerID is the :user_id already checked by the access gate.
func ownerID(c fiber.Ctx) (int64, error) {
	id, ok := middleware.OwnerID(c)
	if !ok {
		return 0, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}

func callerID(c fiber.Ctx) (int64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

// bindFields decodes a partial update. Keys are checked against an allow-list
// by the usecase.
func bindFields(c fiber.Ctx) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := bindBody(c, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
