package middleware

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// CtxOwnerIDKey holds the parsed :user_id of the board being accessed.
const CtxOwnerIDKey = "owner_id"

type Authorizer interface {
	Authorize(ctx context.Context, callerID, ownerID int64, allowFriends bool) error
}

// AccessGate guards every /users/:user_id route. It must run after
// AuthMiddleware.
type AccessGate struct {
	gate Authorizer
}

func NewAccessGate(gate Authorizer) *AccessGate {
	return &AccessGate{gate: gate}
}

func (g *AccessGate) Owner() fiber.Handler {
	return g.handler(false)
}

func (g *AccessGate) OwnerOrFriend() fiber.Handler {
	return g.handler(true)
}

func (g *AccessGate) handler(allowFriends bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		callerID, ok := UserID(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		ownerID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
		if err != nil {
			return NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
		}

		if err := g.gate.Authorize(c.Context(), callerID, ownerID, allowFriends); err != nil {
			if StatusFor(err) == fiber.StatusUnauthorized {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
			}
			return err
		}

		c.Locals(CtxOwnerIDKey, ownerID)
		return c.Next()
	}
}

// OwnerID returns the :user_id checked by AccessGate.
func OwnerID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxOwnerIDKey).(int64)
	return id, ok
}
