package middleware

import (
	"context"
	"strings"

	"jamco/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"

	// AuthCookie carries the session token set on login.
	AuthCookie = "auth_token"
)

type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (user.User, error)
}

type AuthMiddleware struct {
	sessions SessionValidator
}

func NewAuthMiddleware(sessions SessionValidator) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Middleware accepts the session cookie or an Authorization bearer token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := TokenFromRequest(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		u, err := m.sessions.ValidateSession(c.Context(), token)
		if err != nil {
			if StatusFor(err) == fiber.StatusUnauthorized {
				return NewAppError(fiber.StatusUnauthorized, "Invalid session", nil, err)
			}
			return err
		}

		c.Locals(CtxUserIDKey, u.ID)
		return c.Next()
	}
}

// UserID returns the caller set by AuthMiddleware.
func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxUserIDKey).(int64)
	return id, ok
}

func TokenFromRequest(c fiber.Ctx) (string, bool) {
	if tok, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
		return tok, true
	}
	tok := strings.TrimSpace(c.Cookies(AuthCookie))
	return tok, tok != ""
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
