package handler

import (
	"context"
	"strings"
	"time"

	"jamco/internal/config"
	"jamco/internal/delivery/http/dto"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/domain/user"
	"jamco/internal/pkg/response"
	ucauth "jamco/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthUsecase interface {
	Login(ctx context.Context, credential, clientID string) (ucauth.LoginResult, error)
	ValidateSession(ctx context.Context, token string) (user.User, error)
}

type AuthHandler struct {
	uc           AuthUsecase
	tokenTTL     time.Duration
	cookieSecure bool
	// clientID, when set, is the only audience logins may claim.
	clientID string
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
	ClientID   string `json:"client_id"`
}

type loginResponse struct {
	User    dto.UserResponse `json:"user"`
	Created bool             `json:"created"`
	Token   string           `json:"token"`
}

func NewAuthHandler(uc AuthUsecase, cfg config.AuthConfig) *AuthHandler {
	h := &AuthHandler{uc: uc, tokenTTL: cfg.TokenTTL, cookieSecure: cfg.CookieSecure}
	if !cfg.UseStubVerifier {
		h.clientID = cfg.GoogleClientID
	}
	return h
}

// RegisterRoutes mounts the public login route. validate needs the auth
// middleware, so it is mounted separately.
func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/google", h.GoogleLogin)
	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) GoogleLogin(c fiber.Ctx) error {
	var req googleLoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Credential) == "" || strings.TrimSpace(req.ClientID) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "credential and client_id are required", nil, nil)
	}
	if h.clientID != "" && req.ClientID != h.clientID {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.uc.Login(c.Context(), req.Credential, req.ClientID)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return response.Success(c, status, "", loginResponse{
		User:    dto.NewUserResponse(res.User),
		Created: res.Created,
		Token:   res.Token,
	})
}

// Validate answers for the session resolved by the auth middleware.
func (h *AuthHandler) Validate(c fiber.Ctx) error {
	tok, _ := middleware.TokenFromRequest(c)
	u, err := h.uc.ValidateSession(c.Context(), tok)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewUserResponse(u))
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.ClearCookie(middleware.AuthCookie)
	return response.OK(c, nil)
}
