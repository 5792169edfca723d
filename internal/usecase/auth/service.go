package auth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"jamco/internal/domain"
	"jamco/internal/domain/user"
	"jamco/internal/pkg/identity"
	"jamco/internal/pkg/token"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	ErrInvalidSession     = fmt.Errorf("%w: invalid session", domain.ErrUnauthorized)
)

// Accounts is the part of the account service login needs.
type Accounts interface {
	GetOrCreateUser(ctx context.Context, claims identity.Claims) (user.User, bool, error)
}

type LoginResult struct {
	User    user.User
	Created bool
	Token   string
}

type Service struct {
	verifier identity.Verifier
	accounts Accounts
	users    user.Repository
	tokens   token.Service
	logger   *log.Logger
}

func NewService(verifier identity.Verifier, accounts Accounts, users user.Repository, tokens token.Service, logger *log.Logger) *Service {
	return &Service{verifier: verifier, accounts: accounts, users: users, tokens: tokens, logger: logger}
}

func (s *Service) Login(ctx context.Context, credential, clientID string) (LoginResult, error) {
	claims, err := s.verifier.Verify(ctx, credential, clientID)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredential) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	u, created, err := s.accounts.GetOrCreateUser(ctx, claims)
	if err != nil {
		return LoginResult{}, err
	}

	tok, err := s.tokens.Encode(u.GoogleID, *u.LastLogin)
	if err != nil {
		return LoginResult{}, err
	}

	if s.logger != nil {
		s.logger.Printf("Login | user_id=%d created=%v", u.ID, created)
	}
	return LoginResult{User: u, Created: created, Token: tok}, nil
}

// ValidateSession resolves a token to its user. A token stays valid only
// until the next login, which moves last_login forward.
func (s *Service) ValidateSession(ctx context.Context, tok string) (user.User, error) {
	if tok == "" {
		return user.User{}, ErrInvalidSession
	}
	subject, lastLogin, err := s.tokens.Decode(tok)
	if err != nil {
		return user.User{}, ErrInvalidSession
	}

	u, err := s.users.GetByGoogleID(ctx, subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidSession
		}
		return user.User{}, err
	}
	if u.LastLogin == nil || !u.LastLogin.Equal(lastLogin) {
		return user.User{}, ErrInvalidSession
	}
	return u, nil
}
