// Package identity verifies credentials issued by the external identity
// provider and returns the claims an account is built from.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidCredential = errors.New("invalid credential")

type Claims struct {
	Subject    string
	Email      string
	Picture    string
	GivenName  string
	FamilyName string
}

type Verifier interface {
	Verify(ctx context.Context, credential, clientID string) (Claims, error)
}

// StubVerifier accepts only credential "test" for client "test" and always
// returns the same identity.
type StubVerifier struct{}

func (StubVerifier) Verify(_ context.Context, credential, clientID string) (Claims, error) {
	if credential != "test" || clientID != "test" {
		return Claims{}, ErrInvalidCredential
	}
	return Claims{
		Subject:    "1234567890",
		Email:      "john.doe@gmail.com",
		Picture:    "https://i.imgur.com/QJpNyuN.png",
		GivenName:  "John",
		FamilyName: "Doe",
	}, nil
}
