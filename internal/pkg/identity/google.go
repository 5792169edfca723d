package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var trustedIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

type validateFunc func(ctx context.Context, credential, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens locally against Google's cached
// signing certificates.
type GoogleVerifier struct {
	validate validateFunc
}

func NewGoogleVerifier(ctx context.Context, httpClient *http.Client) (*GoogleVerifier, error) {
	opts := []option.ClientOption{}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("idtoken validator: %w", err)
	}
	return &GoogleVerifier{validate: v.Validate}, nil
}

func (v *GoogleVerifier) Verify(ctx context.Context, credential, clientID string) (Claims, error) {
	if credential == "" || clientID == "" {
		return Claims{}, ErrInvalidCredential
	}

	payload, err := v.validate(ctx, credential, clientID)
	if err != nil {
		// Certificate fetch failures are upstream errors, everything else is
		// a bad token.
		var uerr *url.Error
		if errors.As(err, &uerr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Claims{}, fmt.Errorf("google certs: %w", err)
		}
		return Claims{}, ErrInvalidCredential
	}

	if !trustedIssuers[payload.Issuer] || payload.Subject == "" {
		return Claims{}, ErrInvalidCredential
	}

	return Claims{
		Subject:    payload.Subject,
		Email:      claimString(payload.Claims, "email"),
		Picture:    claimString(payload.Claims, "picture"),
		GivenName:  claimString(payload.Claims, "given_name"),
		FamilyName: claimString(payload.Claims, "family_name"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
