package identity

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"google.golang.org/api/idtoken"
)

// fakeValidate accepts "good-token" for the payload's audience.
func fakeValidate(payload idtoken.Payload) validateFunc {
	return func(_ context.Context, credential, audience string) (*idtoken.Payload, error) {
		if credential != "good-token" {
			return nil, errors.New("idtoken: invalid token")
		}
		if audience != payload.Audience {
			return nil, errors.New("idtoken: audience provided does not match aud claim in the JWT")
		}
		p := payload
		return &p, nil
	}
}

func validPayload() idtoken.Payload {
	return idtoken.Payload{
		Issuer:   "https://accounts.google.com",
		Audience: "client-1",
		Subject:  "sub-1",
		Expires:  time.Now().Add(time.Hour).Unix(),
		Claims: map[string]interface{}{
			"email":       "a@example.com",
			"given_name":  "Ada",
			"family_name": "Lovelace",
		},
	}
}

func TestGoogleVerifier_Valid(t *testing.T) {
	v := &GoogleVerifier{validate: fakeValidate(validPayload())}

	c, err := v.Verify(context.Background(), "good-token", "client-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Subject != "sub-1" || c.GivenName != "Ada" || c.Email != "a@example.com" || c.Picture != "" {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestGoogleVerifier_Rejects(t *testing.T) {
	wrongIss := validPayload()
	wrongIss.Issuer = "evil.example.com"
	noSubject := validPayload()
	noSubject.Subject = ""

	tests := []struct {
		name     string
		payload  idtoken.Payload
		token    string
		clientID string
	}{
		{name: "bad token", payload: validPayload(), token: "bad-token", clientID: "client-1"},
		{name: "wrong audience", payload: validPayload(), token: "good-token", clientID: "client-2"},
		{name: "wrong issuer", payload: wrongIss, token: "good-token", clientID: "client-1"},
		{name: "no subject", payload: noSubject, token: "good-token", clientID: "client-1"},
		{name: "empty credential", payload: validPayload(), token: "", clientID: "client-1"},
		{name: "empty client", payload: validPayload(), token: "good-token", clientID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &GoogleVerifier{validate: fakeValidate(tt.payload)}
			if _, err := v.Verify(context.Background(), tt.token, tt.clientID); !errors.Is(err, ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}

func TestGoogleVerifier_UpstreamError(t *testing.T) {
	v := &GoogleVerifier{validate: func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, &url.Error{Op: "Get", URL: "https://www.googleapis.com/oauth2/v3/certs", Err: errors.New("connection refused")}
	}}

	_, err := v.Verify(context.Background(), "good-token", "client-1")
	if err == nil || errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestStubVerifier(t *testing.T) {
	var v StubVerifier
	c, err := v.Verify(context.Background(), "test", "test")
	if err != nil || c.Subject != "1234567890" || c.GivenName != "John" {
		t.Fatalf("unexpected result: %+v %v", c, err)
	}
	if _, err := v.Verify(context.Background(), "not_test", "not_test"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}
