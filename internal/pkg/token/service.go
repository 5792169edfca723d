package token

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "jamco session token"

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	LastLogin time.Time `json:"last_login"`

	jwtlib.RegisteredClaims
}

// Service binds a subject and its last login time into a bearer token.
type Service interface {
	Encode(subject string, lastLogin time.Time) (string, error)
	Decode(token string) (subject string, lastLogin time.Time, err error)
}

type HMACService struct {
	key       []byte
	expiresIn time.Duration

	now func() time.Time
}

// DeriveKey stretches the configured secret into the HS256 signing key.
func DeriveKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrTokenInvalid
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return nil, err
	}
	return key, nil
}

func NewHMACService(key []byte, expiresIn time.Duration) *HMACService {
	return &HMACService{
		key:       key,
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *HMACService) Encode(subject string, lastLogin time.Time) (string, error) {
	if len(s.key) == 0 || s.expiresIn <= 0 || subject == "" {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()

	c := Claims{
		LastLogin: lastLogin.UTC(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.key)
}

func (s *HMACService) Decode(token string) (string, time.Time, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	)

	var c Claims
	tok, err := p.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", time.Time{}, ErrTokenExpired
		}
		return "", time.Time{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.Subject == "" || c.LastLogin.IsZero() {
		return "", time.Time{}, ErrTokenInvalid
	}

	return c.Subject, c.LastLogin, nil
}
