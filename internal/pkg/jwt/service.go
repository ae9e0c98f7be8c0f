// Package jwt issues and validates the session tokens that tie a browser
// to its profile. There are no accounts; a session is an anonymous handle.
package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	Handle    string    `json:"handle,omitempty"`

	jwtlib.RegisteredClaims
}

type Service interface {
	IssueSession(handle string) (string, Claims, error)
	Validate(tokenString string) (Claims, error)
}

// HMACService signs session tokens with a single HS256 secret.
type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	if expiresIn <= 0 {
		expiresIn = 30 * 24 * time.Hour
	}
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *HMACService) IssueSession(handle string) (string, Claims, error) {
	now := s.now()
	id := uuid.New()
	c := Claims{
		SessionID: id,
		Handle:    handle,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now.UTC()),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn).UTC()),
			Subject:   id.String(),
		},
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, c, nil
}

func (s *HMACService) Validate(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	_, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
