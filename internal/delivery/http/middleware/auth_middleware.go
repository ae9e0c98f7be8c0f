package middleware

import (
	"errors"
	"strings"

	"matchpoint/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxSessionIDKey = "session_id"
	CtxHandleKey    = "handle"
)

// AuthMiddleware validates the optional session token. Endpoints behind it
// reject requests without a valid bearer token.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.Validate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Session expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid session", nil, err)
		}

		c.Locals(CtxSessionIDKey, claims.SessionID)
		c.Locals(CtxHandleKey, claims.Handle)

		return c.Next()
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
