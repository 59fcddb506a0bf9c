package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ContextKey is where the gate stores the resolved identity on the
// request context.
const ContextKey = "auth:identity"

// TokenFromHeader extracts the raw token from an Authorization header
// of the shape "<scheme> <token>". The scheme match is case
// insensitive; anything else fails as unauthenticated.
func TokenFromHeader(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrUnauthenticated
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", ErrUnauthenticated
	}

	return parts[1], nil
}

// Middleware is the request gate: it extracts the bearer token,
// validates it, resolves the subject, and attaches the identity for
// downstream handlers. It performs one read and no writes, so it is
// safe for arbitrarily many concurrent requests.
//
// Only access tokens pass. A refresh token is a minting credential,
// not a bearer credential, and is rejected here with the same 401 as
// any other invalid token.
func (s *Authenticator) Middleware(cfg Config) fiber.Handler {
	scheme := cfg.scheme()

	return func(c *fiber.Ctx) error {
		raw, err := TokenFromHeader(c.Get(fiber.HeaderAuthorization), scheme)
		if err != nil {
			return err
		}

		claims, err := s.tokens.Validate(raw)
		if err != nil {
			return err
		}

		if !claims.IsKind(TokenKindAccess) {
			s.logger.Warn("Gate rejected non-access token", "kind", claims.Kind)
			return ErrTokenWrongKind
		}

		user, err := s.resolveSubject(c.UserContext(), claims)
		if err != nil {
			return err
		}

		c.Locals(ContextKey, IdentityFromUser(user))

		return c.Next()
	}
}

// IdentityFromContext returns the identity the gate attached, if any.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(ContextKey).(Identity)
	return identity, ok
}

// MustIdentity is for handlers mounted behind the gate, where a missing
// identity means a wiring mistake rather than an unauthenticated call.
func MustIdentity(c *fiber.Ctx) Identity {
	identity, ok := IdentityFromContext(c)
	if !ok {
		panic("auth: handler reached without identity; gate not mounted")
	}
	return identity
}
