package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/birdwatch-labs/rare-bird-finder/internal/domain"
	apperrors "github.com/birdwatch-labs/rare-bird-finder/pkg/util"
)

const currentUserKey = "auth_current_user"

// UserLookup resolves a user record by the normalized email carried in the
// token subject.
type UserLookup func(ctx context.Context, email string) (*domain.User, error)

// ResolveUser decodes a bearer token as an access token and loads its
// subject. Any decode failure or unknown subject yields Unauthorized; a
// known but inactive subject yields AccountDisabled. It is independent of
// the HTTP framework so the gate logic tests on its own.
func ResolveUser(ctx context.Context, tokens *TokenManager, lookup UserLookup, tokenStr string) (*domain.User, error) {
	subject, err := tokens.Decode(tokenStr, TokenTypeAccess)
	if err != nil {
		return nil, apperrors.NewUnauthorized("could not validate credentials")
	}

	user, err := lookup(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("could not validate credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, apperrors.NewAccountDisabled()
	}
	return user, nil
}

// AuthMiddleware validates bearer tokens and loads the current user.
type AuthMiddleware struct {
	tokens *TokenManager
	lookup UserLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, lookup UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, lookup: lookup}
}

// Required enforces authentication for protected routes.
func (m *AuthMiddleware) Required(c *fiber.Ctx) error {
	tokenStr, err := bearerToken(c)
	if err != nil {
		return err
	}

	user, err := ResolveUser(c.Context(), m.tokens, m.lookup, tokenStr)
	if err != nil {
		return err
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// Optional resolves the current user when a valid token is presented and
// proceeds anonymously otherwise. A stale or malformed token must not fail
// the request.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	tokenStr, err := bearerToken(c)
	if err != nil {
		return c.Next()
	}

	if user, err := ResolveUser(c.Context(), m.tokens, m.lookup, tokenStr); err == nil {
		c.Locals(currentUserKey, user)
	}
	return c.Next()
}

// CurrentUser retrieves the authenticated user, if any.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return parts[1], nil
}
