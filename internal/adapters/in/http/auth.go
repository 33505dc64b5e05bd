package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"iskxpress/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// Claims is the bearer token payload. Subject holds the actor id; vendors also
// carry the stall they run.
type Claims struct {
	Role    string `json:"role"`
	StallID string `json:"stallId,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth verifies HS256 bearer tokens and stores the resulting kernel.Actor on the
// request context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderAuthorization))
			scheme, token, ok := strings.Cut(raw, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return errUnauthenticated
			}

			actor, err := ParseActor(secret, strings.TrimSpace(token))
			if err != nil {
				return fmt.Errorf("%w: %w", errUnauthenticated, err)
			}

			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

// ParseActor validates a signed token and builds the actor it names.
func ParseActor(secret []byte, token string) (kernel.Actor, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return kernel.Actor{}, err
	}
	if !parsed.Valid {
		return kernel.Actor{}, errors.New("token is not valid")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Actor{}, fmt.Errorf("sub claim: %w", err)
	}

	role := kernel.Role(claims.Role)
	if role == kernel.RoleVendor {
		stallID, err := kernel.UUIDFromString(claims.StallID)
		if err != nil {
			return kernel.Actor{}, fmt.Errorf("stallId claim: %w", err)
		}
		return kernel.NewVendorActor(id, stallID)
	}
	return kernel.NewActor(id, role)
}

// IssueToken signs a token for actor, valid for ttl.
func IssueToken(secret []byte, actor kernel.Actor, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Role: actor.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if stallID := actor.StallID(); stallID != nil {
		claims.StallID = stallID.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func actorFrom(ctx echo.Context) (kernel.Actor, error) {
	actor, ok := ctx.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errUnauthenticated
	}
	return actor, nil
}
