package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
)

// AccessTokenCookie is the cookie the access token is read from. An
// "Authorization: Bearer" header is accepted as well.
const AccessTokenCookie = "accessToken"

const actorKey = "actor"

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// TokenVerifier checks HS256 access tokens signed with a shared secret.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses a signed token and resolves the caller it names.
func (v *TokenVerifier) Verify(signed string) (access.Actor, error) {
	token, err := jwt.ParseWithClaims(signed, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return access.Actor{}, err
	}

	claims, isAccess := token.Claims.(*AccessClaims)
	if !isAccess || !token.Valid {
		return access.Actor{}, errors.New("token is invalid")
	}

	userID, err := kernel.UUIDFromString(claims.UserID)
	if err != nil {
		return access.Actor{}, err
	}
	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return access.Actor{}, err
	}
	return access.NewActor(userID, role)
}

// Authenticate rejects requests without a valid access token and stores the
// resolved actor on the context.
func Authenticate(verifier *TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := accessToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			actor, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token").SetInternal(err)
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequireRoles lets through only actors holding one of roles. It must run
// after Authenticate.
func RequireRoles(roles ...access.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, found := actorFrom(c)
			if !found {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if !actor.Is(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}

func accessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return ""
}

func actorFrom(c echo.Context) (access.Actor, bool) {
	actor, found := c.Get(actorKey).(access.Actor)
	return actor, found
}
