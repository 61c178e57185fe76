package api

import (
	"aurum-core/internal/domain/entity"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
	localName   = "name"
)

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseBearer(c.Get(fiber.HeaderAuthorization), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": entity.ErrUnauthorized.Error()})
		}
		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets guests through.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if header := c.Get(fiber.HeaderAuthorization); header != "" {
			if claims, err := parseBearer(header, secret); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

func parseBearer(header, secret string) (jwt.MapClaims, error) {
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" || secret == "" {
		return nil, entity.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, entity.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, entity.ErrUnauthorized
	}
	if uid, _ := claims["user_id"].(string); uid == "" {
		return nil, fmt.Errorf("%w: missing user_id claim", entity.ErrUnauthorized)
	}
	return claims, nil
}

func setClaims(c *fiber.Ctx, claims jwt.MapClaims) {
	c.Locals(localUserID, claims["user_id"])
	c.Locals(localEmail, claims["email"])
	c.Locals(localName, claims["name"])
}

func userIDFrom(c *fiber.Ctx) string {
	uid, _ := c.Locals(localUserID).(string)
	return uid
}

func customerFrom(c *fiber.Ctx) entity.Customer {
	email, _ := c.Locals(localEmail).(string)
	name, _ := c.Locals(localName).(string)
	return entity.Customer{UserID: userIDFrom(c), Email: email, Name: name}
}
