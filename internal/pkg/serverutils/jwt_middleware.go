package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CallerIdKey is the fiber.Ctx Locals key holding the authenticated
// caller's identity-provider subject.
const CallerIdKey = "caller_id"

// JwtMiddleware verifies bearer tokens issued by the identity provider and
// threads the subject into the request locals. Core logic never reads
// identity ambiently; controllers pass it down explicitly.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return NewAuthError("Not authenticated")
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return NewAuthError("Not authenticated")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return NewAuthError("Not authenticated")
		}
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			return NewAuthError("Not authenticated")
		}

		ctx.Locals(CallerIdKey, sub)
		return ctx.Next()
	}
}
