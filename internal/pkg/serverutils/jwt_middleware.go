package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// StoreIDKey is the fiber Locals key holding the store the caller acts for.
const StoreIDKey = "store_id"

// NewJwtMiddleware accepts HS256 bearer tokens signed with secret and carrying
// a store_id claim.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}
		storeId, ok := claims["store_id"].(string)
		if !ok || storeId == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Token has no store"})
		}

		ctx.Locals(StoreIDKey, storeId)
		return ctx.Next()
	}
}

// StoreID returns the store set by the JWT middleware.
func StoreID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(StoreIDKey).(string)
	return id
}

// SignStoreToken issues a token accepted by NewJwtMiddleware.
func SignStoreToken(secret, storeId string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"store_id": storeId})
	return token.SignedString([]byte(secret))
}
