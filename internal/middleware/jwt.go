package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/walletshare/walletshare/internal/account"
	"github.com/walletshare/walletshare/internal/auth"
	"github.com/walletshare/walletshare/internal/config"
)

// JWTAuth validates bearer access tokens, checks the token version against
// the directory, and stashes the account id in request locals.
func JWTAuth(cfg config.Config, directory account.Directory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseAndVerifyHS256(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		sub, _ := claims["sub"].(string)
		verFloat, _ := claims["ver"].(float64)
		ver := int(verFloat)

		acct, err := directory.FindByID(c.UserContext(), sub)
		if err != nil || acct.TokenVersion != ver {
			return fiber.NewError(http.StatusUnauthorized, "token invalidated")
		}

		c.Locals("account_id", sub)
		c.Locals("token_version", ver)
		return c.Next()
	}
}
