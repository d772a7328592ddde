package middleware

import (
	"sheettochain-backend/internal/pkg/response"
	"sheettochain-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

const walletHeader = "X-Wallet-Account"
const walletLocal = "wallet"

// Wallet reads the connected wallet account from the request header into
// Locals. Pairing and signing happen in the browser extension; the backend
// only ever sees the resulting account ID string.
func Wallet() fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := c.Get(walletHeader)
		if account != "" && validation.IsValidAccountID(account) {
			c.Locals(walletLocal, account)
		}
		return c.Next()
	}
}

// RequireWallet ensures a valid wallet account header is present. Returns 401
// with the standard error format if not.
func RequireWallet() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetWallet(c) == "" {
			return response.Unauthorized(c, "Wallet not connected")
		}
		return c.Next()
	}
}

// GetWallet returns the wallet account ID from Locals ("" if absent).
func GetWallet(c *fiber.Ctx) string {
	if acc, ok := c.Locals(walletLocal).(string); ok {
		return acc
	}
	return ""
}
