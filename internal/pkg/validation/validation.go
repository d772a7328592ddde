package validation

import (
	"math"
	"regexp"
	"strings"
)

// Hedera account IDs are shard.realm.num, e.g. 0.0.6990992.
var accountIDRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func IsValidAccountID(accountID string) bool {
	return accountIDRe.MatchString(accountID)
}

// IsValidPrice accepts non-negative finite prices.
func IsValidPrice(price float64) bool {
	return price >= 0 && !math.IsNaN(price) && !math.IsInf(price, 0)
}

// ValidateNewListing enforces the seller-facing rules the ledger itself does
// not: non-empty name, description and categories, a sane price, and a
// non-negative row count. Returns "" when valid, else the message to surface.
func ValidateNewListing(name, description string, price float64, rows int, categories []string) string {
	if strings.TrimSpace(name) == "" {
		return "Missing required field: name"
	}
	if strings.TrimSpace(description) == "" {
		return "Missing required field: description"
	}
	if !IsValidPrice(price) {
		return "Invalid price"
	}
	if rows < 0 {
		return "Invalid row count"
	}
	if len(categories) == 0 {
		return "At least one category is required"
	}
	for _, cat := range categories {
		if strings.TrimSpace(cat) == "" {
			return "Categories must not be empty"
		}
	}
	return ""
}
