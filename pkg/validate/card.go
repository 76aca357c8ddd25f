package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

// IsCard reports whether s is a non-empty Luhn-valid card number. goluhn
// accepts the empty string, which is never a usable card.
func IsCard(s string) bool {
	if s == "" {
		return false
	}
	return goluhn.Validate(s) == nil
}
