package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCaser is safe for concurrent use: String on a Caser resets its state.
var lowerCaser = cases.Lower(language.Und)

// ToSnakeCase converts an identifier to lower snake_case.
// An underscore is inserted before every uppercase letter except one in the
// first position, then the whole string is lowercased.
// Example: "createdAt" -> "created_at"
// Example: "UserProfile" -> "user_profile"
// Example: "userID" -> "user_i_d"
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s) + 4)
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}

	return lowerCaser.String(result.String())
}

// typeKeySeparators are the namespace separators recognized in type keys:
// Go import paths and selectors ("/" and "."), and PHP-style namespaces ("\").
const typeKeySeparators = `/.\`

// ShortName returns the trailing segment of a type key after its last
// namespace or path separator.
// Example: "github.com/acme/api/models.User" -> "User"
// Example: `Doc\Example\User` -> "User"
// A key without separators, or one that ends in a separator, is returned unchanged.
func ShortName(typeKey string) string {
	idx := strings.LastIndexAny(typeKey, typeKeySeparators)
	if idx < 0 || idx == len(typeKey)-1 {
		return typeKey
	}
	return typeKey[idx+1:]
}
