// Package strings provides string helpers shared by validation and request models.
package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a Go field name such as "ParentID" to "parent_id".
func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// TrimRequired trims each required string field in place.
func TrimRequired(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}

// TrimOptional trims each optional string field in place. A field left empty
// after trimming is cleared to nil so absent and blank are stored the same way.
func TrimOptional(ss ...**string) {
	for _, s := range ss {
		if *s == nil {
			continue
		}
		trimmed := strings.TrimSpace(**s)
		if trimmed == "" {
			*s = nil
			continue
		}
		*s = &trimmed
	}
}
