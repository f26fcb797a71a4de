package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToCamelCase turns module identifiers like "content_blocks" or
// "content-blocks" into "ContentBlocks". Only the first rune of every part is
// changed, the rest is kept as given, so "ContentBlocks" maps to itself.
func ToCamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var builder strings.Builder
	for _, part := range parts {
		r, size := utf8.DecodeRuneInString(part)
		builder.WriteRune(unicode.ToUpper(r))
		builder.WriteString(part[size:])
	}

	return builder.String()
}
