// Package similarity строит отпечаток товара для поиска почти-дубликатов
// между разными источниками и листингами.
package similarity

import (
	"crypto/sha1" //nolint:gosec // отпечаток, не криптография
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

const separator = "|"

// Normalize приводит поле к виду, устойчивому к регистру и пунктуации.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Key - sha1 (40 hex) от "title|brand|model". Порядок полей важен.
func Key(title, brand, model string) string {
	base := Normalize(title) + separator + Normalize(brand) + separator + Normalize(model)
	sum := sha1.Sum([]byte(base)) //nolint:gosec

	return hex.EncodeToString(sum[:])
}
