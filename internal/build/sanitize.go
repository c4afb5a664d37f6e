package build

import "strings"

var sanitizeReplacer = strings.NewReplacer(
	"\n", " ",
	"\r", " ",
	"\t", " ",
	"\b", " ",
	"\f", " ",
)

// Sanitize replaces control characters (\n \r \t \b \f) with single spaces
// so stored documentation text is safe to embed in JSON output without
// altering search behaviour (spec §4.3).
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return sanitizeReplacer.Replace(s)
}
