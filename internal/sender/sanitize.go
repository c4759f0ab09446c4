package sender

import "regexp"

// The protocol is whitespace-delimited, so names and values must not reach
// the wire with raw spaces. Parentheses map to double underscores and the
// comma separating parameters maps to a dash, so method-style names such as
// "invoked(param1, param2)" stay readable as "invoked__param1-param2__".
// Separators are deliberately not collapsed.
var (
	parenPattern      = regexp.MustCompile(`[()]`)
	paramSplitPattern = regexp.MustCompile(`,\s*`)
	invalidPattern    = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
	whitespacePattern = regexp.MustCompile(`\s`)
)

// SanitizeName rewrites a metric name into the protocol-safe alphabet.
func SanitizeName(name string) string {
	s := parenPattern.ReplaceAllString(name, "__")
	s = paramSplitPattern.ReplaceAllString(s, "-")
	return invalidPattern.ReplaceAllString(s, ".")
}

// SanitizeValue replaces every whitespace character in a formatted value
// with a dot.
func SanitizeValue(value string) string {
	return whitespacePattern.ReplaceAllString(value, ".")
}
