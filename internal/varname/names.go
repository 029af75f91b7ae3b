package varname

import (
	"regexp"
	"strings"
)

var (
	namePrefix   = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*`)
	proxyPattern = regexp.MustCompile(`^\{\{.+\}\}$`)
)

// Valid reports whether name starts with an identifier ([A-Za-z_][A-Za-z_0-9]*).
// Only the start is checked, so "FOO-BAR" is accepted and "1FOO" is not.
func Valid(name string) bool {
	return namePrefix.MatchString(name)
}

// ProxyTarget returns the variable referenced by a proxy value.
// Examples:
//   - "{{DATABASE_URL}}" → "DATABASE_URL", true
//   - "DATABASE_URL" → "", false
//   - "{{}}" → "", false
func ProxyTarget(value string) (string, bool) {
	if !proxyPattern.MatchString(value) {
		return "", false
	}
	return strings.Trim(value, "{}"), true
}

// StripPrefix removes prefix from key, reporting whether key carried it.
// When caseSensitive is false the prefix matches regardless of case.
// Examples:
//   - StripPrefix("APP_PORT", "APP_", true) → "PORT", true
//   - StripPrefix("app_PORT", "APP_", false) → "PORT", true
//   - StripPrefix("PORT", "APP_", false) → "PORT", false
func StripPrefix(key, prefix string, caseSensitive bool) (string, bool) {
	if prefix == "" {
		return key, true
	}
	if len(key) < len(prefix) {
		return key, false
	}
	head := key[:len(prefix)]
	if caseSensitive && head != prefix {
		return key, false
	}
	if !caseSensitive && !strings.EqualFold(head, prefix) {
		return key, false
	}
	return key[len(prefix):], true
}
