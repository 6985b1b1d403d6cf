package query

import (
	"errors"
	"strings"
)

var ErrUnsafeQuery = errors.New("unsafe query detected")

// unsafeKeywords are matched as plain substrings of the uppercased text, so
// they also hit inside string literals and identifiers such as ALTERNATE.
// This is a coarse filter, not a security boundary.
var unsafeKeywords = []string{"DROP", "ALTER"}

var readPrefixes = []string{"SELECT", "PRAGMA"}

func CheckQuery(q string) error {
	upper := strings.ToUpper(q)
	for _, kw := range unsafeKeywords {
		if strings.Contains(upper, kw) {
			return ErrUnsafeQuery
		}
	}
	return nil
}

// IsReadStatement reports whether q returns rows to fetch rather than
// changes to commit.
func IsReadStatement(q string) bool {
	upper := strings.ToUpper(strings.TrimSpace(q))
	for _, p := range readPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}
