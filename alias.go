package wikiredirect

import "strings"

// Titles starting with any of these are meta pages, not articles.
var metaPrefixes = []string{
	"Wikipedia:",
	"Template:",
	"Portal:",
	"List of ",
}

// IsValidAlias reports whether a redirect from source to target is a
// content redirect worth keeping.
//
// Only the source title is inspected.
func IsValidAlias(source, target string) bool {
	for _, p := range metaPrefixes {
		if strings.HasPrefix(source, p) {
			return false
		}
	}
	return true
}
