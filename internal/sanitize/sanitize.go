// Package sanitize cleans user-supplied text before it is stored. Display
// names end up in page headers and forum posts, so every tag and attribute is
// stripped with bluemonday's strict policy.
package sanitize

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from input, unescapes the entities bluemonday leaves
// behind, drops control characters and collapses runs of whitespace. The
// result is plain text; templates are still responsible for escaping it.
func Text(input string) string {
	if input == "" {
		return ""
	}

	stripped := html.UnescapeString(getPolicy().Sanitize(input))

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, stripped)

	return strings.Join(strings.Fields(cleaned), " ")
}
