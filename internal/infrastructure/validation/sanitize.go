package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity encoding Text unwraps
const maxPasses = 8

// Sanitizer strips every tag from user supplied text
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer that allows no markup at all
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text returns value as trimmed plain text. Entities are decoded before
// each pass so encoded markup is stripped too; the result is a fixed point
// of the policy and is returned unescaped since templates escape on output.
func (s *Sanitizer) Text(value string) string {
	current := value
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(s.policy.Sanitize(html.UnescapeString(current)))
		if next == current {
			return strings.TrimSpace(next)
		}
		current = next
	}
	// never settled; keep the policy's escaped form
	return strings.TrimSpace(s.policy.Sanitize(current))
}
