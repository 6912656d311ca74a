// CLAUDE:SUMMARY Validates custom element tag names against the platform naming rule.
package shim

import (
	"fmt"
	"strings"
)

// reservedNames are hyphenated names the HTML spec carves out for SVG/MathML
// compatibility; customElements.define rejects them.
var reservedNames = map[string]struct{}{
	"annotation-xml":   {},
	"color-profile":    {},
	"font-face":        {},
	"font-face-src":    {},
	"font-face-uri":    {},
	"font-face-format": {},
	"font-face-name":   {},
	"missing-glyph":    {},
}

// Validate checks a tag against the custom element naming rule: starts with
// a lowercase ASCII letter, contains at least one hyphen, contains no
// uppercase ASCII, and is not a reserved name. This is a practical subset of
// the full PotentialCustomElementName grammar: names that pass here and use
// ASCII letters, digits, '-', '_' and '.' are accepted by every browser.
func Validate(tag string) error {
	if tag == "" {
		return fmt.Errorf("shim: empty tag: %w", ErrInvalidTagName)
	}
	if tag[0] < 'a' || tag[0] > 'z' {
		return fmt.Errorf("shim: tag %q must start with a lowercase letter: %w", tag, ErrInvalidTagName)
	}
	if !strings.Contains(tag, "-") {
		return fmt.Errorf("shim: tag %q must contain a hyphen: %w", tag, ErrInvalidTagName)
	}
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		case c >= 'A' && c <= 'Z':
			return fmt.Errorf("shim: tag %q contains uppercase: %w", tag, ErrInvalidTagName)
		default:
			return fmt.Errorf("shim: tag %q contains invalid byte %q: %w", tag, c, ErrInvalidTagName)
		}
	}
	if _, reserved := reservedNames[tag]; reserved {
		return fmt.Errorf("shim: tag %q is reserved: %w", tag, ErrInvalidTagName)
	}
	return nil
}
