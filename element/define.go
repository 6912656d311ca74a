package element

import (
	"fmt"
	"log/slog"
)

// Define registers factory's component type with the platform element
// registry under tag. factory is invoked once per new element instance the
// browser creates; the static capability set (observed attributes, shadow
// flag, superclass tag, styles, debounce window) is read once, at define
// time, from a probe instance.
//
// Registration is process-wide and irreversible for the page's lifetime. A
// second Define for the same tag fails with ErrDuplicateRegistration; a tag
// violating the custom element naming rule fails with ErrInvalidTagName.
func Define(tag string, factory func() CustomElement) error {
	def := newDefinition(tag, factory, slog.Default())
	if err := platformDefine(def); err != nil {
		return fmt.Errorf("element: define %q: %w", tag, err)
	}
	def.logger.Debug("element: defined",
		"tag", tag, "shadow", def.shadow, "extends", def.extends,
		"observed", def.observed)
	return nil
}
