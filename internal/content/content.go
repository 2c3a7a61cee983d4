package content

import (
	"fmt"

	"github.com/dwillcox/publisher/internal/render"
)

// Content is a terminal node of the published tree: Text, Figure, or Yaml.
type Content interface {
	render.Renderable

	// Class returns the content type name used in the render contract.
	Class() string
}

// ValidationError reports a content object that violates its own invariants:
// a required field is missing or a supplied value is not usable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid content: " + e.Reason
}

// UnknownClassError reports a declared class name outside the factory's
// allow-list.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown content class %q", e.Class)
}
