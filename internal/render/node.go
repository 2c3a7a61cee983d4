package render

// Target selects the output representation for prose content.
type Target string

const (
	// TargetDefault leaves prose untouched.
	TargetDefault Target = ""
	// TargetMarkdown emits raw markdown prose.
	TargetMarkdown Target = "markdown"
	// TargetHTML runs prose through the markdown formatter.
	TargetHTML Target = "html"
)

// Valid reports whether t is a target the content types understand.
func (t Target) Valid() bool {
	switch t {
	case TargetDefault, TargetMarkdown, TargetHTML:
		return true
	}
	return false
}

// Node is the render contract consumed by the template layer.
//
// Context carries the concrete type name of the node's immediate parent,
// Class the node's own type name. Entries holds child Nodes for container
// types and raw values for Yaml bags; leaf content otherwise renders with
// no entries.
type Node struct {
	Context    string         `json:"context"`
	Class      string         `json:"class"`
	Attributes map[string]any `json:"attributes"`
	Entries    []any          `json:"entries"`
}

// Renderable is implemented by everything that can appear in the content
// tree: the Dataset containers and the leaf content types.
type Renderable interface {
	RenderDict(target Target, context string) (Node, error)
}

// Map flattens the node into plain maps and slices so template engines and
// JSON encoders see the same shape regardless of nesting.
func (n Node) Map() map[string]any {
	entries := make([]any, 0, len(n.Entries))
	for _, e := range n.Entries {
		if child, ok := e.(Node); ok {
			entries = append(entries, child.Map())
			continue
		}
		entries = append(entries, e)
	}
	attrs := make(map[string]any, len(n.Attributes))
	for k, v := range n.Attributes {
		attrs[k] = v
	}
	return map[string]any{
		"context":    n.Context,
		"class":      n.Class,
		"attributes": attrs,
		"entries":    entries,
	}
}
