package parser

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dwillcox/publisher/internal/content"
	"github.com/dwillcox/publisher/internal/location"
)

// blockState accumulates the raw text of one block, either free prose or the
// body of a declaration. The document parser replaces it with a fresh value
// at every flush, so accumulated content never leaks across blocks.
type blockState struct {
	inDeclaration bool
	openLine      int // line of the opening fence, for unterminated-block errors
	startLine     int // first accumulated line, for classification errors
	text          strings.Builder
}

func newBlockState() *blockState {
	return &blockState{}
}

// append adds one source line verbatim, restoring the newline the scanner
// stripped.
func (b *blockState) append(line string, lineNo int) {
	if b.startLine == 0 {
		b.startLine = lineNo
	}
	b.text.WriteString(line)
	b.text.WriteByte('\n')
}

func (b *blockState) raw() string {
	return b.text.String()
}

// blank reports whether nothing worth flushing accumulated.
func (b *blockState) blank() bool {
	return strings.TrimSpace(b.text.String()) == ""
}

// classify decides what the accumulated text declares. Text that does not
// parse as structured data, or parses to a plain scalar, is prose. A mapping
// with a string "class" key declares that class; any other mapping or a
// sequence is a generic Yaml bag.
func (b *blockState) classify() string {
	var v any
	if err := yaml.Unmarshal([]byte(b.raw()), &v); err != nil {
		return "Text"
	}
	switch m := v.(type) {
	case map[string]any:
		if class, ok := m["class"].(string); ok {
			return class
		}
		return "Yaml"
	case []any:
		return "Yaml"
	default:
		return "Text"
	}
}

// build constructs the content object for the classified label. For Text the
// raw accumulated string is the sole content argument. For every other label
// the text is parsed as structured data: an explicit "args" list and "kwargs"
// mapping are honored, every remaining top-level key becomes an implicit
// keyword argument (explicit kwargs win per key), and the location is
// supplied by the parser over anything declared.
func (b *blockState) build(label string, loc location.Location) (content.Content, error) {
	if label == "Text" {
		return content.Construct("Text", content.Args{
			Positional: []any{b.raw()},
			Location:   loc,
		})
	}

	root, err := documentRoot(b.raw())
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	args := content.Args{Location: loc}
	switch {
	case root == nil:
		// Empty document; nothing to pass.
	case root.Kind == yaml.SequenceNode:
		if err := root.Decode(&args.Positional); err != nil {
			return nil, &ParseError{Err: err}
		}
	case root.Kind == yaml.MappingNode:
		implicit, explicit, positional, err := splitMapping(root)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		args.Positional = positional
		args.Keywords = mergeKeywords(implicit, explicit)
	}

	return content.Construct(label, args)
}

// documentRoot parses raw as YAML and returns the document's root node, or
// nil for an empty document.
func documentRoot(raw string) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return doc.Content[0], nil
}

// splitMapping walks a top-level mapping in document order, separating the
// reserved "args"/"kwargs" keys from the implicit per-key keyword arguments.
// The reserved "class" key is dispatch metadata and dropped here.
func splitMapping(root *yaml.Node) (implicit, explicit []content.Keyword, positional []any, err error) {
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		switch keyNode.Value {
		case "class":
			continue
		case "args":
			if err := valNode.Decode(&positional); err != nil {
				return nil, nil, nil, err
			}
		case "kwargs":
			pairs, err := mappingPairs(valNode)
			if err != nil {
				return nil, nil, nil, err
			}
			explicit = append(explicit, pairs...)
		default:
			var v any
			if err := valNode.Decode(&v); err != nil {
				return nil, nil, nil, err
			}
			implicit = append(implicit, content.Keyword{Key: keyNode.Value, Value: v})
		}
	}
	return implicit, explicit, positional, nil
}

// mappingPairs decodes a mapping node into ordered key/value pairs.
func mappingPairs(n *yaml.Node) ([]content.Keyword, error) {
	if n.Kind != yaml.MappingNode {
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return nil, &yaml.TypeError{Errors: []string{"kwargs must be a mapping"}}
	}
	var pairs []content.Keyword
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v any
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, err
		}
		pairs = append(pairs, content.Keyword{Key: n.Content[i].Value, Value: v})
	}
	return pairs, nil
}

// mergeKeywords overlays explicit kwargs onto the implicit per-key arguments:
// an explicit value replaces the implicit one in place, new keys append.
func mergeKeywords(implicit, explicit []content.Keyword) []content.Keyword {
	out := make([]content.Keyword, len(implicit))
	copy(out, implicit)
	for _, e := range explicit {
		replaced := false
		for i := range out {
			if out[i].Key == e.Key {
				out[i].Value = e.Value
				replaced = true
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return out
}
