package content

import (
	"github.com/dwillcox/publisher/internal/location"
	"github.com/dwillcox/publisher/internal/render"
)

// Yaml is a generic bag of declared data: an ordered list of entries plus a
// keyed attribute map. The document parser merges a Yaml block's attributes
// into the surrounding group rather than keeping the bag as an entry, so a
// Yaml leaf inside a finished tree normally carries attributes only.
type Yaml struct {
	Loc location.Location

	keys    []string
	attrs   map[string]any
	entries []any
}

// NewYaml returns an empty bag.
func NewYaml(loc location.Location) *Yaml {
	return &Yaml{Loc: loc, attrs: make(map[string]any)}
}

func (y *Yaml) Class() string { return "Yaml" }

// ArchiveAttribute stores an attribute, overwriting on key collision while
// keeping the key's original position. The reserved "location" key is never
// surfaced as an attribute.
func (y *Yaml) ArchiveAttribute(key string, value any) {
	if key == "location" {
		return
	}
	if _, ok := y.attrs[key]; !ok {
		y.keys = append(y.keys, key)
	}
	y.attrs[key] = value
}

// ArchiveEntry appends one structured value to the entry list.
func (y *Yaml) ArchiveEntry(value any) {
	y.entries = append(y.entries, value)
}

// AttributeKeys returns the attribute keys in insertion order.
func (y *Yaml) AttributeKeys() []string {
	keys := make([]string, len(y.keys))
	copy(keys, y.keys)
	return keys
}

// Attribute returns the value stored under key.
func (y *Yaml) Attribute(key string) (any, bool) {
	v, ok := y.attrs[key]
	return v, ok
}

// Entries returns the ordered entry list.
func (y *Yaml) Entries() []any {
	entries := make([]any, len(y.entries))
	copy(entries, y.entries)
	return entries
}

func (y *Yaml) HasEntries() bool    { return len(y.entries) > 0 }
func (y *Yaml) HasAttributes() bool { return len(y.attrs) > 0 }

func (y *Yaml) RenderDict(target render.Target, context string) (render.Node, error) {
	if !target.Valid() {
		return render.Node{}, &ValidationError{Reason: "unrecognized render target " + string(target)}
	}
	attrs := make(map[string]any, len(y.attrs))
	for k, v := range y.attrs {
		attrs[k] = v
	}
	return render.Node{
		Context:    context,
		Class:      y.Class(),
		Attributes: attrs,
		Entries:    y.Entries(),
	}, nil
}
