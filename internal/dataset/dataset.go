package dataset

import (
	"github.com/dwillcox/publisher/internal/render"
)

// Dataset is the shared base of SerialSet and ParallelSet: an ordered entry
// list plus a keyed attribute map. Attribute keys are unique with
// last-write-wins values; a key keeps the position of its first write.
type Dataset struct {
	attrKeys []string
	attrs    map[string]any
	entries  []render.Renderable
}

// ArchiveEntry appends one entry to the ordered list.
func (d *Dataset) ArchiveEntry(entry render.Renderable) {
	d.entries = append(d.entries, entry)
}

// ArchiveAttribute stores an attribute, overwriting on key collision.
func (d *Dataset) ArchiveAttribute(key string, value any) {
	if d.attrs == nil {
		d.attrs = make(map[string]any)
	}
	if _, ok := d.attrs[key]; !ok {
		d.attrKeys = append(d.attrKeys, key)
	}
	d.attrs[key] = value
}

// UnpackAndArchive splices other's content directly into d without an extra
// nesting level: attributes merge with overwrite, entries append in order.
func (d *Dataset) UnpackAndArchive(other *Dataset) {
	for _, k := range other.attrKeys {
		d.ArchiveAttribute(k, other.attrs[k])
	}
	d.entries = append(d.entries, other.entries...)
}

// Attribute returns the value stored under key.
func (d *Dataset) Attribute(key string) (any, bool) {
	v, ok := d.attrs[key]
	return v, ok
}

// AttributeKeys returns the attribute keys in insertion order.
func (d *Dataset) AttributeKeys() []string {
	keys := make([]string, len(d.attrKeys))
	copy(keys, d.attrKeys)
	return keys
}

// Entries returns the ordered entry list.
func (d *Dataset) Entries() []render.Renderable {
	entries := make([]render.Renderable, len(d.entries))
	copy(entries, d.entries)
	return entries
}

func (d *Dataset) HasEntries() bool    { return len(d.entries) > 0 }
func (d *Dataset) HasAttributes() bool { return len(d.attrs) > 0 }

// HasContent reports whether the set holds anything at all.
func (d *Dataset) HasContent() bool {
	return d.HasEntries() || d.HasAttributes()
}

// renderDict renders the set under its concrete class name. Each child is
// tagged with that class name as its context.
func (d *Dataset) renderDict(class string, target render.Target, context string) (render.Node, error) {
	attrs := make(map[string]any, len(d.attrs))
	for k, v := range d.attrs {
		attrs[k] = v
	}
	entries := make([]any, 0, len(d.entries))
	for _, e := range d.entries {
		child, err := e.RenderDict(target, class)
		if err != nil {
			return render.Node{}, err
		}
		entries = append(entries, child)
	}
	return render.Node{
		Context:    context,
		Class:      class,
		Attributes: attrs,
		Entries:    entries,
	}, nil
}

// SerialSet is a sequential, time-ordered composition: sections of a scene,
// paragraphs under a heading.
type SerialSet struct {
	Dataset
}

// NewSerialSet returns an empty serial group.
func NewSerialSet() *SerialSet { return &SerialSet{} }

func (s *SerialSet) Class() string { return "SerialSet" }

func (s *SerialSet) RenderDict(target render.Target, context string) (render.Node, error) {
	return s.renderDict(s.Class(), target, context)
}

// ParallelSet is a concurrently-presented composition: panels or columns
// grouped under one heading run, opened by a heading and closed by a divider.
type ParallelSet struct {
	Dataset
}

// NewParallelSet returns an empty parallel group.
func NewParallelSet() *ParallelSet { return &ParallelSet{} }

func (p *ParallelSet) Class() string { return "ParallelSet" }

func (p *ParallelSet) RenderDict(target render.Target, context string) (render.Node, error) {
	return p.renderDict(p.Class(), target, context)
}
