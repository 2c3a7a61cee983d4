package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dwillcox/publisher/internal/location"
	"github.com/dwillcox/publisher/internal/render"
)

// markdown is the shared formatter for the html render target. It is
// stateless, so one instance serves every Text in the tree.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// Text holds a block of prose exactly as it appeared in the source file.
type Text struct {
	Raw string
	Loc location.Location
}

// NewText wraps raw prose. The string may be empty.
func NewText(raw string, loc location.Location) *Text {
	return &Text{Raw: raw, Loc: loc}
}

func (t *Text) Class() string { return "Text" }

// HTML converts the prose to HTML. Every newline is first turned into an
// explicit line break so that each blank-line separated block renders as its
// own paragraph while consecutive lines stay in one paragraph.
func (t *Text) HTML() (string, error) {
	pre := strings.Join(strings.Split(t.Raw, "\n"), "\n<br/>\n")
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(pre), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

// RenderDict renders the prose for the given target. Accepted targets are
// markdown, html, and the default (raw) target.
func (t *Text) RenderDict(target render.Target, context string) (render.Node, error) {
	var body string
	switch target {
	case render.TargetDefault, render.TargetMarkdown:
		body = t.Raw
	case render.TargetHTML:
		html, err := t.HTML()
		if err != nil {
			return render.Node{}, err
		}
		body = html
	default:
		return render.Node{}, &ValidationError{Reason: fmt.Sprintf("unrecognized render target %q", target)}
	}

	return render.Node{
		Context:    context,
		Class:      t.Class(),
		Attributes: map[string]any{"content": body},
	}, nil
}
