package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// templateExtension marks template files; the rendered page replaces it
// with .html.
const templateExtension = ".j2"

// Webpage renders one template against site configuration and sequence
// content. Setters return the receiver so a page can be assembled fluently.
type Webpage struct {
	template string
	config   map[string]any
	content  map[string]any
}

// NewWebpage returns an empty page.
func NewWebpage() *Webpage {
	return &Webpage{config: map[string]any{}, content: map[string]any{}}
}

// UsingTemplate sets the template file the page renders.
func (w *Webpage) UsingTemplate(path string) *Webpage {
	w.template = path
	return w
}

// UsingConfig sets the site configuration merged into the template context.
func (w *Webpage) UsingConfig(cfg map[string]any) *Webpage {
	if cfg != nil {
		w.config = cfg
	}
	return w
}

// UsingContent sets the rendered sequence payload.
func (w *Webpage) UsingContent(data map[string]any) *Webpage {
	if data != nil {
		w.content = data
	}
	return w
}

// RenderHTML renders the template and writes the page into outDir, named
// after the template with its extension replaced by .html. It refuses to
// render when content keys shadow configuration keys, since the collision
// would silently drop one side of the template context.
func (w *Webpage) RenderHTML(outDir string) (string, error) {
	if w.template == "" {
		return "", fmt.Errorf("no template specified")
	}

	if common := commonKeys(w.config, w.content); len(common) > 0 {
		return "", fmt.Errorf("content shadows configuration keys: %s", strings.Join(common, ", "))
	}

	tpl, err := pongo2.FromFile(w.template)
	if err != nil {
		return "", fmt.Errorf("load template %s: %w", w.template, err)
	}

	data := make(pongo2.Context, len(w.config)+len(w.content))
	for k, v := range w.config {
		data[k] = v
	}
	for k, v := range w.content {
		data[k] = v
	}

	html, err := tpl.Execute(data)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", w.template, err)
	}

	base := filepath.Base(w.template)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(outDir, stem+".html")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("write page %s: %w", out, err)
	}
	return out, nil
}

// IsTemplate reports whether path names a template file.
func IsTemplate(path string) bool {
	return strings.EqualFold(filepath.Ext(path), templateExtension)
}

func commonKeys(a, b map[string]any) []string {
	var common []string
	for k := range a {
		if _, ok := b[k]; ok {
			common = append(common, k)
		}
	}
	sort.Strings(common)
	return common
}
