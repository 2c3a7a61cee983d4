package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const pageTemplate = `<html><head><title>{{ title }}</title></head>
<body>
{% for scene in sequence %}<section>{{ scene.glance }}</section>
{% endfor %}
<footer>{{ site_name }}</footer>
</body></html>
`

func TestWebpageRenderHTML(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "index.j2")
	if err := os.WriteFile(tplPath, []byte(pageTemplate), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	outDir := filepath.Join(dir, "out")
	out, err := NewWebpage().
		UsingTemplate(tplPath).
		UsingConfig(map[string]any{"site_name": "My Site"}).
		UsingContent(map[string]any{
			"title": "Home",
			"sequence": []any{
				map[string]any{"glance": "first"},
				map[string]any{"glance": "second"},
			},
		}).
		RenderHTML(outDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(out) != "index.html" {
		t.Errorf("expected index.html, got %q", out)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("output is not parseable HTML: %v", err)
	}

	sections := collectText(doc, "section")
	if len(sections) != 2 || sections[0] != "first" || sections[1] != "second" {
		t.Errorf("expected two rendered sections, got %v", sections)
	}
	if titles := collectText(doc, "title"); len(titles) != 1 || titles[0] != "Home" {
		t.Errorf("expected title from content, got %v", titles)
	}
	if footers := collectText(doc, "footer"); len(footers) != 1 || footers[0] != "My Site" {
		t.Errorf("expected footer from config, got %v", footers)
	}
}

func TestWebpageRenderHTML_KeyShadowing(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "index.j2")
	if err := os.WriteFile(tplPath, []byte(pageTemplate), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	_, err := NewWebpage().
		UsingTemplate(tplPath).
		UsingConfig(map[string]any{"title": "from config"}).
		UsingContent(map[string]any{"title": "from content"}).
		RenderHTML(dir)
	if err == nil {
		t.Fatal("expected error for shadowed keys")
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("error should name the shadowed key, got %v", err)
	}
}

func TestWebpageRenderHTML_NoTemplate(t *testing.T) {
	if _, err := NewWebpage().RenderHTML(t.TempDir()); err == nil {
		t.Fatal("expected error without a template")
	}
}

func TestIsTemplate(t *testing.T) {
	if !IsTemplate("source/index.j2") {
		t.Error("expected .j2 to be a template")
	}
	if IsTemplate("source/index.html") {
		t.Error(".html is not a template")
	}
}

// collectText walks an HTML document and returns the trimmed text content of
// every element with the given tag name.
func collectText(n *html.Node, tag string) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			var sb strings.Builder
			var text func(*html.Node)
			text = func(n *html.Node) {
				if n.Type == html.TextNode {
					sb.WriteString(n.Data)
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					text(c)
				}
			}
			text(n)
			out = append(out, strings.TrimSpace(sb.String()))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
