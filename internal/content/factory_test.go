package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dwillcox/publisher/internal/location"
	"github.com/dwillcox/publisher/internal/render"
)

// fixtureLocation creates a scene file plus an image next to it and returns
// the scene's Location.
func fixtureLocation(t *testing.T) location.Location {
	t.Helper()
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.md")
	for _, p := range []string{scene, filepath.Join(dir, "img.png")} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	loc, err := location.Resolve(scene)
	if err != nil {
		t.Fatalf("resolve fixture: %v", err)
	}
	return loc
}

func TestConstruct_UnknownClass(t *testing.T) {
	_, err := Construct("Table", Args{})
	var unknown *UnknownClassError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownClassError, got %v", err)
	}
	if unknown.Class != "Table" {
		t.Errorf("expected class %q, got %q", "Table", unknown.Class)
	}
}

func TestConstruct_Text(t *testing.T) {
	c, err := Construct("Text", Args{Positional: []any{"hello\n"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, ok := c.(*Text)
	if !ok {
		t.Fatalf("expected *Text, got %T", c)
	}
	if text.Raw != "hello\n" {
		t.Errorf("expected raw %q, got %q", "hello\n", text.Raw)
	}
}

func TestConstruct_Figure(t *testing.T) {
	loc := fixtureLocation(t)
	c, err := Construct("Figure", Args{
		Keywords: []Keyword{
			{Key: "class", Value: "Figure"}, // stripped before construction
			{Key: "source", Value: "img.png"},
			{Key: "title", Value: "T"},
		},
		Location: loc,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fig, ok := c.(*Figure)
	if !ok {
		t.Fatalf("expected *Figure, got %T", c)
	}
	if fig.Title != "T" {
		t.Errorf("expected title %q, got %q", "T", fig.Title)
	}
	if fig.Caption != "" {
		t.Errorf("expected empty caption, got %q", fig.Caption)
	}
	if fig.SourceAbsPath == "" || fig.SourceRelPath == "" {
		t.Errorf("expected resolved paths, got rel=%q abs=%q", fig.SourceRelPath, fig.SourceAbsPath)
	}
}

func TestConstruct_FigureEmptySource(t *testing.T) {
	_, err := Construct("Figure", Args{
		Keywords: []Keyword{{Key: "source", Value: ""}},
		Location: fixtureLocation(t),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestConstruct_FigureMissingImage(t *testing.T) {
	_, err := Construct("Figure", Args{
		Keywords: []Keyword{{Key: "source", Value: "missing.png"}},
		Location: fixtureLocation(t),
	})
	var pathErr *location.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected *location.PathError, got %v", err)
	}
}

func TestConstruct_FigureUnknownField(t *testing.T) {
	_, err := Construct("Figure", Args{
		Keywords: []Keyword{
			{Key: "source", Value: "img.png"},
			{Key: "border", Value: "thick"},
		},
		Location: fixtureLocation(t),
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError for unknown field, got %v", err)
	}
}

func TestConstruct_YamlBag(t *testing.T) {
	c, err := Construct("Yaml", Args{
		Positional: []any{"a", "b"},
		Keywords: []Keyword{
			{Key: "title", Value: "Publications"},
			{Key: "location", Value: "/somewhere"}, // never surfaced
			{Key: "title", Value: "Overwritten"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	y, ok := c.(*Yaml)
	if !ok {
		t.Fatalf("expected *Yaml, got %T", c)
	}
	if got := y.AttributeKeys(); len(got) != 1 || got[0] != "title" {
		t.Errorf("expected single title key, got %v", got)
	}
	if v, _ := y.Attribute("title"); v != "Overwritten" {
		t.Errorf("expected last write to win, got %v", v)
	}
	if len(y.Entries()) != 2 {
		t.Errorf("expected 2 entries, got %d", len(y.Entries()))
	}

	node, err := y.RenderDict(render.TargetDefault, "SerialSet")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, ok := node.Attributes["location"]; ok {
		t.Error("location key must not surface as an attribute")
	}
	if len(node.Entries) != 2 {
		t.Errorf("expected 2 rendered entries, got %d", len(node.Entries))
	}
}
