package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dwillcox/publisher/internal/render"
)

// fixtureSite lays out a minimal site: source/ with config and a template,
// content/ with a sequence spec and one scene.
func fixtureSite(t *testing.T) (source, content, output string) {
	t.Helper()
	root := t.TempDir()
	source = filepath.Join(root, "source")
	content = filepath.Join(root, "content")
	output = filepath.Join(root, "public")

	files := map[string]string{
		"source/site.yaml":      "site_name: Fixture Site\n",
		"source/index.j2":       "<html><body><h1>{{ title }}</h1><p>{{ site_name }}</p></body></html>\n",
		"content/webpage.yaml":  "author: A\ntitle: Fixture\nsequence:\n  - glance: only\n    source: scenes/one.md\n",
		"content/scenes/one.md": "# Hello\nsome prose\n---\n",
	}
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return source, content, output
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestBuild(t *testing.T) {
	source, content, output := fixtureSite(t)
	b := &Builder{
		SourceDir:  source,
		ContentDir: content,
		OutputDir:  output,
		Target:     render.TargetHTML,
		ExportJSON: true,
		Log:        quietLogger(),
	}

	result, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(result.Pages))
	}

	page, err := os.ReadFile(result.Pages[0])
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(page), "<h1>Fixture</h1>") {
		t.Errorf("expected sequence title in page, got %s", page)
	}
	if !strings.Contains(string(page), "Fixture Site") {
		t.Errorf("expected config value in page, got %s", page)
	}

	if result.JSONPath == "" {
		t.Fatal("expected JSON export")
	}
	blob, err := os.ReadFile(result.JSONPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(blob), `"class": "ParallelSet"`) {
		t.Errorf("expected rendered tree in export, got %s", blob)
	}
}

func TestBuild_InvalidTarget(t *testing.T) {
	source, content, output := fixtureSite(t)
	b := &Builder{
		SourceDir:  source,
		ContentDir: content,
		OutputDir:  output,
		Target:     render.Target("latex"),
		Log:        quietLogger(),
	}
	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected error for invalid target")
	}
}

func TestBuild_MissingSequenceSpec(t *testing.T) {
	source, _, output := fixtureSite(t)
	b := &Builder{
		SourceDir:  source,
		ContentDir: t.TempDir(),
		OutputDir:  output,
		Target:     render.TargetMarkdown,
		Log:        quietLogger(),
	}
	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected error for missing sequence spec")
	}
}
