package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dwillcox/publisher/internal/config"
	"github.com/dwillcox/publisher/internal/render"
	"github.com/dwillcox/publisher/internal/scene"
)

// Builder runs one full publish: read configuration, load the sequence,
// parse every scene, and render each template into the output directory.
// Every build is a complete re-derivation from source; nothing is cached
// between runs.
type Builder struct {
	SourceDir    string // configuration files and *.j2 templates
	ContentDir   string // sequence spec and scene sources
	OutputDir    string // rendered pages land here
	SequenceFile string // sequence spec filename inside ContentDir; defaults to webpage.yaml
	Target       render.Target
	ExportJSON   bool // additionally write the render payload as sequence.json

	Log *slog.Logger
}

// Result describes one completed build.
type Result struct {
	Config   config.Site
	Sequence *scene.Sequence
	Data     map[string]any // the rendered sequence payload
	Pages    []string       // written page paths, in template order
	JSONPath string         // empty unless ExportJSON was set
}

// Build executes the publish pipeline.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	log := b.Log
	if log == nil {
		log = slog.Default()
	}
	if !b.Target.Valid() {
		return nil, fmt.Errorf("unrecognized render target %q", b.Target)
	}
	seqFile := b.SequenceFile
	if seqFile == "" {
		seqFile = "webpage.yaml"
	}
	if err := os.MkdirAll(b.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", b.OutputDir, err)
	}

	cfg, err := config.ReadDir(b.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(cfg) == 0 {
		log.Warn("no configuration found; template settings may go unmatched", "dir", b.SourceDir)
	}

	seq, err := scene.FromPath(ctx, filepath.Join(b.ContentDir, seqFile))
	if err != nil {
		return nil, err
	}
	log.Info("sequence loaded", "title", seq.Title, "scenes", len(seq.Scenes))

	data, err := seq.RenderDict(b.Target)
	if err != nil {
		return nil, err
	}

	templates, err := filepath.Glob(filepath.Join(b.SourceDir, "*.j2"))
	if err != nil {
		return nil, fmt.Errorf("glob templates in %s: %w", b.SourceDir, err)
	}
	sort.Strings(templates)
	if len(templates) == 0 {
		log.Warn("no templates found", "dir", b.SourceDir)
	}

	result := &Result{Config: cfg, Sequence: seq, Data: data}
	for _, tpl := range templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := render.NewWebpage().
			UsingTemplate(tpl).
			UsingConfig(cfg).
			UsingContent(data).
			RenderHTML(b.OutputDir)
		if err != nil {
			return nil, err
		}
		log.Info("page rendered", "template", filepath.Base(tpl), "page", page)
		result.Pages = append(result.Pages, page)
	}

	if b.ExportJSON {
		jsonPath := filepath.Join(b.OutputDir, "sequence.json")
		if err := render.WriteJSON(data, jsonPath); err != nil {
			return nil, err
		}
		log.Info("render payload exported", "path", jsonPath)
		result.JSONPath = jsonPath
	}

	return result, nil
}
