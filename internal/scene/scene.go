package scene

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dwillcox/publisher/internal/content"
	"github.com/dwillcox/publisher/internal/dataset"
	"github.com/dwillcox/publisher/internal/location"
	"github.com/dwillcox/publisher/internal/parser"
	"github.com/dwillcox/publisher/internal/render"
)

// parseWorkers bounds how many scene files are parsed at once. Scenes share
// no mutable state, so the only limit is open file handles.
const parseWorkers = 4

// Scene is the smallest complete composition frame: a section, a slide, or a
// page, depending on the publishing target. Its content is the parsed tree
// of its source file.
type Scene struct {
	Glance  string
	Source  string
	Content *dataset.SerialSet
	Loc     location.Location
}

// RenderDict returns the scene's template payload.
func (s *Scene) RenderDict(target render.Target) (map[string]any, error) {
	node, err := s.Content.RenderDict(target, "Scene")
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.Source, err)
	}
	return map[string]any{
		"glance":  s.Glance,
		"source":  s.Source,
		"content": node.Map(),
	}, nil
}

// Sequence is an ordered set of Scenes forming one complete work: a chapter,
// a website page, a slide deck.
type Sequence struct {
	Author string
	Title  string
	Scenes []*Scene
	Loc    location.Location
}

type sequenceSpec struct {
	Author   string      `yaml:"author"`
	Title    string      `yaml:"title"`
	Sequence []sceneSpec `yaml:"sequence"`
}

type sceneSpec struct {
	Glance string `yaml:"glance"`
	Source string `yaml:"source"`
}

// FromPath loads a Sequence from its YAML specification file and parses
// every scene's source file. Scene parses run concurrently; the first error
// aborts the load.
func FromPath(ctx context.Context, path string) (*Sequence, error) {
	loc, err := location.Resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(loc.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("read sequence spec %s: %w", loc.AbsPath, err)
	}

	var spec sequenceSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse sequence spec %s: %w", loc.AbsPath, err)
	}
	if spec.Title == "" {
		return nil, &content.ValidationError{Reason: fmt.Sprintf("sequence spec %s requires a title", loc.AbsPath)}
	}
	if len(spec.Sequence) == 0 {
		return nil, &content.ValidationError{Reason: fmt.Sprintf("sequence spec %s declares no scenes", loc.AbsPath)}
	}

	seq := &Sequence{
		Author: spec.Author,
		Title:  spec.Title,
		Scenes: make([]*Scene, len(spec.Sequence)),
		Loc:    loc,
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, parseWorkers)

	for i, sc := range spec.Sequence {
		wg.Add(1)
		go func(i int, sc sceneSpec) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			if ctx.Err() != nil {
				return
			}

			loaded, err := loadScene(loc, sc)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			seq.Scenes[i] = loaded
		}(i, sc)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return seq, nil
}

func loadScene(base location.Location, spec sceneSpec) (*Scene, error) {
	if spec.Source == "" {
		return nil, &content.ValidationError{Reason: "scene requires a source"}
	}
	srcLoc, err := base.ResolveRelative(spec.Source)
	if err != nil {
		return nil, err
	}
	tree, err := parser.ParseFile(srcLoc.AbsPath)
	if err != nil {
		return nil, err
	}
	return &Scene{
		Glance:  spec.Glance,
		Source:  spec.Source,
		Content: tree,
		Loc:     srcLoc,
	}, nil
}

// RenderDict returns the sequence's full template payload: author and title
// plus every scene's rendered content, in declaration order.
func (s *Sequence) RenderDict(target render.Target) (map[string]any, error) {
	scenes := make([]any, 0, len(s.Scenes))
	for _, sc := range s.Scenes {
		d, err := sc.RenderDict(target)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, d)
	}
	return map[string]any{
		"author":   s.Author,
		"title":    s.Title,
		"sequence": scenes,
	}, nil
}
