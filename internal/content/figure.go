package content

import (
	"github.com/dwillcox/publisher/internal/location"
	"github.com/dwillcox/publisher/internal/render"
)

// Figure is an image reference with a title and caption. The source path is
// relative to the file the figure was declared in; both the relative and
// absolute forms are resolved once at construction and never recomputed.
type Figure struct {
	Source  string
	Title   string
	Caption string
	Loc     location.Location

	SourceRelPath string
	SourceAbsPath string
}

// NewFigure validates the figure and eagerly resolves its image path against
// the declaring file's location. An empty source is a *ValidationError; a
// source that does not name an existing file is a *location.PathError.
func NewFigure(source, title, caption string, loc location.Location) (*Figure, error) {
	if source == "" {
		return nil, &ValidationError{Reason: "Figure requires a non-empty source"}
	}
	resolved, err := loc.ResolveRelative(source)
	if err != nil {
		return nil, err
	}
	return &Figure{
		Source:        source,
		Title:         title,
		Caption:       caption,
		Loc:           loc,
		SourceRelPath: resolved.RelPath,
		SourceAbsPath: resolved.AbsPath,
	}, nil
}

func (f *Figure) Class() string { return "Figure" }

func (f *Figure) RenderDict(target render.Target, context string) (render.Node, error) {
	if !target.Valid() {
		return render.Node{}, &ValidationError{Reason: "unrecognized render target " + string(target)}
	}
	return render.Node{
		Context: context,
		Class:   f.Class(),
		Attributes: map[string]any{
			"source":         f.Source,
			"title":          f.Title,
			"caption":        f.Caption,
			"source_relpath": f.SourceRelPath,
			"source_abspath": f.SourceAbsPath,
		},
	}, nil
}
