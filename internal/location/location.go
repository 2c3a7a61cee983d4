package location

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathError reports a path that did not resolve to an existing regular file.
type PathError struct {
	Path     string // the path as requested
	Resolved string // the absolute path that was checked
	Base     string // base directory the path was resolved against, if any
}

func (e *PathError) Error() string {
	if e.Base != "" {
		return fmt.Sprintf("no file found at %s (path %q relative to %s)", e.Resolved, e.Path, e.Base)
	}
	return fmt.Sprintf("no file found at %s (path %q)", e.Resolved, e.Path)
}

// Location stores both the relative and absolute path to a content file.
//
// By convention, paths inside Publisher content are relative to the file
// that references them, not to the working directory where the build runs.
// A Location captures both forms once at construction so later rendering
// never has to re-derive them. The zero-value-like sentinel (both paths
// empty) stands for the working directory itself.
type Location struct {
	RelPath   string // path relative to the working directory; empty for the sentinel
	AbsPath   string // absolute path; empty for the sentinel
	Directory string // absolute directory containing the file (or the working directory)
}

// IsWorkingDir reports whether l is the working-directory sentinel.
func (l Location) IsWorkingDir() bool {
	return l.AbsPath == ""
}

// WorkingDir returns the sentinel Location for the current working directory.
func WorkingDir() (Location, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Location{}, fmt.Errorf("working directory: %w", err)
	}
	return Location{Directory: cwd}, nil
}

// Resolve validates path and returns its Location. The path may be absolute
// or relative to the working directory. Resolving the working directory
// itself yields the sentinel; anything else must be an existing regular
// file or a *PathError is returned.
func Resolve(path string) (Location, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Location{}, fmt.Errorf("working directory: %w", err)
	}
	if path == cwd {
		return Location{Directory: cwd}, nil
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(cwd, abs)
	if err != nil {
		// Outside any common root (e.g. different volume); keep the absolute form.
		rel = abs
	}

	if !isRegularFile(abs) {
		return Location{}, &PathError{Path: path, Resolved: abs}
	}

	return Location{
		RelPath:   rel,
		AbsPath:   abs,
		Directory: filepath.Dir(abs),
	}, nil
}

// ResolveRelative joins rel onto the directory containing l and resolves the
// result. It fails with *PathError naming both the attempted path and the
// base directory when no file exists there.
func (l Location) ResolveRelative(rel string) (Location, error) {
	abs := rel
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(l.Directory, rel)
	}
	abs = filepath.Clean(abs)

	if !isRegularFile(abs) {
		return Location{}, &PathError{Path: rel, Resolved: abs, Base: l.Directory}
	}
	return Resolve(abs)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
