package content

import (
	"fmt"

	"github.com/dwillcox/publisher/internal/location"
)

// Keyword is one declared key/value pair, kept in declaration order.
type Keyword struct {
	Key   string
	Value any
}

// Args carries a declaration's constructor arguments: positional values,
// ordered keyword pairs, and the location of the declaring file.
type Args struct {
	Positional []any
	Keywords   []Keyword
	Location   location.Location
}

// keyword returns the last value declared under key.
func (a Args) keyword(key string) (any, bool) {
	var found any
	ok := false
	for _, kw := range a.Keywords {
		if kw.Key == key {
			found, ok = kw.Value, true
		}
	}
	return found, ok
}

// allowedClasses is the factory's allow-list of constructible content types.
var allowedClasses = map[string]bool{
	"Text":   true,
	"Figure": true,
	"Yaml":   true,
}

// Allowed reports whether class names a constructible content type.
func Allowed(class string) bool {
	return allowedClasses[class]
}

// Construct builds a leaf content object from a declared class name and its
// arguments. The "class" keyword, if present, is dispatch metadata and is
// stripped before construction. Class names outside the allow-list fail with
// *UnknownClassError; field mapping is explicit per type, and unknown fields
// on the typed leaves fail with *ValidationError.
func Construct(class string, args Args) (Content, error) {
	switch class {
	case "Text":
		return constructText(args)
	case "Figure":
		return constructFigure(args)
	case "Yaml":
		return constructYaml(args)
	default:
		return nil, &UnknownClassError{Class: class}
	}
}

func constructText(args Args) (Content, error) {
	var raw string
	switch {
	case len(args.Positional) == 1:
		s, ok := args.Positional[0].(string)
		if !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("Text content must be a string, got %T", args.Positional[0])}
		}
		raw = s
	case len(args.Positional) > 1:
		return nil, &ValidationError{Reason: "Text takes a single content argument"}
	default:
		v, ok := args.keyword("content")
		if !ok {
			return nil, &ValidationError{Reason: "Text requires a content argument"}
		}
		s, ok := v.(string)
		if !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("Text content must be a string, got %T", v)}
		}
		raw = s
	}
	for _, kw := range args.Keywords {
		switch kw.Key {
		case "class", "content", "location":
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown Text field %q", kw.Key)}
		}
	}
	return NewText(raw, args.Location), nil
}

func constructFigure(args Args) (Content, error) {
	if len(args.Positional) > 0 {
		return nil, &ValidationError{Reason: "Figure takes no positional arguments"}
	}
	var source, title, caption string
	for _, kw := range args.Keywords {
		switch kw.Key {
		case "class", "location":
			continue
		}
		s, ok := kw.Value.(string)
		if !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("Figure field %q must be a string, got %T", kw.Key, kw.Value)}
		}
		switch kw.Key {
		case "source":
			source = s
		case "title":
			title = s
		case "caption":
			caption = s
		default:
			return nil, &ValidationError{Reason: fmt.Sprintf("unknown Figure field %q", kw.Key)}
		}
	}
	return NewFigure(source, title, caption, args.Location)
}

func constructYaml(args Args) (Content, error) {
	y := NewYaml(args.Location)
	for _, v := range args.Positional {
		y.ArchiveEntry(v)
	}
	for _, kw := range args.Keywords {
		if kw.Key == "class" {
			continue
		}
		y.ArchiveAttribute(kw.Key, kw.Value)
	}
	return y, nil
}
