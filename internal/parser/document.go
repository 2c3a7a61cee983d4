package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dwillcox/publisher/internal/content"
	"github.com/dwillcox/publisher/internal/dataset"
	"github.com/dwillcox/publisher/internal/location"
)

// Structural tokens of the source format. Matching is done against a
// whitespace-trimmed, lowercased copy of the line; the original line text is
// what accumulates as content.
const (
	declarationOpen  = "```yaml"
	declarationClose = "```"
	fencePrefix      = "```"
	headingPrefix    = "#"
	dividerChar      = "-"

	requiredExtension = ".md"
)

// docParser runs the prose/declaration state machine over one source file.
//
// Headings open a parallel group (if none is open) and name a fresh serial
// segment; dividers close the open parallel group. Serial segments with no
// content are elided, so a heading immediately followed by a divider leaves
// no trace in the output tree.
type docParser struct {
	path     string
	loc      location.Location
	root     *dataset.SerialSet
	serial   *dataset.SerialSet
	parallel *dataset.ParallelSet

	// pendingName is the heading text for the serial segment currently
	// accumulating. It is applied only when the segment is sealed with
	// content, so empty groups never surface their heading.
	pendingName string

	block *blockState
	line  int
}

// ParseFile parses one source file into its root SerialSet. The root is
// tagged with a "name" attribute equal to the file's extension-stripped base
// name; a file without the required extension fails with
// *content.ValidationError.
func ParseFile(path string) (*dataset.SerialSet, error) {
	loc, err := location.Resolve(path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(loc.AbsPath)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, requiredExtension) {
		return nil, &content.ValidationError{
			Reason: fmt.Sprintf("file %s lacks the required %s extension", loc.AbsPath, requiredExtension),
		}
	}

	f, err := os.Open(loc.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc.AbsPath, err)
	}
	defer f.Close()

	return parse(f, loc, strings.TrimSuffix(base, ext))
}

func parse(r io.Reader, loc location.Location, name string) (*dataset.SerialSet, error) {
	p := &docParser{
		path:   loc.AbsPath,
		loc:    loc,
		root:   dataset.NewSerialSet(),
		serial: dataset.NewSerialSet(),
		block:  newBlockState(),
	}
	p.root.ArchiveAttribute("name", name)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.consume(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	if p.block.inDeclaration {
		return nil, &FormatError{Path: p.path, Line: p.block.openLine, Reason: "unterminated declaration block"}
	}
	if err := p.closeGroup(); err != nil {
		return nil, err
	}
	if p.parallel != nil && p.parallel.HasContent() {
		p.root.ArchiveEntry(p.parallel)
	}
	return p.root, nil
}

// consume advances the state machine by one physical line.
func (p *docParser) consume(line string) error {
	norm := strings.ToLower(strings.TrimSpace(line))

	if p.block.inDeclaration {
		if norm == declarationClose {
			return p.flushBlock()
		}
		// No structural interpretation inside a declaration.
		p.block.append(line, p.line)
		return nil
	}

	switch {
	case norm == declarationOpen:
		if err := p.flushBlock(); err != nil {
			return err
		}
		p.block.inDeclaration = true
		p.block.openLine = p.line
		return nil
	case strings.HasPrefix(norm, fencePrefix) && norm != declarationClose:
		return &FormatError{
			Path:   p.path,
			Line:   p.line,
			Reason: fmt.Sprintf("unexpected fence token %q", strings.TrimSpace(line)),
		}
	}

	heading := strings.HasPrefix(norm, headingPrefix)
	divider := norm != "" && strings.Trim(norm, dividerChar) == ""
	if !heading && !divider {
		p.block.append(line, p.line)
		return nil
	}

	if err := p.closeGroup(); err != nil {
		return err
	}
	if heading {
		if p.parallel == nil {
			p.parallel = dataset.NewParallelSet()
		}
		p.pendingName = headingText(line)
		return nil
	}

	// Divider: a pure closer.
	if p.parallel != nil {
		if p.parallel.HasContent() {
			p.root.ArchiveEntry(p.parallel)
		}
		p.parallel = nil
	}
	return nil
}

// closeGroup flushes the pending block and seals the current serial segment
// into its parent: the open parallel group, or spliced directly into the
// root when none is open.
func (p *docParser) closeGroup() error {
	if err := p.flushBlock(); err != nil {
		return err
	}
	if p.serial.HasContent() {
		if p.parallel != nil {
			sealed := p.serial
			if p.pendingName != "" {
				named := dataset.NewSerialSet()
				named.ArchiveAttribute("name", p.pendingName)
				named.UnpackAndArchive(&sealed.Dataset)
				sealed = named
			}
			p.parallel.ArchiveEntry(sealed)
		} else {
			p.root.UnpackAndArchive(&p.serial.Dataset)
		}
		p.serial = dataset.NewSerialSet()
	}
	p.pendingName = ""
	return nil
}

// flushBlock classifies the accumulated text, constructs the content object,
// and archives it into the current serial segment. Yaml results merge their
// attributes into the segment and contribute no entry; a bare declared
// sequence carries no structural meaning at this level.
func (p *docParser) flushBlock() error {
	block := p.block
	p.block = newBlockState()
	if block.blank() {
		return nil
	}

	label := block.classify()
	obj, err := block.build(label, p.loc)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = p.path
			parseErr.Line = block.startLine
			return parseErr
		}
		return fmt.Errorf("%s:%d: %w", p.path, block.startLine, err)
	}

	if y, ok := obj.(*content.Yaml); ok {
		for _, k := range y.AttributeKeys() {
			v, _ := y.Attribute(k)
			p.serial.ArchiveAttribute(k, v)
		}
		return nil
	}
	p.serial.ArchiveEntry(obj)
	return nil
}

// headingText strips the heading markers and surrounding whitespace.
func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), headingPrefix))
}
