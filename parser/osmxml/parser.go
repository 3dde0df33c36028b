package osmxml

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/omniscale/osmdocs/element"
)

// ParseError is returned for malformed OSM XML. The scan can not be
// continued after a ParseError.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing OSM XML at offset %d: %s", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser is a stream based parser for OSM XML files (.osm).
//
// Next returns each element as soon as its end tag was read, children
// before their parents and the document root last. Elements keep their
// children, except the document root: top-level elements are released
// after they were returned, so memory usage is bounded by the largest
// top-level element and not by the file size.
type Parser struct {
	decoder  *xml.Decoder
	stack    []*element.Element
	seenRoot bool
	rootDone bool
	err      error
	onClose  func() error
}

// New returns a parser from an io.Reader.
func New(r io.Reader) *Parser {
	return &Parser{decoder: xml.NewDecoder(r)}
}

// Open returns a parser for an .osm file. Files ending with .gz or .bz2
// are decompressed on the fly. Call Close to release the file.
func Open(fname string) (*Parser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", fname)
	}

	var r io.Reader = f
	switch {
	case strings.HasSuffix(fname, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening %s", fname)
		}
		r = gz
	case strings.HasSuffix(fname, ".bz2"):
		r = bzip2.NewReader(f)
	}

	p := New(r)
	p.onClose = f.Close
	return p, nil
}

// Close releases the underlying file of a parser created with Open.
func (p *Parser) Close() error {
	if p.onClose == nil {
		return nil
	}
	err := p.onClose()
	p.onClose = nil
	return err
}

// Next returns the next element of the OSM file.
// Returns io.EOF after the document root was returned.
func (p *Parser) Next() (*element.Element, error) {
	if p.err != nil {
		return nil, p.err
	}
	for {
		token, err := p.decoder.Token()
		if err == io.EOF {
			switch {
			case !p.seenRoot:
				return nil, p.fail(errors.New("no element found"))
			case len(p.stack) > 0:
				return nil, p.fail(io.ErrUnexpectedEOF)
			}
			p.err = io.EOF
			return nil, io.EOF
		}
		if err != nil {
			return nil, p.fail(err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if p.rootDone {
				return nil, p.fail(errors.Errorf("junk after document element: <%s>", tok.Name.Local))
			}
			p.seenRoot = true
			elem := &element.Element{Tag: tok.Name.Local}
			if len(tok.Attr) > 0 {
				elem.Attrs = make([]element.Attr, 0, len(tok.Attr))
				for _, attr := range tok.Attr {
					elem.Attrs = append(elem.Attrs, element.Attr{Key: attr.Name.Local, Value: attr.Value})
				}
			}
			p.stack = append(p.stack, elem)
		case xml.EndElement:
			elem := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			switch depth := len(p.stack); {
			case depth == 0:
				p.rootDone = true
			case depth > 1:
				// keep children of top-level elements, the root is
				// never extended
				parent := p.stack[depth-1]
				parent.Children = append(parent.Children, elem)
			}
			return elem, nil
		}
	}
}

func (p *Parser) fail(err error) error {
	p.err = &ParseError{Offset: p.decoder.InputOffset(), Err: err}
	return p.err
}
