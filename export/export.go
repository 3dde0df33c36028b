/*
Package export writes the documents of an OSM file as JSON array.

The array has one document per line (or per indented block with pretty
output):

	[
	{"type":"node",...},
	{"type":"way",...}
	]
*/
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/omniscale/osmdocs/document"
	"github.com/omniscale/osmdocs/element"
	"github.com/omniscale/osmdocs/parser/osmxml"
	"github.com/omniscale/osmdocs/stats"
)

type Exporter struct {
	// Shaper converts the elements, uses document.Shape if nil.
	Shaper *document.Shaper
	// Pretty indents each document.
	Pretty bool
}

// Export writes all documents of s to w, see Exporter.Export.
func Export(s element.Scanner, w io.Writer, pretty bool) (int, error) {
	x := Exporter{Pretty: pretty}
	return x.Export(s, w)
}

// Export reads all elements from s and writes a document for each node
// and way to w. Returns the number of written documents.
func (x *Exporter) Export(s element.Scanner, w io.Writer) (int, error) {
	shaper := x.Shaper
	if shaper == nil {
		shaper = document.NewShaper(nil)
	}

	n := 0
	buf := &bytes.Buffer{}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return n, errors.Wrap(err, "writing export")
	}
	for {
		e, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		doc := shaper.Shape(e)
		if doc == nil {
			continue
		}

		buf.Reset()
		if n > 0 {
			buf.WriteString(",\n")
		}
		if err := x.encode(buf, doc); err != nil {
			return n, errors.Wrapf(err, "encoding %s", doc.Type())
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return n, errors.Wrap(err, "writing export")
		}
		n++
		stats.DocumentsExported.WithLabelValues(doc.Type()).Inc()
	}
	if n > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return n, errors.Wrap(err, "writing export")
		}
	}
	if _, err := io.WriteString(w, "]\n"); err != nil {
		return n, errors.Wrap(err, "writing export")
	}
	return n, nil
}

func (x *Exporter) encode(buf *bytes.Buffer, doc *document.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if x.Pretty {
		return json.Indent(buf, b, "", "  ")
	}
	_, err = buf.Write(b)
	return err
}

// OutputName returns the default export file name for an OSM file.
func OutputName(input string) string {
	return input + ".json"
}

// File exports the OSM file input to output, or to OutputName(input) if
// output is empty. Returns the number of written documents.
// A partially written output is left in place if the export fails.
func (x *Exporter) File(input, output string) (int, error) {
	if output == "" {
		output = OutputName(input)
	}

	parser, err := osmxml.Open(input)
	if err != nil {
		return 0, err
	}
	defer parser.Close()

	f, err := os.Create(output)
	if err != nil {
		return 0, errors.Wrapf(err, "creating %s", output)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n, err := x.Export(stats.NewProgress("export", parser), w)
	if err != nil {
		return n, err
	}
	if err := w.Flush(); err != nil {
		return n, errors.Wrapf(err, "writing %s", output)
	}
	if err := f.Close(); err != nil {
		return n, errors.Wrapf(err, "closing %s", output)
	}
	return n, nil
}
