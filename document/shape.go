package document

import (
	"strings"

	"github.com/omniscale/osmdocs/element"
	"github.com/omniscale/osmdocs/keys"
)

const addrPrefix = "addr:"

// createdAttrs are element attributes collected in the created sub-document.
var createdAttrs = map[string]struct{}{
	"version":   {},
	"changeset": {},
	"timestamp": {},
	"user":      {},
	"uid":       {},
}

// Shaper converts elements into documents.
type Shaper struct {
	classifier *keys.Classifier
}

// NewShaper returns a Shaper that classifies tag keys with c.
// c can be nil.
func NewShaper(c *keys.Classifier) *Shaper {
	return &Shaper{classifier: c}
}

var defaultShaper = &Shaper{}

// Shape converts e into a document, see Shaper.Shape.
func Shape(e *element.Element) *Document {
	return defaultShaper.Shape(e)
}

// Shape converts a node or way element into a document. Returns nil for
// all other elements.
//
// Attributes from the created list go into the created sub-document,
// lat/lon into pos and all other attributes are copied as they are.
// Tags prefixed with addr: go into the address sub-document, tags without
// a colon become fields of the document. Tag keys with problem chars and
// all other tags with colons are dropped. Refs of nd children are
// collected in node_refs. Missing attributes are left out.
func (s *Shaper) Shape(e *element.Element) *Document {
	if e.Tag != element.NodeTag && e.Tag != element.WayTag {
		return nil
	}
	d := newDocument(e.Tag)

	for _, attr := range e.Attrs {
		if _, ok := createdAttrs[attr.Key]; ok {
			d.subFields(CreatedField).Set(attr.Key, attr.Value)
			continue
		}
		switch attr.Key {
		case "lat":
			p := d.pos()
			p.Lat, p.HasLat = attr.Value, true
		case "lon":
			p := d.pos()
			p.Lon, p.HasLon = attr.Value, true
		default:
			d.setScalar(attr.Key, attr.Value)
		}
	}

	e.Descendants(element.TagTag, func(tag *element.Element) {
		k, ok := tag.Attr("k")
		if !ok {
			return
		}
		v, _ := tag.Attr("v")
		if s.classifier.Classify(k) == keys.ProblemChars {
			return
		}
		if strings.HasPrefix(k, addrPrefix) {
			d.subFields(AddressField).Set(k[len(addrPrefix):], v)
		} else if !keys.HasColon(k) {
			d.setScalar(k, v)
		}
	})

	var refs []string
	e.Descendants(element.NdTag, func(nd *element.Element) {
		if ref, ok := nd.Attr("ref"); ok {
			refs = append(refs, ref)
		}
	})
	if len(refs) > 0 {
		d.fields.Set(NodeRefsField, refs)
	}

	return d
}
